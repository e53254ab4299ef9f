package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Assistant AssistantConfig `mapstructure:"assistant"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type AuthConfig struct {
	Secret      string        `mapstructure:"secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	BcryptCost  int           `mapstructure:"bcrypt_cost"`
}

type LLMConfig struct {
	Provider   string        `mapstructure:"provider"`
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

type AssistantConfig struct {
	LowStockThreshold int `mapstructure:"low_stock_threshold"`
	MaxPromptBytes    int `mapstructure:"max_prompt_bytes"`
	MinActionLen      int `mapstructure:"min_action_len"`
	MaxActions        int `mapstructure:"max_actions"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.stockpilot/")
	v.AddConfigPath("/etc/stockpilot/")

	// Enable environment variable override with STOCKPILOT_ prefix
	v.SetEnvPrefix("STOCKPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine, defaults + env cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8501", "http://127.0.0.1:8501"})

	v.SetDefault("db.maxOpenConns", 10)

	v.SetDefault("auth.token_expiry", 30*time.Minute)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.model", "llama3.1:latest")
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.timeout", 300*time.Second)
	v.SetDefault("llm.max_retries", 2)

	v.SetDefault("assistant.low_stock_threshold", 10)
	v.SetDefault("assistant.max_prompt_bytes", 8000)
	v.SetDefault("assistant.min_action_len", 10)
	v.SetDefault("assistant.max_actions", 5)
}
