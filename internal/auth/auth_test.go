package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/stockpilot/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("admin123", 4)
	require.NoError(t, err)

	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "admin123"))
}

func TestTokenIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)

	token, err := issuer.Issue(42, "manager", models.RoleManager)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)

	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "manager", claims.Username)
	assert.EqualValues(t, models.RoleManager, claims.RoleID)
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, "admin", models.RoleAdmin)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", 30*time.Minute).Issue(1, "admin", models.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", 30*time.Minute).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)

	_, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func protectedRouter(mw *Middleware, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", mw.Authenticate(), gate, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": CallerRole(c)})
	})
	return router
}

func requestWithToken(t *testing.T, router *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)
	mw := NewMiddleware(issuer)
	router := protectedRouter(mw, mw.RequireManager())

	w := requestWithToken(t, router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRoleGates(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)
	mw := NewMiddleware(issuer)

	tokenFor := func(roleID int64) string {
		token, err := issuer.Issue(1, "someone", roleID)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name     string
		gate     gin.HandlerFunc
		roleID   int64
		wantCode int
	}{
		{"admin passes admin gate", mw.RequireAdmin(), models.RoleAdmin, http.StatusOK},
		{"manager blocked by admin gate", mw.RequireAdmin(), models.RoleManager, http.StatusForbidden},
		{"manager passes manager gate", mw.RequireManager(), models.RoleManager, http.StatusOK},
		{"admin passes manager gate", mw.RequireManager(), models.RoleAdmin, http.StatusOK},
		{"user blocked by manager gate", mw.RequireManager(), models.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := protectedRouter(mw, tt.gate)
			w := requestWithToken(t, router, tokenFor(tt.roleID))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
