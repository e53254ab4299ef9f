package main

import "github.com/matthieukhl/stockpilot/internal/cmd"

func main() {
	cmd.Execute()
}
