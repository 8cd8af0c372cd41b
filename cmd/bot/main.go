package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"breakout-trading-bot/cmd/bot/cmd"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
