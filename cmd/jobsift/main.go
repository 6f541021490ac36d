package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
