package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
