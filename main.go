package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"survey-agent/internal/cli"
)

func main() {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
