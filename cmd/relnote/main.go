package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ariel-frischer/relnote/internal/cli"
)

func main() {
	// Best-effort .env load so GITHUB_TOKEN can live alongside the project.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitFailure)
	}
}
