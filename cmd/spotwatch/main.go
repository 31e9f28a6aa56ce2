package main

import (
	"github.com/joho/godotenv"

	"spotwatch/internal/cli"
)

func main() {
	// Best effort; configuration may come entirely from file or env.
	_ = godotenv.Load()

	cli.Execute()
}
