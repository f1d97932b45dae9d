package main

import (
	"log"

	"github.com/joho/godotenv"

	"tidymark/internal/app"
)

func main() {
	// Best effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ tidymark failed to start: %v", err)
	}
}
