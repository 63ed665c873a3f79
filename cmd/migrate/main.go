// Command migrate applies every pending SQL migration and exits.
// database.NewClient already applies migrations as a side effect of
// connecting, so this is a thin standalone entrypoint for CI/deploy
// pipelines that want a dedicated migration step.
package main

import (
	"context"
	"log"

	"github.com/anchorwatch/anchor/pkg/config"
	"github.com/anchorwatch/anchor/pkg/database"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbCfg, err := database.ConfigFromURL(settings.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to build database config: %v", err)
	}

	client, err := database.NewClient(context.Background(), dbCfg)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	defer client.Close()

	log.Println("migrations applied")
}
