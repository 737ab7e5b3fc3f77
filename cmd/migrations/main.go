package main

import (
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/quorumpoll/quorum/internal/adapters/repository/postgres"
	"github.com/quorumpoll/quorum/internal/config"
)

func main() {
	down := flag.Bool("down", false, "roll back one migration instead of applying all")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	databaseURL, err := config.LoadDatabaseURL()
	if err != nil {
		log.Fatal(err)
	}

	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if *down {
		if err := m.Steps(-1); err != nil {
			log.Fatalf("failed to roll back migration: %v", err)
		}
		log.Println("Rolled back one migration.")
		return
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("Migrations already up to date.")
			return
		}
		log.Fatalf("failed to apply migrations: %v", err)
	}
	log.Println("Migrations applied successfully.")
}
