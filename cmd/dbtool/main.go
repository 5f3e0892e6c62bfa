package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"
	"trip-route-service/internal/adapters/repositories"
	"trip-route-service/internal/config"
	"trip-route-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	seedOnly := flag.Bool("seed-only", false, "skip schema creation")
	schemaOnly := flag.Bool("schema-only", false, "skip seeding")
	flag.Parse()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	seedPath := config.Get("SEED_PATH", "data/seeds/trips.json")
	if err := initAndSeed(ctx, pg, seedPath, !*seedOnly, !*schemaOnly); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, db *sql.DB, seedPath string, schema, seed bool) error {
	if schema {
		log.Println("Initializing database schema...")
		if err := repositories.InitPostgresSchema(ctx, db); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		log.Println("Schema ready.")
	}

	if seed {
		log.Printf("Seeding database path=%s...", seedPath)
		if err := repositories.SeedPostgresFromJSON(ctx, db, seedPath); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		log.Println("Seeding complete.")
	}

	return nil
}
