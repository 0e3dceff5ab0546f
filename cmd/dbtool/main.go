package main

import (
	"bin-dispatch-service/internal/adapters/repositories"
	"bin-dispatch-service/internal/config"
	"bin-dispatch-service/internal/platform/db"
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool prepares a shared Postgres store: schema plus fleet seed.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/fleet.yaml")
	if err := initAndSeed(context.Background(), conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seed, err := repositories.LoadSeedYAML(seedPath)
	if err != nil {
		log.Fatalf("seed file invalid: %v", err)
	}

	log.Println("Seeding database...")
	if err := repositories.SeedFleet(ctx, conn, db.Postgres, seed); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete: areas=%d bins=%d", len(seed.Areas), len(seed.Bins))

	return nil
}
