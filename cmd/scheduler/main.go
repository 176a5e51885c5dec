package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/qmenus/api/internal/config"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/realtime"
	"github.com/qmenus/api/internal/scheduler"
)

const sweepInterval = 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	queries := database.New(pool)
	emitter := realtime.NewClient(cfg.RelayURL, cfg.RelayToken)
	job := scheduler.NewExpiryJob(queries, emitter)

	// Run once at startup, then daily.
	if err := job.Run(ctx); err != nil {
		log.Printf("ERROR: expiry sweep: %v", err)
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Printf("Scheduler running, sweep interval %s", sweepInterval)
	for range ticker.C {
		if err := job.Run(ctx); err != nil {
			log.Printf("ERROR: expiry sweep: %v", err)
		}
	}
}
