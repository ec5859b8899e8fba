package main

import (
	"context"
	"log"

	"github.com/plexflix/plexflix/internal/config"
	"github.com/plexflix/plexflix/internal/db"
	"github.com/plexflix/plexflix/internal/seed"
	"github.com/plexflix/plexflix/internal/storage"
	"github.com/plexflix/plexflix/internal/store"
)

func main() {
	// Load configuration
	cfg := config.New()

	var persister store.Persister
	if cfg.Storage.Backend == config.BackendRedis {
		redisStore := storage.NewRedis(cfg, nil)
		if err := redisStore.Ping(context.Background()); err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		persister = redisStore
	} else {
		database, err := db.NewDB(cfg)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		persister = storage.NewDB(database, nil)
	}

	st := store.New(persister, nil)
	if err := st.Load(context.Background()); err != nil {
		log.Fatalf("failed to load state: %v", err)
	}

	if err := seed.DemoData(context.Background(), st); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
