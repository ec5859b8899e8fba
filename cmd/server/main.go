package main

import (
	"context"

	"github.com/plexflix/plexflix/internal/app"
	"github.com/plexflix/plexflix/internal/config"
	"github.com/plexflix/plexflix/internal/db"
	"github.com/plexflix/plexflix/internal/logger"
	"github.com/plexflix/plexflix/internal/search"
	"github.com/plexflix/plexflix/internal/server"
	"github.com/plexflix/plexflix/internal/service/board"
	"github.com/plexflix/plexflix/internal/storage"
	"github.com/plexflix/plexflix/internal/store"
	"github.com/plexflix/plexflix/internal/tmdb"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	// Init the state mirror for the chosen backend
	persister, err := newPersister(cfg)
	if err != nil {
		log.Error("failed to init storage", "backend", cfg.Storage.Backend, "err", err)
		return
	}

	st := store.New(persister, log)
	if err := st.Load(context.Background()); err != nil {
		log.Error("failed to load persisted state", "err", err)
		return
	}

	// Catalog gateway and the debounced search session on top of it
	catalog := tmdb.NewClient(cfg, log)
	session := search.New(catalog, log)
	defer session.Stop()

	appCtx := app.New(st, catalog, session, log)

	registrars := []server.Registrar{
		board.NewRegistrar(appCtx),
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr, "backend", cfg.Storage.Backend)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}

// newPersister wires the storage backend selected by config: a Redis
// key-value mirror or the gorm-backed record table.
func newPersister(cfg *config.Config) (store.Persister, error) {
	log := logger.L()

	if cfg.Storage.Backend == config.BackendRedis {
		redisStore := storage.NewRedis(cfg, log)
		if err := redisStore.Ping(context.Background()); err != nil {
			return nil, err
		}
		return redisStore, nil
	}

	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	return storage.NewDB(database, log), nil
}
