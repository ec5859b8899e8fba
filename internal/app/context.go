package app

import (
	"log/slog"

	"github.com/plexflix/plexflix/internal/search"
	"github.com/plexflix/plexflix/internal/store"
	"github.com/plexflix/plexflix/internal/tmdb"
)

// AppContext holds shared dependencies (state store, catalog gateway,
// search session, logger).
type AppContext struct {
	Store   *store.Store
	Catalog *tmdb.Client
	Search  *search.Session
	Logger  *slog.Logger
}

// New creates a new AppContext
func New(st *store.Store, catalog *tmdb.Client, session *search.Session, logger *slog.Logger) *AppContext {
	return &AppContext{
		Store:   st,
		Catalog: catalog,
		Search:  session,
		Logger:  logger,
	}
}
