package app

import (
	"database/sql"
	"log/slog"

	"github.com/thenoetrevino/boardframe/internal/config"
	"github.com/thenoetrevino/boardframe/internal/database"
	"github.com/thenoetrevino/boardframe/internal/monday"
	boardservice "github.com/thenoetrevino/boardframe/internal/services/board"
	snapshotservice "github.com/thenoetrevino/boardframe/internal/services/snapshot"
)

// Option configures New
type Option func(*appConfig)

type appConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger handed to the services. A nil logger keeps
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	Config *config.Config

	// Client is nil when no API token could be resolved
	Client *monday.Client

	db     *sql.DB
	logger *slog.Logger

	// Service layer (business logic)
	BoardService    boardservice.Service
	SnapshotService snapshotservice.Service
}

// New creates a new App with all services initialized. client and db may be
// nil; the services that need them are then left nil.
func New(cfg *config.Config, client *monday.Client, db *sql.DB, opts ...Option) *App {
	ac := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(ac)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	a := &App{
		Config: cfg,
		Client: client,
		db:     db,
		logger: ac.logger,
	}
	if client != nil {
		a.BoardService = boardservice.NewService(client, ac.logger)
	}
	if db != nil {
		a.SnapshotService = snapshotservice.NewService(database.NewSnapshotRepo(db), ac.logger)
	}
	return a
}

// Logger returns the logger services were built with
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close releases the database connection
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
