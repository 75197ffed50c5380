package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/internal/config"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
	"github.com/velofit/studio-optimizer/pkg/store"
)

// AppContext holds the application dependencies shared by all commands.
type AppContext struct {
	Ctx      context.Context
	Env      string
	Cfg      *config.Config
	Settings rules.Settings
	Logger   *zap.Logger

	db *store.Store
}

// Store lazily opens the Postgres store. Commands that can run purely from
// files never pay the connection cost.
func (app *AppContext) Store() (*store.Store, error) {
	if app.db != nil {
		return app.db, nil
	}
	if app.Cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("databaseURL is not configured")
	}

	db, err := store.New(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.RunMigrations(app.Ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app.db = db
	return app.db, nil
}

// Close releases any resources the context opened.
func (app *AppContext) Close() {
	if app.db != nil {
		app.db.Close()
	}
}
