// Package container assembles the dependency injection graph.
package container

import (
	"fmt"

	"pkgstats/internal/app"
	"pkgstats/internal/config"
	"pkgstats/internal/db"
	"pkgstats/internal/handler"
	"pkgstats/internal/router"
	"pkgstats/internal/stats"
	"pkgstats/internal/storage"
	"pkgstats/internal/store"
	"pkgstats/internal/types"

	"go.uber.org/dig"
	"gorm.io/gorm"
)

// BuildContainer creates and configures the dig container with all
// application dependencies.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		config.NewManager,
		store.NewStore,
		db.NewDB,
		stats.NewRecorder,
		newHistoryReader,
		newResolver,
		newLocator,
		handler.NewServer,
		router.NewRouter,
		app.NewApp,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("failed to provide dependency: %w", err)
		}
	}

	return container, nil
}

// readHandle prefers the dedicated read pool when the database layer opened
// one (SQLite WAL mode), falling back to the main connection otherwise.
func readHandle(database *gorm.DB) *gorm.DB {
	if db.ReadDB != nil {
		return db.ReadDB
	}
	return database
}

func newHistoryReader(configManager types.ConfigManager, database *gorm.DB) *stats.HistoryReader {
	return stats.NewHistoryReader(readHandle(database), configManager.GetStatsConfig().HistoryWindowDays)
}

func newResolver(database *gorm.DB, cache store.Store) *stats.Resolver {
	return stats.NewResolver(readHandle(database), cache)
}

func newLocator(configManager types.ConfigManager) *storage.Locator {
	return storage.NewLocator(configManager.GetStorageConfig())
}
