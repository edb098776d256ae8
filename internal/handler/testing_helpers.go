package handler

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"pkgstats/internal/config"
	"pkgstats/internal/models"
	"pkgstats/internal/stats"
	"pkgstats/internal/storage"
	"pkgstats/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing (pure Go, no CGO)
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.Package{},
		&models.Version{},
		&models.VersionDownload{},
	)
	require.NoError(t, err)

	return db
}

// setupTestServer creates a test server with minimal dependencies
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db := setupTestDB(t)

	mockConfig := &config.MockConfig{
		AuthKeyValue: "test-auth-key-12345678",
	}

	cache := store.NewMemoryStore()
	t.Cleanup(func() { _ = cache.Close() })

	return &Server{
		DB:       db,
		config:   mockConfig,
		recorder: stats.NewRecorder(db),
		reader:   stats.NewHistoryReader(db, mockConfig.GetStatsConfig().HistoryWindowDays),
		resolver: stats.NewResolver(db, cache),
		locator:  storage.NewLocator(mockConfig.GetStorageConfig()),
		location: time.UTC,
	}
}

// seedTestVersion inserts a package with one version.
func seedTestVersion(t *testing.T, db *gorm.DB, name, num string) *models.Version {
	t.Helper()

	pkg := models.Package{Name: name}
	require.NoError(t, db.Create(&pkg).Error)
	version := models.Version{PackageID: pkg.ID, Num: num}
	require.NoError(t, db.Create(&version).Error)
	return &version
}
