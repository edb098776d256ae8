package stats

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"pkgstats/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the schema migrated.
// A single connection keeps the shared-cache memory database alive and
// serializes writers the way the production sqlite setup does.
func newTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, db.AutoMigrate(&models.Package{}, &models.Version{}, &models.VersionDownload{}))
	return db
}

// seedVersion inserts a package with one version and returns the version row.
func seedVersion(t *testing.T, db *gorm.DB, name, num string) *models.Version {
	t.Helper()

	pkg := models.Package{Name: name}
	require.NoError(t, db.Create(&pkg).Error)
	version := models.Version{PackageID: pkg.ID, Num: num}
	require.NoError(t, db.Create(&version).Error)
	return &version
}
