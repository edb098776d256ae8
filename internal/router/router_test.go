package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pkgstats/internal/config"
	"pkgstats/internal/handler"
	"pkgstats/internal/models"
	"pkgstats/internal/stats"
	"pkgstats/internal/storage"
	"pkgstats/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAuthKey = "test-auth-key-12345678"

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
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

	mockConfig := &config.MockConfig{AuthKeyValue: testAuthKey}
	cache := store.NewMemoryStore()
	t.Cleanup(func() { _ = cache.Close() })

	serverHandler := handler.NewServer(handler.ServerParams{
		DB:       db,
		Config:   mockConfig,
		Recorder: stats.NewRecorder(db),
		Reader:   stats.NewHistoryReader(db, mockConfig.GetStatsConfig().HistoryWindowDays),
		Resolver: stats.NewResolver(db, cache),
		Locator:  storage.NewLocator(mockConfig.GetStorageConfig()),
	})

	return NewRouter(serverHandler, mockConfig), db
}

// TestRouter_Health tests that the health endpoint is reachable without auth
func TestRouter_Health(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

// TestRouter_DownloadFlow tests the full publish-download-history round trip
func TestRouter_DownloadFlow(t *testing.T) {
	router, db := setupRouter(t)

	pkg := models.Package{Name: "left-pad"}
	require.NoError(t, db.Create(&pkg).Error)
	require.NoError(t, db.Create(&models.Version{PackageID: pkg.ID, Num: "1.0.0"}).Error)

	// Download twice
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/packages/left-pad/1.0.0/download", nil))
		assert.Equal(t, http.StatusFound, w.Code)
	}

	// History reflects both downloads on today's entry
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/packages/left-pad/1.0.0/downloads", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`{"date":"%s","downloads":2}`, today))
}

// TestRouter_DownloadUnknownVersion tests the public 404 path
func TestRouter_DownloadUnknownVersion(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/packages/nope/1.0.0/download", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestRouter_APIAuth tests that the management API requires the auth key
func TestRouter_APIAuth(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/packages", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	req.Header.Set("Authorization", "Bearer "+testAuthKey)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestRouter_PublicRoutesSkipAuth tests that downloads need no key
func TestRouter_PublicRoutesSkipAuth(t *testing.T) {
	router, db := setupRouter(t)

	pkg := models.Package{Name: "serde"}
	require.NoError(t, db.Create(&pkg).Error)
	require.NoError(t, db.Create(&models.Version{PackageID: pkg.ID, Num: "1.0.0"}).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/packages/serde/1.0.0/downloads", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestRouter_NoRoute tests the JSON 404 fallback
func TestRouter_NoRoute(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not Found")
}
