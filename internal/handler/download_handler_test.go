package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pkgstats/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestDownloadVersion_Redirect tests the redirect response and the counter side effect
func TestDownloadVersion_Redirect(t *testing.T) {
	t.Parallel()
	server := setupTestServer(t)
	version := seedTestVersion(t, server.DB, "left-pad", "1.0.0")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/packages/left-pad/1.0.0/download", nil)
	c.Params = gin.Params{{Key: "name", Value: "left-pad"}, {Key: "num", Value: "1.0.0"}}

	server.DownloadVersion(c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://static.example.test/archives/left-pad/left-pad-1.0.0.tar.gz", w.Header().Get("Location"))

	var row models.VersionDownload
	require.NoError(t, server.DB.Where("version_id = ?", version.ID).First(&row).Error)
	assert.EqualValues(t, 1, row.Downloads)
}

// TestDownloadVersion_JSONAccept tests the JSON alternative to the redirect
func TestDownloadVersion_JSONAccept(t *testing.T) {
	t.Parallel()
	server := setupTestServer(t)
	seedTestVersion(t, server.DB, "serde", "1.0.195")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/packages/serde/1.0.195/download", nil)
	c.Request.Header.Set("Accept", "application/json")
	c.Params = gin.Params{{Key: "name", Value: "serde"}, {Key: "num", Value: "1.0.195"}}

	server.DownloadVersion(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data models.DownloadURLResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://static.example.test/archives/serde/serde-1.0.195.tar.gz", resp.Data.URL)
}

// TestDownloadVersion_UnknownVersion tests the 404 path
func TestDownloadVersion_UnknownVersion(t *testing.T) {
	t.Parallel()
	server := setupTestServer(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/packages/nope/1.0.0/download", nil)
	c.Params = gin.Params{{Key: "name", Value: "nope"}, {Key: "num", Value: "1.0.0"}}

	server.DownloadVersion(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var total int64
	require.NoError(t, server.DB.Model(&models.VersionDownload{}).Count(&total).Error)
	assert.Zero(t, total)
}

// TestVersionDownloads_FullWindow tests the default gap-filled history
func TestVersionDownloads_FullWindow(t *testing.T) {
	t.Parallel()
	server := setupTestServer(t)
	version := seedTestVersion(t, server.DB, "left-pad", "1.0.0")

	day, err := time.Parse("2006-01-02", "2024-01-10")
	require.NoError(t, err)
	require.NoError(t, server.DB.Create(&models.VersionDownload{
		VersionID: version.ID,
		Date:      day,
		Downloads: 3,
	}).Error)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/packages/left-pad/1.0.0/downloads?before_date=2024-01-10", nil)
	c.Params = gin.Params{{Key: "name", Value: "left-pad"}, {Key: "num", Value: "1.0.0"}}

	server.VersionDownloads(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data models.VersionDownloadsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	history := resp.Data.VersionDownloads
	require.Len(t, history, 90)
	assert.Equal(t, models.DownloadsPerDay{Date: "2024-01-10", Downloads: 3}, history[89])
	assert.Equal(t, models.DownloadsPerDay{Date: "2023-10-13", Downloads: 0}, history[0])
}

// TestVersionDownloads_SparseFill tests the fill=false override
func TestVersionDownloads_SparseFill(t *testing.T) {
	t.Parallel()
	server := setupTestServer(t)
	version := seedTestVersion(t, server.DB, "serde", "1.0.0")

	for _, d := range []string{"2024-01-05", "2024-01-09"} {
		day, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		require.NoError(t, server.DB.Create(&models.VersionDownload{
			VersionID: version.ID,
			Date:      day,
			Downloads: 7,
		}).Error)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/packages/serde/1.0.0/downloads?before_date=2024-01-10&fill=false", nil)
	c.Params = gin.Params{{Key: "name", Value: "serde"}, {Key: "num", Value: "1.0.0"}}

	server.VersionDownloads(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data models.VersionDownloadsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.VersionDownloads, 2)
}

// TestVersionDownloads_InvalidBeforeDate tests the silent fallback to today
func TestVersionDownloads_InvalidBeforeDate(t *testing.T) {
	t.Parallel()
	server := setupTestServer(t)
	version := seedTestVersion(t, server.DB, "tokio", "1.35.0")

	today := time.Now().UTC().Format("2006-01-02")
	day, err := time.Parse("2006-01-02", today)
	require.NoError(t, err)
	require.NoError(t, server.DB.Create(&models.VersionDownload{
		VersionID: version.ID,
		Date:      day,
		Downloads: 5,
	}).Error)

	target := fmt.Sprintf("/packages/tokio/1.35.0/downloads?before_date=%s", "not-a-date")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = gin.Params{{Key: "name", Value: "tokio"}, {Key: "num", Value: "1.35.0"}}

	server.VersionDownloads(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data models.VersionDownloadsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	history := resp.Data.VersionDownloads
	require.Len(t, history, 90)
	assert.Equal(t, models.DownloadsPerDay{Date: today, Downloads: 5}, history[89])
}

// TestVersionDownloads_UnknownVersion tests the 404 path
func TestVersionDownloads_UnknownVersion(t *testing.T) {
	t.Parallel()
	server := setupTestServer(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/packages/nope/1.0.0/downloads", nil)
	c.Params = gin.Params{{Key: "name", Value: "nope"}, {Key: "num", Value: "1.0.0"}}

	server.VersionDownloads(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
