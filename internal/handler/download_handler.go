package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	app_errors "pkgstats/internal/errors"
	"pkgstats/internal/middleware"
	"pkgstats/internal/models"
	"pkgstats/internal/response"
	"pkgstats/internal/stats"
	"pkgstats/internal/timing"

	"github.com/gin-gonic/gin"
)

// DownloadVersion serves a version download and counts it.
// GET /packages/:name/:num/download
//
// Counting is best effort: the redirect is served even when the counter
// update fails, and the request is tagged so uncounted downloads remain
// visible in the access log.
func (s *Server) DownloadVersion(c *gin.Context) {
	name := c.Param("name")
	num := c.Param("num")

	timer := timing.NewLogRecorder("download")

	var version *models.Version
	err := timer.Record("get_version", func() error {
		v, resolveErr := s.resolver.ResolveVersion(c.Request.Context(), name, num)
		version = v
		return resolveErr
	})
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	day := stats.Day(time.Now(), s.location)
	if counted := s.recorder.WithTimer(timer).RecordDownload(c.Request.Context(), version.ID, day); !counted {
		c.Set(middleware.UncountedKey, true)
	}

	url := s.locator.ArchiveURL(name, num)
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		response.Success(c, models.DownloadURLResponse{URL: url})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// VersionDownloads returns the trailing daily download history of a version.
// GET /packages/:name/:num/downloads
//
// Optional query parameters:
//   - before_date: YYYY-MM-DD end of the window; anything unparseable
//     falls back to today
//   - fill: override the configured gap-filling default
func (s *Server) VersionDownloads(c *gin.Context) {
	name := c.Param("name")
	num := c.Param("num")

	version, err := s.resolver.ResolveVersion(c.Request.Context(), name, num)
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	endDate := stats.Day(time.Now(), s.location)
	if raw := c.Query("before_date"); raw != "" {
		if parsed, parseErr := stats.ParseDay(raw); parseErr == nil {
			endDate = parsed
		}
	}

	fillGaps := s.config.GetStatsConfig().FillGapsDefault
	if raw := c.Query("fill"); raw != "" {
		if parsed, parseErr := strconv.ParseBool(raw); parseErr == nil {
			fillGaps = parsed
		}
	}

	history, err := s.reader.FetchHistory(c.Request.Context(), version.ID, endDate, fillGaps)
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	response.Success(c, models.VersionDownloadsResponse{VersionDownloads: history})
}
