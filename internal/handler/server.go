// Package handler implements the HTTP endpoints.
package handler

import (
	"time"

	"pkgstats/internal/stats"
	"pkgstats/internal/storage"
	"pkgstats/internal/types"

	"go.uber.org/dig"
	"gorm.io/gorm"
)

// Server holds the handler dependencies.
type Server struct {
	DB       *gorm.DB
	config   types.ConfigManager
	recorder *stats.Recorder
	reader   *stats.HistoryReader
	resolver *stats.Resolver
	locator  *storage.Locator
	location *time.Location
}

// ServerParams contains the dependencies for the Server.
type ServerParams struct {
	dig.In
	DB       *gorm.DB
	Config   types.ConfigManager
	Recorder *stats.Recorder
	Reader   *stats.HistoryReader
	Resolver *stats.Resolver
	Locator  *storage.Locator
}

// NewServer creates a new Server instance.
func NewServer(params ServerParams) *Server {
	// The timezone was validated at startup; a parse failure here means the
	// tzdata shipped with the binary changed, so fall back to UTC.
	location, err := time.LoadLocation(params.Config.GetStatsConfig().Timezone)
	if err != nil {
		location = time.UTC
	}

	return &Server{
		DB:       params.DB,
		config:   params.Config,
		recorder: params.Recorder,
		reader:   params.Reader,
		resolver: params.Resolver,
		locator:  params.Locator,
		location: location,
	}
}
