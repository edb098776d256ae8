// Package config loads and validates environment-based configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"pkgstats/internal/types"
	"pkgstats/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Constants for configuration validation
const (
	minPort          = 1
	maxPort          = 65535
	defaultWindowLen = 90
)

// Manager implements types.ConfigManager backed by environment variables.
type Manager struct {
	serverConfig      types.ServerConfig
	authConfig        types.AuthConfig
	corsConfig        types.CORSConfig
	performanceConfig types.PerformanceConfig
	logConfig         types.LogConfig
	databaseConfig    types.DatabaseConfig
	statsConfig       types.StatsConfig
	storageConfig     types.StorageConfig
	redisDSN          string
}

// NewManager creates a new configuration manager from the environment,
// loading a .env file first when present.
func NewManager() (types.ConfigManager, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	manager := &Manager{}
	manager.load()

	if err := manager.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return manager, nil
}

func (m *Manager) load() {
	m.serverConfig = types.ServerConfig{
		Port:                    utils.ParseInteger(utils.GetEnvOrDefault("PORT", "3001"), 3001),
		Host:                    utils.GetEnvOrDefault("HOST", "0.0.0.0"),
		ReadTimeout:             utils.ParseInteger(utils.GetEnvOrDefault("SERVER_READ_TIMEOUT", "60"), 60),
		WriteTimeout:            utils.ParseInteger(utils.GetEnvOrDefault("SERVER_WRITE_TIMEOUT", "60"), 60),
		IdleTimeout:             utils.ParseInteger(utils.GetEnvOrDefault("SERVER_IDLE_TIMEOUT", "120"), 120),
		GracefulShutdownTimeout: utils.ParseInteger(utils.GetEnvOrDefault("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", "10"), 10),
	}

	m.authConfig = types.AuthConfig{
		Key: utils.GetEnvOrDefault("AUTH_KEY", ""),
	}

	corsOrigins := utils.GetEnvOrDefault("ALLOWED_ORIGINS", "*")
	m.corsConfig = types.CORSConfig{
		Enabled:          utils.ParseBoolean(utils.GetEnvOrDefault("ENABLE_CORS", "true"), true),
		AllowedOrigins:   strings.Split(corsOrigins, ","),
		AllowedMethods:   strings.Split(utils.GetEnvOrDefault("ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"), ","),
		AllowedHeaders:   strings.Split(utils.GetEnvOrDefault("ALLOWED_HEADERS", "*"), ","),
		AllowCredentials: utils.ParseBoolean(utils.GetEnvOrDefault("ALLOW_CREDENTIALS", "false"), false),
	}

	m.performanceConfig = types.PerformanceConfig{
		MaxConcurrentRequests: utils.ParseInteger(utils.GetEnvOrDefault("MAX_CONCURRENT_REQUESTS", "100"), 100),
	}

	m.logConfig = types.LogConfig{
		Level:      utils.GetEnvOrDefault("LOG_LEVEL", "info"),
		Format:     utils.GetEnvOrDefault("LOG_FORMAT", "text"),
		EnableFile: utils.ParseBoolean(utils.GetEnvOrDefault("LOG_ENABLE_FILE", "false"), false),
		FilePath:   utils.GetEnvOrDefault("LOG_FILE_PATH", "./data/logs/app.log"),
	}

	m.databaseConfig = types.DatabaseConfig{
		DSN: utils.GetEnvOrDefault("DATABASE_DSN", ""),
	}

	m.statsConfig = types.StatsConfig{
		HistoryWindowDays: utils.ParseInteger(utils.GetEnvOrDefault("HISTORY_WINDOW_DAYS", "90"), defaultWindowLen),
		Timezone:          utils.GetEnvOrDefault("STATS_TIMEZONE", "UTC"),
		FillGapsDefault:   utils.ParseBoolean(utils.GetEnvOrDefault("HISTORY_FILL_GAPS", "true"), true),
	}

	m.storageConfig = types.StorageConfig{
		BaseURL: strings.TrimRight(utils.GetEnvOrDefault("STORAGE_BASE_URL", "https://static.pkgstats.local/archives"), "/"),
	}

	m.redisDSN = utils.GetEnvOrDefault("REDIS_DSN", "")
}

// Validate checks the loaded configuration for consistency.
func (m *Manager) Validate() error {
	if m.serverConfig.Port < minPort || m.serverConfig.Port > maxPort {
		return fmt.Errorf("invalid PORT: %d", m.serverConfig.Port)
	}

	if m.databaseConfig.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}

	if m.statsConfig.HistoryWindowDays < 1 {
		return fmt.Errorf("HISTORY_WINDOW_DAYS must be at least 1, got %d", m.statsConfig.HistoryWindowDays)
	}

	if _, err := time.LoadLocation(m.statsConfig.Timezone); err != nil {
		return fmt.Errorf("invalid STATS_TIMEZONE %q: %w", m.statsConfig.Timezone, err)
	}

	if m.performanceConfig.MaxConcurrentRequests < 1 {
		return fmt.Errorf("MAX_CONCURRENT_REQUESTS must be at least 1")
	}

	return nil
}

// GetAuthConfig returns the authentication configuration.
func (m *Manager) GetAuthConfig() types.AuthConfig {
	return m.authConfig
}

// GetCORSConfig returns the CORS configuration.
func (m *Manager) GetCORSConfig() types.CORSConfig {
	return m.corsConfig
}

// GetPerformanceConfig returns the performance configuration.
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig {
	return m.performanceConfig
}

// GetLogConfig returns the logging configuration.
func (m *Manager) GetLogConfig() types.LogConfig {
	return m.logConfig
}

// GetDatabaseConfig returns the database configuration.
func (m *Manager) GetDatabaseConfig() types.DatabaseConfig {
	return m.databaseConfig
}

// GetStatsConfig returns the download stats configuration.
func (m *Manager) GetStatsConfig() types.StatsConfig {
	return m.statsConfig
}

// GetStorageConfig returns the archive storage configuration.
func (m *Manager) GetStorageConfig() types.StorageConfig {
	return m.storageConfig
}

// GetEffectiveServerConfig returns the server configuration.
func (m *Manager) GetEffectiveServerConfig() types.ServerConfig {
	return m.serverConfig
}

// GetRedisDSN returns the Redis DSN, empty when the memory store is used.
func (m *Manager) GetRedisDSN() string {
	return m.redisDSN
}

// DisplayServerConfig logs a condensed startup banner of the effective config.
func (m *Manager) DisplayServerConfig() {
	logrus.Info("")
	logrus.Info("======= Server Configuration =======")
	logrus.Infof("  Listen: %s:%d", m.serverConfig.Host, m.serverConfig.Port)
	logrus.Infof("  History window: %d days (%s)", m.statsConfig.HistoryWindowDays, m.statsConfig.Timezone)
	logrus.Infof("  Storage base URL: %s", m.storageConfig.BaseURL)
	if m.redisDSN != "" {
		logrus.Info("  Cache: redis")
	} else {
		logrus.Info("  Cache: memory")
	}
	logrus.Infof("  Log level: %s", m.logConfig.Level)
	logrus.Info("====================================")
	logrus.Info("")
}
