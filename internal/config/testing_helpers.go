package config

import (
	"pkgstats/internal/types"
)

// MockConfig implements types.ConfigManager for testing
type MockConfig struct {
	AuthKeyValue string
	RedisDSN     string
	StatsConfig  *types.StatsConfig
}

// GetAuthConfig returns mock auth configuration
func (m *MockConfig) GetAuthConfig() types.AuthConfig {
	return types.AuthConfig{
		Key: m.AuthKeyValue,
	}
}

// GetCORSConfig returns mock CORS configuration
func (m *MockConfig) GetCORSConfig() types.CORSConfig {
	return types.CORSConfig{
		Enabled:          false,
		AllowedOrigins:   []string{},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}
}

// GetPerformanceConfig returns mock performance configuration
func (m *MockConfig) GetPerformanceConfig() types.PerformanceConfig {
	return types.PerformanceConfig{
		MaxConcurrentRequests: 100,
	}
}

// GetLogConfig returns mock log configuration
func (m *MockConfig) GetLogConfig() types.LogConfig {
	return types.LogConfig{
		Level:      "info",
		Format:     "text",
		EnableFile: false,
		FilePath:   "./data/logs/app.log",
	}
}

// GetDatabaseConfig returns mock database configuration
func (m *MockConfig) GetDatabaseConfig() types.DatabaseConfig {
	return types.DatabaseConfig{
		DSN: ":memory:",
	}
}

// GetStatsConfig returns mock stats configuration
func (m *MockConfig) GetStatsConfig() types.StatsConfig {
	if m.StatsConfig != nil {
		return *m.StatsConfig
	}
	return types.StatsConfig{
		HistoryWindowDays: 90,
		Timezone:          "UTC",
		FillGapsDefault:   true,
	}
}

// GetStorageConfig returns mock storage configuration
func (m *MockConfig) GetStorageConfig() types.StorageConfig {
	return types.StorageConfig{
		BaseURL: "https://static.example.test/archives",
	}
}

// GetEffectiveServerConfig returns mock server configuration
func (m *MockConfig) GetEffectiveServerConfig() types.ServerConfig {
	return types.ServerConfig{
		Port:                    3001,
		Host:                    "0.0.0.0",
		ReadTimeout:             60,
		WriteTimeout:            60,
		IdleTimeout:             120,
		GracefulShutdownTimeout: 10,
	}
}

// GetRedisDSN returns mock Redis DSN
func (m *MockConfig) GetRedisDSN() string {
	return m.RedisDSN
}

// Validate always succeeds for the mock
func (m *MockConfig) Validate() error {
	return nil
}

// DisplayServerConfig is a no-op for the mock
func (m *MockConfig) DisplayServerConfig() {}
