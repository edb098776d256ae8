package store

import (
	"pkgstats/internal/types"

	"github.com/sirupsen/logrus"
)

// NewStore selects the cache backend from configuration: Redis when a
// REDIS_DSN is configured, an in-process memory store otherwise.
func NewStore(configManager types.ConfigManager) (Store, error) {
	redisDSN := configManager.GetRedisDSN()

	if redisDSN == "" {
		logrus.Info("Using memory store for resolution cache")
		return NewMemoryStore(), nil
	}

	logrus.Info("Using redis store for resolution cache")
	return NewRedisStore(redisDSN)
}
