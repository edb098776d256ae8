package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pkgstats/internal/models"
	"pkgstats/internal/store"

	"gorm.io/gorm"
)

// resolutionCacheTTL bounds how long a resolved (package, version) pair is
// served from cache. Versions are immutable once published, so staleness
// only delays visibility of brand-new versions.
const resolutionCacheTTL = 5 * time.Minute

// Resolver maps a (package name, version string) pair to its version row.
type Resolver struct {
	db    *gorm.DB
	cache store.Store
}

// NewResolver creates a Resolver backed by the given read handle and cache.
func NewResolver(db *gorm.DB, cache store.Store) *Resolver {
	return &Resolver{db: db, cache: cache}
}

// ResolveVersion looks up the version identified by package name and version
// number. Returns gorm.ErrRecordNotFound when either side is unknown.
func (r *Resolver) ResolveVersion(ctx context.Context, name, num string) (*models.Version, error) {
	cacheKey := fmt.Sprintf("version:%s:%s", name, num)
	if data, err := r.cache.Get(cacheKey); err == nil {
		var cached models.Version
		if json.Unmarshal(data, &cached) == nil {
			return &cached, nil
		}
	}

	var version models.Version
	err := r.db.WithContext(ctx).
		Joins("JOIN packages ON packages.id = versions.package_id").
		Where("packages.name = ? AND versions.num = ?", name, num).
		First(&version).Error
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(&version); err == nil {
		// Cache write failures are irrelevant; the lookup already succeeded.
		_ = r.cache.Set(cacheKey, data, resolutionCacheTTL)
	}
	return &version, nil
}
