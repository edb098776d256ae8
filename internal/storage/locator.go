// Package storage computes the public location of published archives.
package storage

import (
	"fmt"
	"strings"

	"pkgstats/internal/types"
)

// Locator formats download URLs against a configured archive store base.
type Locator struct {
	baseURL string
}

// NewLocator creates a Locator from the storage configuration.
func NewLocator(cfg types.StorageConfig) *Locator {
	return &Locator{baseURL: strings.TrimRight(cfg.BaseURL, "/")}
}

// ArchiveURL returns the canonical location of a version's archive:
// {base}/{name}/{name}-{num}.tar.gz.
func (l *Locator) ArchiveURL(name, num string) string {
	return fmt.Sprintf("%s/%s/%s-%s.tar.gz", l.baseURL, name, name, num)
}
