// Package stats implements the download counting core: a best-effort
// atomic daily counter and a bounded trailing history over it.
package stats

import (
	"context"
	"time"

	app_errors "pkgstats/internal/errors"
	"pkgstats/internal/models"
	"pkgstats/internal/timing"
	"pkgstats/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxUpsertAttempts bounds the retry loop for transient conflicts; an
// exhausted loop is reported as a write failure like any other.
const maxUpsertAttempts = 3

// Recorder increments the per-day download counter for a version. Failures
// are absorbed: counting must never break the download it is attached to.
type Recorder struct {
	db    *gorm.DB
	timer timing.Recorder
}

// NewRecorder creates a Recorder on the given write connection. The
// connection must be the root handle, not a transaction, so each increment
// runs in its own transactional scope.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{
		db:    db,
		timer: timing.NewLogRecorder("record_download"),
	}
}

// WithTimer replaces the phase recorder. Used by callers that aggregate
// request-level timings.
func (r *Recorder) WithTimer(timer timing.Recorder) *Recorder {
	return &Recorder{db: r.db, timer: timer}
}

// RecordDownload counts one download of versionID on day. Returns whether
// the counter row was durably updated. Any store error is logged and
// converted to false; nothing propagates.
//
// Under N concurrent calls for the same (version, day) the final count is
// exactly N: the increment is a single native upsert on every supported
// dialect, so concurrent first-writer races resolve inside the store.
func (r *Recorder) RecordDownload(ctx context.Context, versionID uint, day time.Time) bool {
	day = Day(day, time.UTC)

	err := r.timer.Record("update_count", func() error {
		return r.upsertWithRetry(ctx, versionID, day)
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"version_id": versionID,
			"date":       day.Format(DayFormat),
		}).Warn("download not counted")
		return false
	}
	return true
}

// upsertWithRetry retries the upsert a bounded number of times on transient
// lock contention or a uniqueness race a driver failed to resolve in-store.
func (r *Recorder) upsertWithRetry(ctx context.Context, versionID uint, day time.Time) error {
	var err error
	for attempt := 1; attempt <= maxUpsertAttempts; attempt++ {
		err = r.upsert(ctx, versionID, day)
		if err == nil {
			return nil
		}
		if !utils.IsTransientDBError(err) && !app_errors.IsUniqueViolation(err) {
			return err
		}
	}
	return err
}

// upsert performs the create-or-increment in its own transaction, detached
// from any transaction the caller may hold, so a failure here cannot poison
// unrelated work. The scope is exactly one statement wide.
func (r *Recorder) upsert(ctx context.Context, versionID uint, day time.Time) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{NewDB: true}).Transaction(func(tx *gorm.DB) error {
		row := models.VersionDownload{
			VersionID: versionID,
			Date:      day,
			Downloads: 1,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "version_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"downloads":  incrementExpr(tx),
				"updated_at": time.Now(),
			}),
		}).Create(&row).Error
	})
}

// incrementExpr builds the dialect-specific "existing + inserted" expression
// for the conflict branch of the upsert.
func incrementExpr(tx *gorm.DB) any {
	switch tx.Dialector.Name() {
	case "postgres", "pgx":
		return gorm.Expr("version_downloads.downloads + EXCLUDED.downloads")
	case "mysql":
		return gorm.Expr("downloads + VALUES(downloads)")
	default: // sqlite, sqlite3
		return gorm.Expr("version_downloads.downloads + excluded.downloads")
	}
}
