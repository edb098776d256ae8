package stats

import (
	"context"
	"time"

	"pkgstats/internal/models"

	"gorm.io/gorm"
)

// HistoryReader serves the trailing per-day download history of a version.
// It reads through a dedicated read handle so history queries never contend
// with the single-writer counter path.
type HistoryReader struct {
	db         *gorm.DB
	windowDays int
}

// NewHistoryReader creates a reader with a fixed window width in days.
func NewHistoryReader(db *gorm.DB, windowDays int) *HistoryReader {
	return &HistoryReader{db: db, windowDays: windowDays}
}

// WindowDays returns the configured window width.
func (h *HistoryReader) WindowDays() int {
	return h.windowDays
}

// FetchHistory returns the daily counts for the window of windowDays days
// ending at endDate, inclusive, in ascending date order. Days before the
// window start never appear regardless of stored rows.
//
// With fillGaps set, the result always has exactly windowDays entries and
// days without a stored row carry an explicit zero. Without it, only stored
// rows are returned.
func (h *HistoryReader) FetchHistory(ctx context.Context, versionID uint, endDate time.Time, fillGaps bool) ([]models.DownloadsPerDay, error) {
	endDate = Day(endDate, time.UTC)
	startDate := WindowStart(endDate, h.windowDays)

	var rows []models.VersionDownload
	err := h.db.WithContext(ctx).
		Where("version_id = ? AND date BETWEEN ? AND ?", versionID, startDate, endDate).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	if !fillGaps {
		history := make([]models.DownloadsPerDay, 0, len(rows))
		for _, row := range rows {
			history = append(history, models.DownloadsPerDay{
				Date:      row.Date.Format(DayFormat),
				Downloads: row.Downloads,
			})
		}
		return history, nil
	}

	// Index stored rows by day string, then walk the full window so every
	// day gets an entry. Keying by the formatted day sidesteps timezone
	// drift a driver may introduce when scanning date columns.
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Date.Format(DayFormat)] = row.Downloads
	}

	history := make([]models.DownloadsPerDay, h.windowDays)
	for i := range history {
		day := startDate.AddDate(0, 0, i).Format(DayFormat)
		history[i] = models.DownloadsPerDay{
			Date:      day,
			Downloads: counts[day],
		}
	}
	return history, nil
}
