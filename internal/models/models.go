// Package models defines the persisted entities and API response shapes.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Package corresponds to the packages table.
type Package struct {
	ID        uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string            `gorm:"type:varchar(255);not null;unique" json:"name"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Versions []Version `gorm:"foreignKey:PackageID" json:"versions,omitempty"`
}

// Version corresponds to the versions table. Num is unique within a package.
type Version struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PackageID uint      `gorm:"not null;uniqueIndex:idx_package_num" json:"package_id"`
	Num       string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_package_num" json:"num"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VersionDownload is the daily download counter row. At most one row exists
// per (version, date) pair; the count only ever grows.
type VersionDownload struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	VersionID uint      `gorm:"not null;uniqueIndex:idx_version_date" json:"version_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_version_date" json:"date"`
	Downloads int64     `gorm:"not null;default:0" json:"downloads"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName pins the table name so raw increment expressions can reference it.
func (VersionDownload) TableName() string {
	return "version_downloads"
}

// DownloadsPerDay is one entry of a history window, shaped for direct
// serialization.
type DownloadsPerDay struct {
	Date      string `json:"date"`
	Downloads int64  `json:"downloads"`
}

// VersionDownloadsResponse is the payload of the history endpoint.
type VersionDownloadsResponse struct {
	VersionDownloads []DownloadsPerDay `json:"version_downloads"`
}

// DownloadURLResponse is the JSON alternative to the download redirect.
type DownloadURLResponse struct {
	URL string `json:"url"`
}
