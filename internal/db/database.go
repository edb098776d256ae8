// Package db opens the GORM database connection from a DSN, detecting the
// dialect (postgres, mysql, sqlite) from its shape.
package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pkgstats/internal/types"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the shared write connection pool.
var DB *gorm.DB

// ReadDB is a separate read-only connection pool for SQLite to avoid
// read/write lock contention. For MySQL and PostgreSQL it is the same as DB
// since those servers handle concurrency natively.
var ReadDB *gorm.DB

// NewDB opens the database described by DATABASE_DSN.
func NewDB(configManager types.ConfigManager) (*gorm.DB, error) {
	dsn := configManager.GetDatabaseConfig().DSN
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is not configured")
	}

	var gormLogger logger.Interface
	if configManager.GetLogConfig().Level == "debug" {
		// Route GORM logs through logrus output so SQL traces land in the
		// same destinations as application logs.
		gormLogger = logger.New(
			log.New(logrus.StandardLogger().Out, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		)
	}

	isPostgres := strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		(strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname="))
	isMySQL := strings.Contains(dsn, "@tcp(") || strings.Contains(dsn, "@unix(")

	var dialector gorm.Dialector
	switch {
	case isPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case isMySQL:
		if !strings.Contains(dsn, "parseTime") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
		dialector = mysql.Open(dsn)
	default:
		dialector = sqliteDialector(dsn)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if isPostgres || isMySQL {
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
		ReadDB = DB
	} else {
		// SQLite needs a single writer connection to avoid locking issues;
		// reads go through a separate WAL-mode pool.
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(time.Hour)

		ReadDB, err = openSQLiteReadDB(dsn, gormLogger)
		if err != nil {
			logrus.WithError(err).Warn("Failed to create SQLite read connection pool, using main DB for reads")
			ReadDB = DB
		}
	}

	return DB, nil
}

// sqliteDialector prepares a SQLite dialector with WAL mode and sane write
// settings, creating the parent directory for plain filesystem paths.
func sqliteDialector(dsn string) gorm.Dialector {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			logrus.WithError(err).Warn("Failed to create database directory")
		}
	}
	params := "_pragma=foreign_keys(1)&_busy_timeout=10000&_journal_mode=WAL&_synchronous=NORMAL"
	delimiter := "?"
	if strings.Contains(dsn, "?") {
		delimiter = "&"
	}
	return sqlite.Open(dsn + delimiter + params)
}

// openSQLiteReadDB creates a separate read-only connection pool for SQLite.
// In WAL mode readers do not block the writer, but only on separate
// connections.
func openSQLiteReadDB(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	params := "_pragma=foreign_keys(1)&_busy_timeout=1000&_journal_mode=WAL&_synchronous=NORMAL"
	delimiter := "?"
	if strings.Contains(dsn, "?") {
		delimiter = "&"
	}

	readDB, err := gorm.Open(sqlite.Open(dsn+delimiter+params), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite read connection: %w", err)
	}

	sqlDB, err := readDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB for read connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return readDB, nil
}
