package app

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestCloseDBConnection_NilDB(t *testing.T) {
	// Should handle nil DB gracefully
	closeDBConnection(nil, "test")
}

func TestCloseDBConnection_ValidDB(t *testing.T) {
	db := openMemoryDB(t)

	done := make(chan struct{})
	go func() {
		closeDBConnection(db, "test")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("closeDBConnection timed out")
	}
}

func TestCloseDBConnection_ConnectionPoolStats(t *testing.T) {
	db := openMemoryDB(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	closeDBConnection(db, "test")

	stats := sqlDB.Stats()
	assert.Equal(t, 0, stats.OpenConnections)
}

func TestCloseDBConnection_MultipleClose(t *testing.T) {
	db := openMemoryDB(t)

	closeDBConnection(db, "test")

	// Second close should not panic
	closeDBConnection(db, "test")
}

func TestCloseDBConnection_PreparedStatements(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: true,
	})
	require.NoError(t, err)

	type testModel struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&testModel{}))
	db.Create(&testModel{Name: "test"})
	db.Find(&testModel{})

	closeDBConnection(db, "test")
}
