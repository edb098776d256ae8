package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsDBLockError tests lock error classification
func TestIsDBLockError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"sqlite locked", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"mysql lock wait", errors.New("Error 1205: Lock wait timeout exceeded"), true},
		{"postgres deadlock", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{"postgres lock", errors.New("could not obtain lock on row"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"wrapped lock error", fmt.Errorf("upsert failed: %w", errors.New("database is locked")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDBLockError(tt.err))
		})
	}
}

// TestIsTransientDBError tests transient error classification
func TestIsTransientDBError(t *testing.T) {
	assert.False(t, IsTransientDBError(nil))
	assert.True(t, IsTransientDBError(context.DeadlineExceeded))
	assert.True(t, IsTransientDBError(context.Canceled))
	assert.True(t, IsTransientDBError(errors.New("deadlock detected")))
	assert.False(t, IsTransientDBError(errors.New("syntax error")))
}
