package errors

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is MySQL error 1062 (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// ParseDBError maps a database error to an APIError. Returns nil for nil
// input. Unique constraint violations are reported as duplicates across all
// three supported dialects; anything else is a generic database error.
func ParseDBError(err error) *APIError {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResourceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateResource
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return ErrDuplicateResource
	}

	// glebarez/sqlite surfaces constraint failures as plain text
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateResource
	}

	return ErrDatabase
}

// IsUniqueViolation reports whether err is a unique constraint violation on
// any supported dialect. The download recorder treats it as retryable: it
// means a concurrent insert won the race and the retry will increment.
func IsUniqueViolation(err error) bool {
	apiErr := ParseDBError(err)
	return apiErr != nil && apiErr.Code == ErrDuplicateResource.Code
}
