package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrTagMissing        = errors.New("tag does not exist")
	ErrIngredientMissing = errors.New("ingredient does not exist")
)

// IsUniqueViolation reports whether err is a store-level uniqueness
// violation, i.e. the losing side of a concurrent insert race.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite driver surfaces constraint violations as plain errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
