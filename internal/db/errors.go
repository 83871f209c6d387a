package db

import (
	"errors"
	"strings"

	"github.com/quietfjord/macrolog/internal/services"
	"gorm.io/gorm"
)

// translateWriteError maps driver-level conflicts onto the service error the
// retry layer understands: unique-index races and sqlite writer contention
// both surface as ErrConcurrencyConflict.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return services.ErrConcurrencyConflict
	}

	message := err.Error()
	if strings.Contains(message, "UNIQUE constraint failed") ||
		strings.Contains(message, "database is locked") ||
		strings.Contains(message, "SQLITE_BUSY") {
		return services.ErrConcurrencyConflict
	}
	return err
}
