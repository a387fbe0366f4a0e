package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/models"
)

// wrapErr maps GORM sentinel errors onto the model error taxonomy and adds context.
func wrapErr(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", msg, models.ErrConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
