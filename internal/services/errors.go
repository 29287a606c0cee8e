// internal/services/errors.go
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors shared by the service layer. Callers dispatch with
// errors.Is; services wrap them with fmt.Errorf("%w: ...") for context.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateOwnership = errors.New("duplicate ownership")
	ErrAlreadyUsed        = errors.New("already used")
	ErrValidation         = errors.New("validation")
	// ErrPersistence marks a transaction abort. Nothing was applied; the
	// caller may retry the whole operation.
	ErrPersistence = errors.New("persistence failure")
)

// isUniqueViolation reports whether err is the storage layer rejecting a
// duplicate key. Matched on message as well, since not every driver
// translates to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
