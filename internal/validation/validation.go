package validation

import (
	"fmt"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID = fmt.Errorf("invalid UUID format")
	ErrInvalidYear = fmt.Errorf("invalid year")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateYear checks that a tax year is within a plausible range.
func ValidateYear(year int) error {
	if year < 1900 || year > 2200 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}
