package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/movielib/internal/common"
)

const (
	MinRating = 0.0
	MaxRating = 10.0

	// MaxPasswordLen is the longest password bcrypt accepts.
	MaxPasswordLen = 72
)

// ParseRating parses a user-entered rating in [0, 10].
func ParseRating(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: rating %q is not a number", common.ErrValidation, s)
	}
	if err := ValidateRating(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateRating rejects NaN, infinities and values outside [0, 10].
func ValidateRating(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinRating || v > MaxRating {
		return fmt.Errorf("%w: rating must be between 0 and 10", common.ErrValidation)
	}
	return nil
}

// ParseYear parses a 4-digit year.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return 0, fmt.Errorf("%w: year must have 4 digits", common.ErrValidation)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: year %q is not a number", common.ErrValidation, s)
		}
	}
	return strconv.Atoi(s)
}

// ValidateTitle rejects blank titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title must not be empty", common.ErrValidation)
	}
	return nil
}

// ValidateUserName rejects blank usernames.
func ValidateUserName(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username must not be empty", common.ErrValidation)
	}
	return nil
}

// ValidateCredentials rejects blank usernames, blank passwords and passwords
// longer than MaxPasswordLen bytes.
func ValidateCredentials(username string, password []byte) error {
	if err := ValidateUserName(username); err != nil {
		return err
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: password must not be empty", common.ErrValidation)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, MaxPasswordLen)
	}
	return nil
}
