package user

import (
	"regexp"
	"strings"
	"time"

	"github.com/notehive/notehive/internal/apperr"
)

const maxNameLength = 50

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

var dobFloor = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// NormalizeEmail lowercases and trims an email address; identity is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the normalized address against the accepted format.
func ValidateEmail(email string) error {
	if email == "" {
		return apperr.BadRequest("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return apperr.BadRequest("Please enter a valid email")
	}
	return nil
}

// ValidateName bounds the display name length.
func ValidateName(name string) error {
	if len(name) > maxNameLength {
		return apperr.BadRequest("Name cannot exceed 50 characters")
	}
	return nil
}

// ValidateDateOfBirth requires a date between 1900-01-01 and today.
func ValidateDateOfBirth(dob time.Time) error {
	if dob.IsZero() {
		return apperr.BadRequest("Date of birth is required")
	}
	if dob.Before(dobFloor) || dob.After(time.Now().UTC()) {
		return apperr.BadRequest("Date of birth must be between 1900-01-01 and today")
	}
	return nil
}
