package user

import "time"

// User represents a registered account. OTP state lives in the otp package,
// keyed by user ID and purpose.
type User struct {
	ID              string
	Email           string
	Name            string
	DateOfBirth     time.Time
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
