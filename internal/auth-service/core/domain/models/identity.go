package models

import "time"

// Identity is a registered account, either a user (requester) or a mechanic.
// Both live in one table; the role column is the discriminant.
type Identity struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         string
	Address      string
	Phone        string
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
}

// Otp is a single-use six digit email verification code. A new code for the
// same email replaces the previous one.
type Otp struct {
	Email     string
	Code      string
	Verified  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
