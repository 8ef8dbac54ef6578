package identity

import "errors"

// Validation errors.
var (
	ErrInvalidInput   = errors.New("email and password are required")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Authentication errors.
var (
	ErrUnauthorized     = errors.New("missing or invalid token")
	ErrUnknownEmail     = errors.New("no account for this email")
	ErrInvalidPassword  = errors.New("wrong password")
	ErrForbidden        = errors.New("cannot modify another user")
	ErrWrongOldPassword = errors.New("old password does not match")
)

// ErrNotFound indicates the target user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrInvalidResetToken indicates the reset token is unknown, expired or used.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")
