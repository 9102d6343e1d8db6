package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEmail means the email address is malformed.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrWeakPassword means the password is too short.
	ErrWeakPassword = errors.New("weak password")
	// ErrPasswordTooLong means the password exceeds what bcrypt accepts.
	ErrPasswordTooLong = fmt.Errorf("%w: longer than %d bytes", ErrWeakPassword, MaxPasswordLength)
	// ErrEmailInUse means an account with the email already exists.
	ErrEmailInUse = errors.New("email already in use")
	// ErrWrongPassword means the credentials do not match an account.
	ErrWrongPassword = errors.New("wrong password")
	// ErrUnauthorized means the bearer token is missing, invalid, expired or revoked.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is the repository-level missing row marker.
	ErrNotFound = errors.New("not found")
)
