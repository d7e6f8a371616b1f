package errors

import (
	"errors"
	"fmt"
)

// Common error types for the storefront auth server
var (
	// Authentication errors
	ErrUserNotFound     = errors.New("username is not exist")
	ErrInvalidPassword  = errors.New("incorrect password")
	ErrNotAuthenticated = errors.New("you're not authenticated")

	// Token errors. ErrInvalidRefreshToken is terminal: the session holding
	// the token is deleted before the error is reported.
	ErrInvalidToken        = errors.New("token is expired or invalid")
	ErrInvalidRefreshToken = errors.New("refresh token is not valid")
	ErrSessionNotFound     = errors.New("session not found")

	// Registration / profile errors
	ErrDuplicateUser = errors.New("username is exist")
	ErrEmailExists   = errors.New("email is exist")
	ErrSamePassword  = errors.New("new password match current password")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
