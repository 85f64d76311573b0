// Package apperr holds the error kinds shared by every domain package.
// Callers wrap them with fmt.Errorf("...: %w", ...) and the HTTP layer
// maps them back with errors.Is.
package apperr

import "errors"

var (
	// ErrDenied: the caller lacks the required role or hit a self-protection rule.
	ErrDenied = errors.New("access denied")
	// ErrNotFound: user, question or quiz session absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalid: malformed input.
	ErrInvalid = errors.New("invalid input")
	// ErrFailed: valid input, but the operation could not complete.
	ErrFailed = errors.New("operation failed")
)
