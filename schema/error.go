package schema

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any API error carrying 401 status
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned when login rejects username/password
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNoCredential is returned when an operation requires a bearer credential but none is present
	ErrNoCredential = errors.New("no credential")
)

// Error represents non 2xx API response
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"detail"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

// Is matches ErrUnauthorized for 401 responses
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// NewError creates an api error
func NewError(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// IsUnauthorized returns true if err represents authorization failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
