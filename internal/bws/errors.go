package bws

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned when no access token could be found.
var ErrMissingToken = errors.New("access token missing; set --access-token or WARDEN_ACCESS_TOKEN")

// StatusError is returned for any non-2xx response from the secrets API.
type StatusError struct {
	Op         string // Endpoint: "secrets", "secret", "secrets-by-ids"
	Method     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s failed (status %d)", e.Method, e.Op, e.StatusCode)
}

// HTTPStatus returns the response status code.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
