package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// httpStatuser is implemented by transport errors that carry a response status.
type httpStatuser interface {
	HTTPStatus() int
}

// APIError enhances secrets API errors with context
func APIError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return UserError{
		Message:    fmt.Sprintf("secrets API error during %s", operation),
		Details:    err.Error(),
		Suggestion: apiSuggestion(err),
		Err:        err,
	}
}

// apiSuggestion returns a hint based on the response status or network failure
func apiSuggestion(err error) string {
	var se httpStatuser
	if errors.As(err, &se) {
		switch status := se.HTTPStatus(); {
		case status == 401 || status == 403:
			return "Check the access token (--access-token, WARDEN_ACCESS_TOKEN or 'bwsconnect login')"
		case status == 404:
			return "Verify --base-url points at the bitwarden-sdk-server REST API (e.g. http://127.0.0.1:9998/rest/api/1)"
		case status == 400:
			return "The server rejected the request. Verify the secret ID and organization ID"
		case status >= 500:
			return "The secrets server failed. Check its logs and the upstream Bitwarden API"
		}
	}

	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		return "The request timed out. Check connectivity or raise --timeout"
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host"):
		return "Unable to connect. Is the bitwarden-sdk-server running at --base-url?"
	case strings.Contains(errStr, "certificate"):
		return "TLS verification failed. Pass --ca-cert with the server CA, or --insecure for testing only"
	}

	return ""
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Details:    err.Error(),
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	return err
}
