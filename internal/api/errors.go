package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
	RequestID  string
	Method     string
	URL        string
	// RateLimit is the quota reported with the error response, if any.
	RateLimit *RateLimitInfo
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// SchemaError reports a 2xx response that does not match the API schema.
type SchemaError struct {
	Method string
	URL    string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response of %s %s does not match schema: %v", e.Method, e.URL, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// AuthError represents missing or unusable credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

// IsAuthError checks if the error is an authentication error or a 401.
func IsAuthError(err error) bool {
	var e *AuthError
	if errors.As(err, &e) {
		return true
	}
	return StatusCode(err) == http.StatusUnauthorized
}

// IsSchemaError checks if the error is a schema mismatch.
func IsSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound ||
			strings.Contains(strings.ToLower(apiErr.Body), "not found")
	}
	return false
}

// StatusCode returns the HTTP status of an APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
