package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Input limits.
const (
	MaxTitleLength = 255
	MaxJSONPayload = 1 << 20
	MaxURLLength   = 2048
	MaxPageSize    = 100
)

// ValidateTitle checks a project or property title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters (got %d)", MaxTitleLength, n)
	}
	return nil
}

// ValidateJSONPayload checks the size of a request body.
func ValidateJSONPayload(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("JSON payload cannot be empty")
	}
	if len(payload) > MaxJSONPayload {
		return fmt.Errorf("JSON payload exceeds maximum size of %d bytes (got %d)", MaxJSONPayload, len(payload))
	}
	return nil
}

// ValidateID checks an identifier that is substituted into a URL path.
// Resolved values are percent-encoded, so this only rejects values that are
// certainly wrong.
func ValidateID(id, fieldName string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("invalid %s %q: must not contain '/', '?' or '#'", fieldName, id)
	}
	return nil
}

// ParsePageSize parses a --limit value in [1, MaxPageSize].
func ParsePageSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid limit: %w", err)
	}
	if n <= 0 || n > MaxPageSize {
		return 0, fmt.Errorf("invalid limit: must be between 1 and %d", MaxPageSize)
	}
	return n, nil
}
