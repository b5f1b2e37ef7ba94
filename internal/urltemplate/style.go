package urltemplate

import (
	"fmt"
	"regexp"
	"strings"
)

// Style selects which placeholder syntax a template uses.
type Style int

const (
	// Curly matches {name} placeholders. It is the zero value.
	Curly Style = iota
	// Colon matches :name placeholders.
	Colon
	// Both matches {name} and :name placeholders in a single pass.
	Both
)

// Colon names must start with a letter or underscore so ports (":8080")
// and scheme separators ("://") are never treated as placeholders.
var (
	curlyPattern = regexp.MustCompile(`\{(\w+)\}`)
	colonPattern = regexp.MustCompile(`:([A-Za-z_]\w*)`)
	bothPattern  = regexp.MustCompile(`\{(\w+)\}|:([A-Za-z_]\w*)`)
)

// Leftover patterns are looser than the substitution patterns: a brace pair
// or colon name the substitution could not parse ("{project-id}",
// "{ id }") still counts as placeholder syntax.
var (
	curlyLeftover = regexp.MustCompile(`\{[^{}/]*\}`)
	colonLeftover = regexp.MustCompile(`:[A-Za-z_][^/?#]*`)
	bothLeftover  = regexp.MustCompile(`\{[^{}/]*\}|:[A-Za-z_][^/?#]*`)
)

func (s Style) String() string {
	switch s {
	case Curly:
		return "curly"
	case Colon:
		return "colon"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle parses "curly", "colon" or "both" (case-insensitive).
// An empty string yields Curly.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "curly":
		return Curly, nil
	case "colon":
		return Colon, nil
	case "both":
		return Both, nil
	default:
		return Curly, fmt.Errorf("invalid placeholder style %q: must be curly, colon or both", s)
	}
}

func (s Style) pattern() *regexp.Regexp {
	switch s {
	case Colon:
		return colonPattern
	case Both:
		return bothPattern
	default:
		return curlyPattern
	}
}

func (s Style) leftoverPattern() *regexp.Regexp {
	switch s {
	case Colon:
		return colonLeftover
	case Both:
		return bothLeftover
	default:
		return curlyLeftover
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
