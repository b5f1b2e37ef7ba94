// Package urltemplate substitutes named placeholders in REST URL templates.
//
// Templates use {name} or :name placeholders. Values are stringified and
// percent-encoded as a single path segment, so a substituted value can never
// introduce new placeholder syntax or path separators.
package urltemplate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Resolve replaces every placeholder of the given style in template with the
// matching value from params. It fails fast on the first placeholder whose
// value is missing or nil, and re-scans the result for leftover placeholders
// of the same style.
//
// The zero values 0, false and "" are present values and are substituted.
func Resolve(template string, params map[string]any, style Style) (string, error) {
	resolved, err := substitute(template, params, style)
	if err != nil {
		return "", err
	}
	return resolved, checkLeftover(template, resolved, style.leftoverPattern())
}

// ResolveStrict behaves like Resolve but rejects leftover placeholders of
// either syntax, regardless of style.
func ResolveStrict(template string, params map[string]any, style Style) (string, error) {
	resolved, err := substitute(template, params, style)
	if err != nil {
		return "", err
	}
	return resolved, checkLeftover(template, resolved, bothLeftover)
}

// Names returns the placeholder names of the given style in order of first
// appearance, without duplicates.
func Names(template string, style Style) []string {
	re := style.pattern()
	var names []string
	seen := make(map[string]struct{})
	for _, loc := range re.FindAllStringSubmatchIndex(template, -1) {
		name := submatchName(template, loc)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// HasPlaceholders reports whether template contains any placeholder of the
// given style.
func HasPlaceholders(template string, style Style) bool {
	return style.pattern().MatchString(template)
}

func substitute(template string, params map[string]any, style Style) (string, error) {
	if template == "" {
		return "", ErrEmptyTemplate
	}

	re := style.pattern()
	matches := re.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template, nil
	}

	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, loc := range matches {
		name := submatchName(template, loc)
		value, ok := params[name]
		if !ok || IsNil(value) {
			return "", &MissingParamError{Name: name, Template: template}
		}
		b.WriteString(template[last:loc[0]])
		b.WriteString(EncodeComponent(FormatValue(value)))
		last = loc[1]
	}
	b.WriteString(template[last:])
	return b.String(), nil
}

func checkLeftover(template, resolved string, re *regexp.Regexp) error {
	if leftover := re.FindString(resolved); leftover != "" {
		return &UnresolvedError{Template: template, Partial: resolved, Placeholder: leftover}
	}
	return nil
}

// submatchName returns the first non-empty capture group of a match.
func submatchName(s string, loc []int) string {
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] >= 0 {
			return s[loc[i]:loc[i+1]]
		}
	}
	return ""
}

// EncodeComponent percent-encodes s for use as a single URL path segment or
// query value, the way encodeURIComponent does: only ASCII letters, digits
// and -_.!~*'() are kept. Spaces become %20, and '/', ':', '{' and '}' are
// escaped.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepUnescaped(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func keepUnescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// FormatValue renders a primitive parameter value as a string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return FormatValue(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

// IsNil reports whether v is nil or a nil pointer, map, slice, func,
// channel or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
