// Package urlparse provides URL parsing utilities for remsfal URLs.
package urlparse

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ParsedURL represents a parsed remsfal URL with extracted resource information.
type ParsedURL struct {
	BaseURL      string
	ProjectID    string
	ResourceType string // singular form: property, building, apartment, storage
	ResourceID   string // empty if not present
}

// Supported resource types (plural form in URL, mapped to singular)
var resourceTypes = map[string]string{
	"properties":  "property",
	"buildings":   "building",
	"apartments":  "apartment",
	"storages":    "storage",
	"commercials": "commercial",
	"sites":       "site",
}

// Parse extracts resource information from a remsfal URL. Both API URLs
// (https://host/api/v1/projects/{id}/...) and web app URLs
// (https://host/projects/{id}/...) are accepted. When the path names several
// nested resources the innermost one is reported.
func Parse(rawURL string) (*ParsedURL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" {
		return nil, fmt.Errorf("invalid URL: missing scheme (expected https://...)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}

	segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
	if len(segments) >= 2 && segments[0] == "api" && strings.HasPrefix(segments[1], "v") {
		segments = segments[2:]
	}
	if len(segments) < 2 || segments[0] != "projects" {
		return nil, fmt.Errorf("invalid remsfal URL format: expected [/api/v1]/projects/{project_id}[/{resource_type}/{resource_id}]")
	}

	projectID := segments[1]
	if _, err := uuid.Parse(projectID); err != nil {
		return nil, fmt.Errorf("invalid project ID %q: %w", projectID, err)
	}

	out := &ParsedURL{
		BaseURL:      fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		ProjectID:    projectID,
		ResourceType: "project",
	}

	rest := segments[2:]
	for len(rest) > 0 {
		singular, ok := resourceTypes[rest[0]]
		if !ok {
			if out.ResourceType == "project" {
				return nil, fmt.Errorf("unsupported resource type %q: expected one of %s", rest[0], strings.Join(supportedTypes(), ", "))
			}
			break
		}
		out.ResourceType = singular
		out.ResourceID = ""
		if len(rest) < 2 {
			break
		}
		if _, err := uuid.Parse(rest[1]); err != nil {
			return nil, fmt.Errorf("invalid %s ID %q: %w", singular, rest[1], err)
		}
		out.ResourceID = rest[1]
		rest = rest[2:]
	}

	return out, nil
}

// HasResourceID returns true if the parsed URL names a resource below the project.
func (p *ParsedURL) HasResourceID() bool {
	return p.ResourceID != ""
}

// IsURL reports whether s looks like an absolute http(s) URL.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func supportedTypes() []string {
	types := make([]string, 0, len(resourceTypes))
	for k := range resourceTypes {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}
