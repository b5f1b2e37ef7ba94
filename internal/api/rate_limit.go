package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitInfo is the request quota the server reported with a response.
type RateLimitInfo struct {
	Limit     *int
	Remaining *int
	// ResetAt is when the quota refills, taken from the reset header or,
	// on a 429, from Retry-After.
	ResetAt *time.Time
	// Raw holds a reset value that was neither seconds, a Unix time nor an
	// HTTP date.
	Raw string
}

// Header names in lookup order. The unprefixed names follow the IETF
// RateLimit header draft.
var (
	limitHeaders     = []string{"X-RateLimit-Limit", "RateLimit-Limit"}
	remainingHeaders = []string{"X-RateLimit-Remaining", "RateLimit-Remaining"}
	resetHeaders     = []string{"X-RateLimit-Reset", "RateLimit-Reset", "Retry-After"}
)

// Reset values above epochCutoff are Unix times, smaller ones are seconds
// from now.
const epochCutoff = 1_000_000_000

func parseRateLimitInfo(h http.Header, now time.Time) *RateLimitInfo {
	if len(h) == 0 {
		return nil
	}
	info := &RateLimitInfo{
		Limit:     headerInt(h, limitHeaders),
		Remaining: headerInt(h, remainingHeaders),
	}
	if raw := headerValue(h, resetHeaders); raw != "" {
		if at, ok := resetTime(raw, now); ok {
			info.ResetAt = &at
		} else {
			info.Raw = raw
		}
	}
	if info.Limit == nil && info.Remaining == nil && info.ResetAt == nil && info.Raw == "" {
		return nil
	}
	return info
}

// Exhausted reports whether the server said no requests are left.
func (r *RateLimitInfo) Exhausted() bool {
	return r != nil && r.Remaining != nil && *r.Remaining <= 0
}

// RetryIn returns the time until the quota refills, rounded to seconds.
// It is zero when the reset time is unknown or already past.
func (r *RateLimitInfo) RetryIn(now time.Time) time.Duration {
	if r == nil || r.ResetAt == nil {
		return 0
	}
	if d := r.ResetAt.Sub(now); d > 0 {
		return d.Round(time.Second)
	}
	return 0
}

// Meta returns the quota as a JSON-ready map, or nil if nothing is known.
func (r *RateLimitInfo) Meta() map[string]any {
	if r == nil {
		return nil
	}
	meta := make(map[string]any, 3)
	if r.Limit != nil {
		meta["limit"] = *r.Limit
	}
	if r.Remaining != nil {
		meta["remaining"] = *r.Remaining
	}
	switch {
	case r.ResetAt != nil:
		meta["reset_at"] = r.ResetAt.UTC().Format(time.RFC3339)
	case r.Raw != "":
		meta["reset"] = r.Raw
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

// String renders the quota on one line, e.g. "2/100 left, resets 2026-10-18T12:00:00Z".
func (r *RateLimitInfo) String() string {
	if r == nil {
		return ""
	}
	var parts []string
	switch {
	case r.Remaining != nil && r.Limit != nil:
		parts = append(parts, fmt.Sprintf("%d/%d left", *r.Remaining, *r.Limit))
	case r.Remaining != nil:
		parts = append(parts, fmt.Sprintf("%d left", *r.Remaining))
	case r.Limit != nil:
		parts = append(parts, fmt.Sprintf("limit %d", *r.Limit))
	}
	switch {
	case r.ResetAt != nil:
		parts = append(parts, "resets "+r.ResetAt.UTC().Format(time.RFC3339))
	case r.Raw != "":
		parts = append(parts, "resets "+r.Raw)
	}
	return strings.Join(parts, ", ")
}

func headerValue(h http.Header, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

func headerInt(h http.Header, names []string) *int {
	v, err := strconv.Atoi(headerValue(h, names))
	if err != nil {
		return nil
	}
	return &v
}

func resetTime(raw string, now time.Time) (time.Time, bool) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n < 0 {
			return time.Time{}, false
		}
		if n > epochCutoff {
			return time.Unix(n, 0).UTC(), true
		}
		return now.Add(time.Duration(n) * time.Second).UTC(), true
	}
	t, err := http.ParseTime(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
