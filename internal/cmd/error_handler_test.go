package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
	"github.com/remsfal/remsfal-frontend-sub001/internal/resolve"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "not configured",
			err:  fmt.Errorf("load: %w", config.ErrNotConfigured),
			want: []string{"No credentials configured.", "remsfal auth login", config.EnvBaseURL},
		},
		{
			name: "missing path parameter",
			err:  &urltemplate.MissingParamError{Name: "apartmentId", Template: "/a/{apartmentId}"},
			want: []string{`Missing path parameter "apartmentId".`, "-p apartmentId=<value>"},
		},
		{
			name: "unresolved",
			err:  &urltemplate.UnresolvedError{Template: "/a/{b", Partial: "/a/{b}", Placeholder: "{b}"},
			want: []string{"URL still contains placeholder syntax: /a/{b}", "--path-style"},
		},
		{
			name: "not found with request id",
			err:  &api.APIError{StatusCode: 404, Body: `{"error":"gone"}`, RequestID: "req-7"},
			want: []string{"API error (HTTP 404)", "The resource doesn't exist", "Request ID: req-7"},
		},
		{
			name: "bad request mentioning a required field",
			err:  &api.APIError{StatusCode: 400, Body: "title is required"},
			want: []string{"Check your request parameters", "A required field may be missing"},
		},
		{
			name: "rate limited with quota",
			err:  &api.APIError{StatusCode: 429, RateLimit: &api.RateLimitInfo{Limit: intPtr(60), Remaining: intPtr(0), Raw: "soon"}},
			want: []string{"Too many requests", "Rate limit: 0/60 left, resets soon"},
		},
		{
			name: "server error",
			err:  &api.APIError{StatusCode: 503},
			want: []string{"Server error - not your fault"},
		},
		{
			name: "schema mismatch",
			err:  &api.SchemaError{Method: "GET", URL: "/api/v1/user", Err: errors.New("property email is missing")},
			want: []string{"Response of GET /api/v1/user does not match", "property email is missing"},
		},
		{
			name: "ambiguous name",
			err: &resolve.AmbiguousError{Query: "house", Matches: []resolve.Match{
				{ID: "1", Name: "House A"}, {ID: "2", Name: "House B"},
			}},
			want: []string{`"house" matches more than one item`, "House A (1)", "Pass the ID instead"},
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
			want: []string{"Connection refused.", "remsfal auth status"},
		},
		{
			name: "generic",
			err:  errors.New("something broke"),
			want: []string{"Error: something broke"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleError(tt.err)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("HandleError() missing %q in:\n%s", want, got)
				}
			}
		})
	}

	if got := HandleError(nil); got != "" {
		t.Errorf("HandleError(nil) = %q, want empty", got)
	}
}

func intPtr(v int) *int { return &v }
