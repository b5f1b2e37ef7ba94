// Package dryrun provides dry-run mode functionality for previewing mutations.
package dryrun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// Preview is a request that would have been sent.
type Preview struct {
	Method   string            `json:"method"`
	URL      string            `json:"url"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     any               `json:"body,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// shownHeaders are the request headers a preview reports. Credentials are
// never included.
var shownHeaders = []string{"Content-Type", "Idempotency-Key"}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s\n", p.Method, p.URL)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")

	if len(p.Headers) > 0 {
		keys := make([]string, 0, len(p.Headers))
		for k := range p.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", k, p.Headers[k])
		}
		_, _ = fmt.Fprintln(w)
	}

	if p.Body != nil {
		body, err := json.MarshalIndent(p.Body, "  ", "  ")
		if err == nil {
			_, _ = fmt.Fprintf(w, "  %s\n\n", body)
		}
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Recorder is an HTTP transport for dry runs. Safe methods go to the next
// Doer so lookups still work; every other request is recorded and answered
// with 204 No Content without touching the network.
type Recorder struct {
	next Doer

	mu       sync.Mutex
	previews []Preview
}

// NewRecorder wraps next. A nil next answers safe methods with 204 too.
func NewRecorder(next Doer) *Recorder {
	return &Recorder{next: next}
}

// Do implements Doer.
func (r *Recorder) Do(req *http.Request) (*http.Response, error) {
	if isSafeMethod(req.Method) && r.next != nil {
		return r.next.Do(req)
	}

	preview, err := previewFromRequest(req)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.previews = append(r.previews, preview)
	r.mu.Unlock()

	return &http.Response{
		Status:     "204 No Content",
		StatusCode: http.StatusNoContent,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Body:       http.NoBody,
		Request:    req,
	}, nil
}

// Previews returns the recorded requests in the order they were made.
func (r *Recorder) Previews() []Preview {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Preview, len(r.previews))
	copy(out, r.previews)
	return out
}

func previewFromRequest(req *http.Request) (Preview, error) {
	p := Preview{Method: req.Method, URL: req.URL.String()}

	for _, name := range shownHeaders {
		if v := req.Header.Get(name); v != "" {
			if p.Headers == nil {
				p.Headers = map[string]string{}
			}
			p.Headers[name] = v
		}
	}

	if req.Body != nil && req.Body != http.NoBody {
		raw, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return Preview{}, fmt.Errorf("failed to read request body: %w", err)
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			var decoded any
			if err := json.Unmarshal(raw, &decoded); err == nil {
				p.Body = decoded
			} else {
				p.Body = string(raw)
			}
		}
	}

	if req.Method == http.MethodDelete {
		p.Warnings = append(p.Warnings, "This action is irreversible")
	}
	if strings.Contains(p.URL, "{") || strings.Contains(p.URL, "%7B") {
		p.Warnings = append(p.Warnings, "URL still contains placeholder syntax")
	}
	return p, nil
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
