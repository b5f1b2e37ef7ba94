// Test utilities for the remsfal CLI commands.
//
// Commands run against an httptest server routed by routeHandler:
//
//	handler := newRouteHandler().
//	    On("GET", "/api/v1/user", jsonResponse(200, `{"id": "u1", "email": "a@example.com"}`))
//	setupTestEnvWithHandler(t, handler)
//
//	output := captureStdout(t, func() {
//	    if err := Execute(context.Background(), []string{"user"}); err != nil {
//	        t.Fatalf("command failed: %v", err)
//	    }
//	})
//
// setupTestEnvWithHandler points REMSFAL_BASE_URL at the server, allows
// private URLs and moves the config and cache directories into t.TempDir().
package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
)

const (
	testProjectID   = "8a0f1f2e-4b7c-4d6e-9f10-112233445566"
	testPropertyID  = "0b6a3f1d-1111-4c22-8d33-445566778899"
	testBuildingID  = "5e4d3c2b-3333-4b44-8c55-66778899aabb"
	testApartmentID = "c3d2e1f0-2222-4a33-9b44-556677889900"
	testStorageID   = "9f8e7d6c-4444-4d55-8e66-778899aabbcc"
)

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, r)
		close(done)
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	<-done
	return buf.String()
}

// captureStderr executes a function and captures its stderr output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, r)
		close(done)
	}()

	fn()

	_ = w.Close()
	os.Stderr = old
	<-done
	return buf.String()
}

// testEnv gives tests access to the mock server.
type testEnv struct {
	server *httptest.Server
}

// isolateEnv moves config, cache and credentials away from the user's
// files.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REMSFAL_OUTPUT", "text")
	t.Setenv("REMSFAL_LANG", "en")
	t.Setenv("REMSFAL_ALLOW_PRIVATE", "1")
	t.Setenv("REMSFAL_BASE_URL", "")
	t.Setenv("REMSFAL_TOKEN", "")
}

// setupTestEnvWithHandler creates a mock server and points the CLI at it.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	isolateEnv(t)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("REMSFAL_BASE_URL", server.URL)
	t.Setenv("REMSFAL_TOKEN", "test-token")

	return &testEnv{server: server}
}

// setupTestEnv creates a mock server answering every request with handler.
func setupTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()
	return setupTestEnvWithHandler(t, handler)
}

// jsonResponse creates an http.HandlerFunc that returns a JSON response with the given status and body.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler routes requests by exact "METHOD PATH". Unknown routes get
// a 404. Every request is recorded.
type routeHandler struct {
	routes map[string]http.HandlerFunc

	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers a handler for the given HTTP method and path.
func (h *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	h.routes[method+" "+path] = handler
	return h
}

func (h *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	h.mu.Lock()
	h.requests = append(h.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h.mu.Unlock()
	r.Body = io.NopCloser(bytes.NewReader(body))

	if handler, ok := h.routes[r.Method+" "+r.URL.Path]; ok {
		handler(w, r)
		return
	}
	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}

// Requests returns the requests served so far.
func (h *routeHandler) Requests() []recordedRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]recordedRequest(nil), h.requests...)
}

// decodeJSON decodes command output into v, failing the test on error.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, output)
	}
}
