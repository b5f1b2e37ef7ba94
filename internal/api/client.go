package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/remsfal/remsfal-frontend-sub001/internal/debug"
	"github.com/remsfal/remsfal-frontend-sub001/internal/notify"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "remsfal-cli"
)

const tracerName = "github.com/remsfal/remsfal-frontend-sub001/internal/api"

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// ResponseValidator checks a 2xx response against a schema.
type ResponseValidator interface {
	ValidateResponse(ctx context.Context, req *http.Request, status int, header http.Header, body []byte) error
}

// Client is the remsfal API client. Every call runs the registered
// interceptors in registration order: a path-params request interceptor and
// a notification interceptor are always installed first.
//
// A Client is safe for concurrent use.
type Client struct {
	BaseURL            string
	Token              string
	UserAgent          string
	IdempotencyKeyFunc func() string

	doer          Doer
	emitter       notify.Emitter
	validator     ResponseValidator
	pathStyle     urltemplate.Style
	extra         []Interceptor
	interceptors  []Interceptor
	validateURL   func(string) error
	validatedBase bool
	validateMu    sync.Mutex
	tracer        trace.Tracer
}

var _ Requester = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the HTTP transport.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithHTTPClient uses h as the transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.doer = h
		}
	}
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.Token = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.UserAgent = ua
	}
}

// WithEmitter sets where notification events are published.
func WithEmitter(e notify.Emitter) Option {
	return func(c *Client) {
		if e != nil {
			c.emitter = e
		}
	}
}

// WithValidator checks every 2xx response with v.
func WithValidator(v ResponseValidator) Option {
	return func(c *Client) {
		c.validator = v
	}
}

// WithPathStyle sets the default placeholder style for RequestConfig.PathParams.
func WithPathStyle(s urltemplate.Style) Option {
	return func(c *Client) {
		c.pathStyle = s
	}
}

// WithInterceptor registers an interceptor after the built-in ones.
func WithInterceptor(ic Interceptor) Option {
	return func(c *Client) {
		c.extra = append(c.extra, ic)
	}
}

// WithIdempotencyKeys sends an Idempotency-Key from fn on unsafe methods.
func WithIdempotencyKeys(fn func() string) Option {
	return func(c *Client) {
		c.IdempotencyKeyFunc = fn
	}
}

// WithBaseURLValidation validates the base URL once, before the first request.
func WithBaseURLValidation(fn func(string) error) Option {
	return func(c *Client) {
		c.validateURL = fn
	}
}

// WithTracerProvider records request spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: DefaultUserAgent,
		emitter:   notify.Discard,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = NewHTTPClient(DefaultTimeout)
	}

	c.interceptors = append([]Interceptor{
		PathParamsInterceptor(c.pathStyle),
		NotificationInterceptor(c.emitter),
	}, c.extra...)
	return c
}

// NewHTTPClient returns an HTTP client with the given timeout, TLS 1.2 or
// later and an OpenTelemetry-instrumented transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

// Notify publishes display text on notify.TopicShow.
func (c *Client) Notify(severity notify.Severity, summary, detail string) {
	c.emitter.Emit(notify.TopicShow, notify.Event{Severity: severity, Summary: summary, Detail: detail})
}

func (c *Client) ensureBaseURLValidated() error {
	if c.validateURL == nil {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBase {
		return nil
	}
	if err := c.validateURL(c.BaseURL); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}
	c.validatedBase = true
	return nil
}

// Do sends cfg through the interceptor chain and the transport. Errors raised
// before the request is sent pass through every OnRequestError hook; transport
// failures and non-2xx responses pass through every OnResponseError hook.
func (c *Client) Do(ctx context.Context, cfg RequestConfig) (*Response, error) {
	cfg = cfg.clone()
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	if cfg.Template == "" {
		cfg.Template = cfg.URL
	}
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "HTTP "+cfg.Method+" "+cfg.Template,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", cfg.Method),
			attribute.String("url.template", cfg.Template),
		),
	)
	defer span.End()

	for _, ic := range c.interceptors {
		if ic.OnRequest == nil {
			continue
		}
		if err := ic.OnRequest(ctx, &cfg); err != nil {
			return nil, c.requestError(ctx, span, cfg, start, err)
		}
	}

	if err := c.ensureBaseURLValidated(); err != nil {
		return nil, c.requestError(ctx, span, cfg, start, err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := c.newHTTPRequest(ctx, cfg)
	if err != nil {
		return nil, c.requestError(ctx, span, cfg, start, err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, c.responseError(ctx, span, cfg, start, 0, fmt.Errorf("request failed: %w", err))
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, c.responseError(ctx, span, cfg, start, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", cfg.Method, "url", req.URL.String(), "status", resp.StatusCode, "duration", time.Since(start))
	}

	requestID := requestIDFromHeader(resp.Header)
	if requestID == "" {
		requestID = req.Header.Get("X-Request-Id")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.responseError(ctx, span, cfg, start, resp.StatusCode, &APIError{
			StatusCode: resp.StatusCode,
			Body:       sanitizeErrorBody(string(body)),
			RequestID:  requestID,
			Method:     cfg.Method,
			URL:        req.URL.Path,
			RateLimit:  parseRateLimitInfo(resp.Header, time.Now()),
		})
	}

	if c.validator != nil {
		if err := c.validator.ValidateResponse(ctx, req, resp.StatusCode, resp.Header, body); err != nil {
			return nil, c.responseError(ctx, span, cfg, start, resp.StatusCode, &SchemaError{
				Method: cfg.Method,
				URL:    req.URL.Path,
				Err:    err,
			})
		}
	}

	out := &Response{
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      body,
		RequestID: requestID,
		RateLimit: parseRateLimitInfo(resp.Header, time.Now()),
	}
	for _, ic := range c.interceptors {
		if ic.OnResponse == nil {
			continue
		}
		next, err := ic.OnResponse(ctx, out)
		if err != nil {
			return nil, c.responseError(ctx, span, cfg, start, resp.StatusCode, err)
		}
		if next != nil {
			out = next
		}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", out.Status))
	observeRequest(cfg.Method, cfg.Template, statusLabel(out.Status), time.Since(start))
	return out, nil
}

// requestError runs the OnRequestError hooks. A hook returning nil leaves
// the error unchanged.
func (c *Client) requestError(ctx context.Context, span trace.Span, cfg RequestConfig, start time.Time, err error) error {
	for _, ic := range c.interceptors {
		if ic.OnRequestError == nil {
			continue
		}
		if next := ic.OnRequestError(ctx, err); next != nil {
			err = next
		}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request not sent", "method", cfg.Method, "url", cfg.URL, "error", err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	observeRequest(cfg.Method, cfg.Template, statusNotSent, time.Since(start))
	return err
}

// responseError runs the OnResponseError hooks. A hook returning nil leaves
// the error unchanged.
func (c *Client) responseError(ctx context.Context, span trace.Span, cfg RequestConfig, start time.Time, status int, err error) error {
	for _, ic := range c.interceptors {
		if ic.OnResponseError == nil {
			continue
		}
		if next := ic.OnResponseError(ctx, err); next != nil {
			err = next
		}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request failed", "method", cfg.Method, "url", cfg.URL, "status", status, "duration", time.Since(start), "error", err)
	}
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	label := statusTransportError
	if status > 0 {
		label = statusLabel(status)
	}
	observeRequest(cfg.Method, cfg.Template, label, time.Since(start))
	return err
}

func (c *Client) newHTTPRequest(ctx context.Context, cfg RequestConfig) (*http.Request, error) {
	target, err := c.resolveURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if len(cfg.Params) > 0 {
		q := target.Query()
		for key, values := range EncodeQuery(cfg.Params) {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	hasBody := !urltemplate.IsNil(cfg.Data)
	if hasBody {
		payload, err := encodeBody(cfg.Data)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.Method, target.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range cfg.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if hasBody && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}
	if c.IdempotencyKeyFunc != nil && !isSafeMethod(cfg.Method) && req.Header.Get("Idempotency-Key") == "" {
		if key := c.IdempotencyKeyFunc(); key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
	}
	return req, nil
}

func (c *Client) resolveURL(raw string) (*url.URL, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid request URL: %w", err)
		}
		return u, nil
	}
	if c.BaseURL == "" {
		return nil, errors.New("no base URL configured")
	}
	if raw != "" && raw[0] != '/' {
		raw = "/" + raw
	}
	u, err := url.Parse(c.BaseURL + raw)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}
	return u, nil
}

func encodeBody(data any) ([]byte, error) {
	switch v := data.(type) {
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return payload, nil
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func isEmptyPayload(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	}
	return false
}

// Get performs a GET request. pathParams may be nil.
func (c *Client) Get(ctx context.Context, urlTemplate string, pathParams Params, overrides ...Override) (*Response, error) {
	return c.send(ctx, http.MethodGet, urlTemplate, pathParams, nil, overrides)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, urlTemplate string, pathParams Params, body any, overrides ...Override) (*Response, error) {
	return c.send(ctx, http.MethodPost, urlTemplate, pathParams, body, overrides)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, urlTemplate string, pathParams Params, body any, overrides ...Override) (*Response, error) {
	return c.send(ctx, http.MethodPut, urlTemplate, pathParams, body, overrides)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, urlTemplate string, pathParams Params, body any, overrides ...Override) (*Response, error) {
	return c.send(ctx, http.MethodPatch, urlTemplate, pathParams, body, overrides)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, urlTemplate string, pathParams Params, overrides ...Override) (*Response, error) {
	return c.send(ctx, http.MethodDelete, urlTemplate, pathParams, nil, overrides)
}

func (c *Client) send(ctx context.Context, method, urlTemplate string, pathParams Params, body any, overrides []Override) (*Response, error) {
	cfg := RequestConfig{
		Method:     method,
		URL:        urlTemplate,
		PathParams: pathParams,
		Data:       body,
	}
	for _, o := range overrides {
		o(&cfg)
	}
	return c.Do(ctx, cfg)
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	if id := header.Get("X-Request-Id"); id != "" {
		return id
	}
	if id := header.Get("X-Correlation-Id"); id != "" {
		return id
	}
	return ""
}

// sanitizeErrorBody extracts safe error message from API response
// without exposing potentially sensitive data like tokens or user info
func sanitizeErrorBody(body string) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Title   string `json:"title"`
		Detail  string `json:"detail"`
		Errors  any    `json:"errors"`
	}
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		return "API request failed (response body redacted for security)"
	}

	validationErrors := formatValidationErrors(errResp.Errors)

	var result string
	switch {
	case errResp.Error != "":
		result = errResp.Error
	case errResp.Message != "":
		result = errResp.Message
	case errResp.Detail != "":
		result = errResp.Detail
	case errResp.Title != "":
		result = errResp.Title
	}

	if validationErrors != "" {
		if result != "" {
			return result + "\nValidation errors:\n" + validationErrors
		}
		return "Validation errors:\n" + validationErrors
	}

	if result != "" {
		return result
	}
	return "API request failed (response body redacted for security)"
}

// formatValidationErrors formats the errors field from API validation responses.
// Handles map[string]string, map[string][]string and Bean Validation style
// [{"field": ..., "message": ...}] lists.
func formatValidationErrors(errs any) string {
	var lines []string
	switch v := errs.(type) {
	case map[string]any:
		for field, value := range v {
			switch msg := value.(type) {
			case string:
				lines = append(lines, fmt.Sprintf("  %s: %s", field, msg))
			case []any:
				for _, m := range msg {
					if s, ok := m.(string); ok {
						lines = append(lines, fmt.Sprintf("  %s: %s", field, s))
					}
				}
			}
		}
	case []any:
		for _, item := range v {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			field, _ := entry["field"].(string)
			msg, _ := entry["message"].(string)
			if msg == "" {
				continue
			}
			if field == "" {
				lines = append(lines, "  "+msg)
			} else {
				lines = append(lines, fmt.Sprintf("  %s: %s", field, msg))
			}
		}
	}

	if len(lines) == 0 {
		return ""
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
