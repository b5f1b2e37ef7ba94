package api

import (
	"encoding/json"
	"maps"
	"net/http"
	"time"

	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
)

// Params maps parameter names to primitive values.
type Params map[string]any

// RequestConfig describes one call through the Client.
type RequestConfig struct {
	Method string
	// URL is relative to the client's BaseURL unless it is absolute.
	URL string
	// Template is the unresolved URL, used to name spans and label metrics.
	Template string
	// Params become query parameters. nil values are omitted.
	Params Params
	// Data is the request body. []byte and json.RawMessage are sent as-is,
	// anything else is marshaled to JSON.
	Data   any
	Header http.Header
	// PathParams, when non-nil, are substituted into URL by the path-params
	// interceptor before the request is built.
	PathParams Params
	// PathStyle overrides the client's placeholder style for PathParams.
	PathStyle *urltemplate.Style
	// Timeout, when positive, bounds this call only.
	Timeout time.Duration
}

func (cfg RequestConfig) clone() RequestConfig {
	cfg.Params = maps.Clone(cfg.Params)
	cfg.PathParams = maps.Clone(cfg.PathParams)
	if cfg.Header != nil {
		cfg.Header = cfg.Header.Clone()
	}
	if cfg.PathStyle != nil {
		style := *cfg.PathStyle
		cfg.PathStyle = &style
	}
	return cfg
}

// Override adjusts a RequestConfig before it is sent.
type Override func(*RequestConfig)

// SetHeader sets a request header.
func SetHeader(key, value string) Override {
	return func(cfg *RequestConfig) {
		if cfg.Header == nil {
			cfg.Header = http.Header{}
		}
		cfg.Header.Set(key, value)
	}
}

// SetTimeout bounds the call with its own deadline.
func SetTimeout(d time.Duration) Override {
	return func(cfg *RequestConfig) {
		cfg.Timeout = d
	}
}

// SetQuery adds or replaces a query parameter.
func SetQuery(key string, value any) Override {
	return func(cfg *RequestConfig) {
		if cfg.Params == nil {
			cfg.Params = Params{}
		}
		cfg.Params[key] = value
	}
}

// SetPathStyle selects the placeholder style used for PathParams.
func SetPathStyle(style urltemplate.Style) Override {
	return func(cfg *RequestConfig) {
		cfg.PathStyle = &style
	}
}

// Response is a completed 2xx exchange.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
	RateLimit *RateLimitInfo
}

// Data decodes the body as generic JSON. It returns nil for an empty or
// non-JSON body.
func (r *Response) Data() any {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil
	}
	return v
}

// Empty reports whether the body carries no meaningful payload: no bytes,
// or a JSON null, false, 0 or "".
func (r *Response) Empty() bool {
	if r == nil {
		return true
	}
	return isEmptyPayload(r.Body)
}
