package api

import (
	"context"
	"net/http"

	"github.com/remsfal/remsfal-frontend-sub001/internal/notify"
	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
)

// Message keys emitted on notify.TopicTranslate.
const (
	MsgErrorSummary   = "toast.error.summary"
	MsgRequestFailed  = "toast.error.request"
	MsgResponseFailed = "toast.error.response"
	MsgWarnSummary    = "toast.warn.summary"
	MsgEmptyResponse  = "toast.warn.emptyResponse"
)

// Interceptor hooks into a Client call. Any hook may be nil.
//
// OnRequest may modify the outgoing config. OnRequestError and
// OnResponseError observe a failure and return the error to propagate.
// OnResponse may replace the response.
type Interceptor struct {
	Name            string
	OnRequest       func(ctx context.Context, cfg *RequestConfig) error
	OnRequestError  func(ctx context.Context, err error) error
	OnResponse      func(ctx context.Context, resp *Response) (*Response, error)
	OnResponseError func(ctx context.Context, err error) error
}

// PathParamsInterceptor substitutes RequestConfig.PathParams into the URL.
// The params and style are cleared afterwards so the transport never sees
// them. A config without PathParams is left untouched.
func PathParamsInterceptor(defaultStyle urltemplate.Style) Interceptor {
	return Interceptor{
		Name: "path-params",
		OnRequest: func(_ context.Context, cfg *RequestConfig) error {
			if cfg.PathParams == nil {
				return nil
			}
			style := defaultStyle
			if cfg.PathStyle != nil {
				style = *cfg.PathStyle
			}
			resolved, err := urltemplate.Resolve(cfg.URL, cfg.PathParams, style)
			if err != nil {
				return err
			}
			cfg.URL = resolved
			cfg.PathParams = nil
			cfg.PathStyle = nil
			return nil
		},
	}
}

// NotificationInterceptor publishes a toast for every failed call and for
// 200/201 responses with an empty body. Errors and responses pass through
// unchanged.
func NotificationInterceptor(e notify.Emitter) Interceptor {
	if e == nil {
		e = notify.Discard
	}
	return Interceptor{
		Name: "notification",
		OnRequestError: func(_ context.Context, err error) error {
			e.Emit(notify.TopicTranslate, notify.Event{
				Severity: notify.SeverityError,
				Summary:  MsgErrorSummary,
				Detail:   MsgRequestFailed,
			})
			return err
		},
		OnResponse: func(_ context.Context, resp *Response) (*Response, error) {
			if (resp.Status == http.StatusOK || resp.Status == http.StatusCreated) && resp.Empty() {
				e.Emit(notify.TopicTranslate, notify.Event{
					Severity: notify.SeverityWarn,
					Summary:  MsgWarnSummary,
					Detail:   MsgEmptyResponse,
				})
			}
			return resp, nil
		},
		OnResponseError: func(_ context.Context, err error) error {
			e.Emit(notify.TopicTranslate, notify.Event{
				Severity: notify.SeverityError,
				Summary:  MsgErrorSummary,
				Detail:   MsgResponseFailed,
			})
			return err
		},
	}
}
