package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"

	"github.com/remsfal/remsfal-frontend-sub001/internal/urltemplate"
)

// Options carries the caller-supplied parts of a typed request.
type Options struct {
	// Params holds path and query parameters together. Keys naming a {name}
	// placeholder of the path template fill the path; every other key is
	// sent as a query parameter.
	Params Params
	Body   any
	Config []Override
}

// Request resolves pathTemplate, sends the call through r and decodes the
// JSON response into T. An empty body yields the zero T. Resolver failures
// are returned before any I/O happens.
//
// T may be *Response to receive the raw response.
func Request[T any](ctx context.Context, r Requester, method, pathTemplate string, opts Options) (T, error) {
	var zero T

	pathParams, query := PartitionParams(pathTemplate, opts.Params)
	resolved, err := urltemplate.Resolve(pathTemplate, pathParams, urltemplate.Curly)
	if err != nil {
		return zero, err
	}

	cfg := RequestConfig{
		Method:   method,
		URL:      resolved,
		Template: pathTemplate,
		Params:   query,
		Data:     opts.Body,
	}
	for _, o := range opts.Config {
		o(&cfg)
	}

	resp, err := r.Do(ctx, cfg)
	if err != nil {
		return zero, err
	}
	return decodeResponse[T](resp)
}

// PartitionParams splits params into the keys that name a {name}
// placeholder of template and the rest. A placeholder name always wins over
// a query parameter of the same name. Both results are non-nil.
func PartitionParams(template string, params Params) (path, query Params) {
	return PartitionParamsStyle(template, params, urltemplate.Curly)
}

// PartitionParamsStyle is PartitionParams for placeholders of any style.
func PartitionParamsStyle(template string, params Params, style urltemplate.Style) (path, query Params) {
	path = Params{}
	query = Params{}

	names := make(map[string]struct{})
	for _, name := range urltemplate.Names(template, style) {
		names[name] = struct{}{}
	}
	for key, value := range params {
		if _, ok := names[key]; ok {
			path[key] = value
		} else {
			query[key] = value
		}
	}
	return path, query
}

// EncodeQuery converts query params to url.Values. nil values are omitted
// and slices or arrays repeat the key once per element.
func EncodeQuery(params Params) url.Values {
	values := url.Values{}
	for key, value := range params {
		if urltemplate.IsNil(value) {
			continue
		}
		rv := reflect.ValueOf(value)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				elem := rv.Index(i).Interface()
				if urltemplate.IsNil(elem) {
					continue
				}
				values.Add(key, urltemplate.FormatValue(elem))
			}
			continue
		}
		values.Add(key, urltemplate.FormatValue(value))
	}
	return values
}

func decodeResponse[T any](resp *Response) (T, error) {
	var out T
	switch target := any(&out).(type) {
	case *NoBody:
		return out, nil
	case **Response:
		*target = resp
		return out, nil
	}
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	return out, nil
}
