package api

import (
	"context"
	"net/http"
)

// NoBody marks an endpoint without a request body, or a response whose body
// is ignored.
type NoBody struct{}

// Endpoint declares the request body type B and response type R of one
// (method, path template) pair of the API.
type Endpoint[B, R any] struct {
	Method string
	Path   string
}

func (e Endpoint[B, R]) String() string {
	return e.Method + " " + e.Path
}

// Get declares a GET endpoint.
func Get[R any](path string) Endpoint[NoBody, R] {
	return Endpoint[NoBody, R]{Method: http.MethodGet, Path: path}
}

// Post declares a POST endpoint.
func Post[B, R any](path string) Endpoint[B, R] {
	return Endpoint[B, R]{Method: http.MethodPost, Path: path}
}

// Put declares a PUT endpoint.
func Put[B, R any](path string) Endpoint[B, R] {
	return Endpoint[B, R]{Method: http.MethodPut, Path: path}
}

// Patch declares a PATCH endpoint.
func Patch[B, R any](path string) Endpoint[B, R] {
	return Endpoint[B, R]{Method: http.MethodPatch, Path: path}
}

// Delete declares a DELETE endpoint.
func Delete(path string) Endpoint[NoBody, NoBody] {
	return Endpoint[NoBody, NoBody]{Method: http.MethodDelete, Path: path}
}

// Call invokes ep with params and body. Pass NoBody{} for endpoints without
// a request body.
func Call[B, R any](ctx context.Context, r Requester, ep Endpoint[B, R], params Params, body B, overrides ...Override) (R, error) {
	opts := Options{Params: params, Config: overrides}
	if _, ok := any(body).(NoBody); !ok {
		opts.Body = body
	}
	return Request[R](ctx, r, ep.Method, ep.Path, opts)
}
