package api

import "context"

// Requester sends a single request and returns the 2xx response.
//
// *Client is the production implementation. The typed dispatcher and the
// resource services depend only on this interface, so tests can substitute
// a fake:
//
//	type fakeRequester struct{ got RequestConfig }
//	func (f *fakeRequester) Do(ctx context.Context, cfg RequestConfig) (*Response, error) { ... }
type Requester interface {
	Do(ctx context.Context, cfg RequestConfig) (*Response, error)
}
