package outfmt

import (
	"context"

	"github.com/remsfal/remsfal-frontend-sub001/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	q, _ := ctx.Value(queryKey{}).(string)
	return q
}

// ApplyQuery converts v to plain JSON values and applies query to it.
func ApplyQuery(ctx context.Context, v any, query string) (any, error) {
	plain, err := toPlain(v)
	if err != nil {
		return nil, err
	}
	return filter.Apply(ctx, plain, query)
}
