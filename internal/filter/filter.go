// Package filter applies jq expressions (--jq) to API responses.
package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Filter is a compiled jq expression.
type Filter struct {
	expr string
	code *gojq.Code
}

// NormalizeExpression undoes shell escaping. Zsh turns ! into \! even inside
// single quotes, which breaks operators like !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(strings.TrimSpace(expr), `\!`, `!`)
}

// Compile parses and compiles expr.
func Compile(expr string) (*Filter, error) {
	expr = NormalizeExpression(expr)
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &Filter{expr: expr, code: code}, nil
}

// String returns the normalized expression.
func (f *Filter) String() string {
	return f.expr
}

// Run applies the filter to data, which must hold plain JSON values
// (maps, slices, float64, string, bool, nil). A single result is returned
// as is; several results are returned as a slice.
//
// Paginated lists wrap their entries in one array field, e.g. "projects".
// A query written for a bare array (".[] | ...") that fails on such an
// object is retried on that field.
func (f *Filter) Run(ctx context.Context, data any) (any, error) {
	results, err := f.run(ctx, data)
	if err != nil {
		if items, ok := listFallback(data, f.expr, err); ok {
			if retry, retryErr := f.run(ctx, items); retryErr == nil {
				results, err = retry, nil
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func (f *Filter) run(ctx context.Context, data any) ([]any, error) {
	iter := f.code.RunWithContext(ctx, data)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func listFallback(data any, expr string, runErr error) (any, bool) {
	if !looksLikeRootArrayQuery(expr) || !strings.Contains(runErr.Error(), "expected an object but got: array") &&
		!strings.Contains(runErr.Error(), "cannot iterate over") {
		return nil, false
	}
	m, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}

	var found any
	for _, v := range m {
		if _, isList := v.([]any); isList {
			if found != nil {
				return nil, false
			}
			found = v
		}
	}
	return found, found != nil
}

func looksLikeRootArrayQuery(expr string) bool {
	expr = strings.TrimSpace(expr)
	return strings.HasPrefix(expr, ".[]") || strings.HasPrefix(expr, "[.[]") || strings.HasPrefix(expr, "(.[]")
}

// Apply compiles expression and runs it on data. An empty expression
// returns data unchanged.
func Apply(ctx context.Context, data any, expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return data, nil
	}
	f, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return f.Run(ctx, data)
}

// ApplyFromJSON decodes jsonData and applies expression to it.
func ApplyFromJSON(ctx context.Context, jsonData []byte, expression string) (any, error) {
	var data any
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(ctx, data, expression)
}

// ApplyToJSON is ApplyFromJSON with pretty-printed JSON output.
func ApplyToJSON(ctx context.Context, jsonData []byte, expression string) ([]byte, error) {
	if strings.TrimSpace(expression) == "" {
		return jsonData, nil
	}
	result, err := ApplyFromJSON(ctx, jsonData, expression)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}
