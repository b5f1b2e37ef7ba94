package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult is the outcome of one item of a bulk operation.
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`

	err error
}

// runBulkOperation runs operation for every ID with at most concurrency
// calls in flight. Results keep the order of ids. Items not started before
// ctx is canceled are reported as failed with the context error.
func runBulkOperation[T any](
	ctx context.Context,
	ids []string,
	concurrency int,
	progress io.Writer,
	operation func(ctx context.Context, id string) (T, error),
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]BulkResult, len(ids))
	var mu sync.Mutex
	done := 0

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			result := BulkResult{ID: id}
			if err := ctx.Err(); err != nil {
				result.err = err
			} else if data, err := operation(ctx, id); err != nil {
				result.err = err
			} else {
				result.Success = true
				result.Data = data
			}
			if result.err != nil {
				result.Error = result.err.Error()
			}
			results[i] = result

			if progress != nil {
				mu.Lock()
				done++
				_, _ = fmt.Fprintf(progress, "\rProcessed %d/%d", done, len(ids))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if progress != nil && len(ids) > 0 {
		_, _ = fmt.Fprintln(progress)
	}
	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// firstBulkError returns the error of the first failed result, or nil.
func firstBulkError(results []BulkResult) error {
	for _, r := range results {
		if !r.Success {
			return r.err
		}
	}
	return nil
}
