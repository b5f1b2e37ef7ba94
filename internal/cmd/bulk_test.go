package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunBulkOperation_KeepsOrder(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	results := runBulkOperation(context.Background(), ids, 3, nil, func(ctx context.Context, id string) (string, error) {
		// Later IDs finish first.
		time.Sleep(time.Duration(len(ids)-strings.Index("abcdef", id)) * time.Millisecond)
		return strings.ToUpper(id), nil
	})

	if len(results) != len(ids) {
		t.Fatalf("got %d results, want %d", len(results), len(ids))
	}
	for i, r := range results {
		if r.ID != ids[i] {
			t.Errorf("results[%d].ID = %q, want %q", i, r.ID, ids[i])
		}
		if !r.Success || r.Data != strings.ToUpper(ids[i]) {
			t.Errorf("results[%d] = %+v", i, r)
		}
	}
}

func TestRunBulkOperation_LimitsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	ids := make([]string, 20)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}

	runBulkOperation(context.Background(), ids, 4, nil, func(ctx context.Context, id string) (any, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return nil, nil
	})

	if p := peak.Load(); p > 4 {
		t.Errorf("peak concurrency = %d, want <= 4", p)
	}
}

func TestRunBulkOperation_FailuresAndProgress(t *testing.T) {
	boom := errors.New("boom")
	var progress bytes.Buffer
	results := runBulkOperation(context.Background(), []string{"ok", "bad", "ok2"}, 1, &progress,
		func(ctx context.Context, id string) (any, error) {
			if id == "bad" {
				return nil, boom
			}
			return nil, nil
		})

	success, failure := countResults(results)
	if success != 2 || failure != 1 {
		t.Errorf("countResults = (%d, %d), want (2, 1)", success, failure)
	}
	if results[1].Error != "boom" {
		t.Errorf("results[1].Error = %q", results[1].Error)
	}
	if !errors.Is(firstBulkError(results), boom) {
		t.Errorf("firstBulkError = %v, want boom", firstBulkError(results))
	}
	if !strings.Contains(progress.String(), "Processed 3/3") {
		t.Errorf("progress = %q", progress.String())
	}
}

func TestRunBulkOperation_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := runBulkOperation(ctx, []string{"a", "b"}, 2, nil, func(ctx context.Context, id string) (any, error) {
		calls.Add(1)
		return nil, nil
	})

	if calls.Load() != 0 {
		t.Errorf("operation called %d times after cancel", calls.Load())
	}
	for _, r := range results {
		if r.Success || !errors.Is(r.err, context.Canceled) {
			t.Errorf("result %+v should fail with context.Canceled", r)
		}
	}
}

func TestFirstBulkError_AllSucceeded(t *testing.T) {
	if err := firstBulkError([]BulkResult{{ID: "a", Success: true}}); err != nil {
		t.Errorf("firstBulkError = %v, want nil", err)
	}
}
