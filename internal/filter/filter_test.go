package filter

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"title": "test"}
	result, err := Apply(context.Background(), data, "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["title"] != "test" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	data := map[string]any{"title": "test", "id": "p1"}
	result, err := Apply(context.Background(), data, ".title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "test" {
		t.Errorf("expected 'test', got %v", result)
	}
}

func TestApply_MultipleResults(t *testing.T) {
	data := []any{
		map[string]any{"id": "a", "memberRole": "MANAGER"},
		map[string]any{"id": "b", "memberRole": "STAFF"},
		map[string]any{"id": "c", "memberRole": "MANAGER"},
	}
	result, err := Apply(context.Background(), data, `.[] | select(.memberRole == "MANAGER") | .id`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := result.([]any)
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("expected [a c], got %#v", result)
	}
}

func TestApply_ShellEscapedNotEqual(t *testing.T) {
	data := map[string]any{"a": 1, "b": nil}
	result, err := Apply(context.Background(), data, `[.a, .b] | map(select(. \!= null))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := result.([]any)
	if !ok || len(arr) != 1 {
		t.Fatalf("expected one element, got %#v", result)
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	if _, err := Apply(context.Background(), map[string]any{}, "invalid[[["); err == nil {
		t.Error("expected error for invalid expression")
	}
	if _, err := Compile("$undefined"); err == nil {
		t.Error("expected compile error for undefined variable")
	}
}

func TestApply_ListFallback(t *testing.T) {
	data := map[string]any{
		"projects": []any{
			map[string]any{"id": "p1", "name": "Alpha"},
			map[string]any{"id": "p2", "name": "Beta"},
		},
		"total": 2,
	}
	result, err := Apply(context.Background(), data, ".[] | .name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := result.([]any)
	if !ok || len(got) != 2 || got[0] != "Alpha" {
		t.Errorf("expected names from the projects list, got %#v", result)
	}
}

func TestApply_NoFallbackWithSeveralLists(t *testing.T) {
	data := map[string]any{
		"a": []any{map[string]any{"x": 1}},
		"b": []any{map[string]any{"x": 2}},
	}
	if _, err := Apply(context.Background(), data, ".[] | .x"); err == nil {
		t.Error("expected error when the list field is ambiguous")
	}
}

func TestApply_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Apply(ctx, nil, "range(1e9)")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompileString(t *testing.T) {
	f, err := Compile(` .id \!= "x" `)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != `.id != "x"` {
		t.Errorf("unexpected normalized expression %q", f.String())
	}
}

func TestApplyToJSON(t *testing.T) {
	result, err := ApplyToJSON(context.Background(), []byte(`{"title": "test", "id": "p1"}`), ".title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(result, []byte(`"test"`)) {
		t.Errorf("unexpected output %s", result)
	}

	raw := []byte(`{"title": "test"}`)
	result, err = ApplyToJSON(context.Background(), raw, "")
	if err != nil || !bytes.Equal(raw, result) {
		t.Errorf("empty expression should return original JSON unchanged")
	}

	if _, err := ApplyToJSON(context.Background(), []byte(`{invalid}`), ".title"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
