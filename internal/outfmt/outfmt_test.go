package outfmt

import (
	"bytes"
	"context"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		expected    Mode
		expectError bool
	}{
		{"text", Text, false},
		{"", Text, false},
		{"json", JSON, false},
		{"jsonl", JSONL, false},
		{"ndjson", JSONL, false},
		{"yaml", YAML, false},
		{"yml", YAML, false},
		{"agent", Text, true},
		{"JSON", Text, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := Parse(tt.input)
			if tt.expectError != (err != nil) {
				t.Fatalf("Parse(%q) error = %v, expectError %v", tt.input, err, tt.expectError)
			}
			if mode != tt.expected {
				t.Errorf("Expected mode %v, got %v", tt.expected, mode)
			}
			if !tt.expectError && tt.input != "" && tt.input != "ndjson" && tt.input != "yml" && mode.String() != tt.input {
				t.Errorf("String() = %q, want %q", mode.String(), tt.input)
			}
		})
	}
}

func TestModeContext(t *testing.T) {
	ctx := context.Background()
	if ModeFromContext(ctx) != Text || IsStructured(ctx) || IsCompact(ctx) {
		t.Error("Expected text, non-compact defaults")
	}

	ctx = WithCompact(WithMode(ctx, YAML), true)
	if ModeFromContext(ctx) != YAML || !IsStructured(ctx) || !IsCompact(ctx) {
		t.Error("Expected YAML, compact context")
	}
}

func TestWriteJSON(t *testing.T) {
	var pretty, compact bytes.Buffer
	v := map[string]any{"a": 1}
	if err := WriteJSON(&pretty, v, false); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(&compact, v, true); err != nil {
		t.Fatal(err)
	}
	if pretty.String() != "{\n  \"a\": 1\n}\n" {
		t.Errorf("unexpected pretty output %q", pretty.String())
	}
	if compact.String() != "{\"a\":1}\n" {
		t.Errorf("unexpected compact output %q", compact.String())
	}
}

func TestWriteJSONLines(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONLines(&buf, []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\"id\":\"a\"}\n{\"id\":\"b\"}\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	if err := WriteJSONLines(&buf, "single"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\"single\"\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, map[string]any{"title": "Alpha", "tags": []any{"a"}}); err != nil {
		t.Fatal(err)
	}
	want := "tags:\n  - a\ntitle: Alpha\n"
	if buf.String() != want {
		t.Errorf("unexpected YAML:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestToPlain(t *testing.T) {
	type project struct {
		ID    string `json:"id"`
		Title string `json:"title,omitempty"`
	}

	got, err := toPlain(project{ID: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["id"] != "p1" || len(m) != 1 {
		t.Errorf("Expected JSON field names, got %#v", got)
	}

	var nilSlice []project
	got, _ = toPlain(nilSlice)
	if list, ok := got.([]any); !ok || len(list) != 0 {
		t.Errorf("Expected empty list for nil slice, got %#v", got)
	}

	var nilPtr *project
	got, _ = toPlain(nilPtr)
	if got != nil {
		t.Errorf("Expected nil for nil pointer, got %#v", got)
	}

	got, _ = toPlain([]byte(`{"raw":true}`))
	if m, ok := got.(map[string]any); !ok || m["raw"] != true {
		t.Errorf("Expected raw JSON decoded, got %#v", got)
	}

	if _, err := toPlain([]byte(`{bad`)); err == nil {
		t.Error("Expected error for invalid raw JSON")
	}
}

func TestApplyQuery(t *testing.T) {
	ctx := WithQuery(context.Background(), ".id")
	if GetQuery(ctx) != ".id" {
		t.Fatal("GetQuery should return the query set with WithQuery")
	}
	got, err := ApplyQuery(ctx, struct {
		ID string `json:"id"`
	}{ID: "p1"}, GetQuery(ctx))
	if err != nil || got != "p1" {
		t.Errorf("ApplyQuery = %v, %v", got, err)
	}
}
