package iocontext

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetIO(t *testing.T) {
	if got := GetIO(context.Background()); got == nil || got.Out == nil || got.In == nil {
		t.Fatal("GetIO should fall back to the process streams")
	}

	out := &bytes.Buffer{}
	ctx := WithIO(context.Background(), &IO{Out: out, ErrOut: out})
	if GetIO(ctx).Out != out {
		t.Error("GetIO should return the IO set with WithIO")
	}
}

func TestReadInput(t *testing.T) {
	ctx := WithIO(context.Background(), &IO{In: strings.NewReader(`{"title":"stdin"}`)})
	data, err := ReadInput(ctx, "-")
	if err != nil || string(data) != `{"title":"stdin"}` {
		t.Fatalf("ReadInput(-) = %q, %v", data, err)
	}

	path := filepath.Join(t.TempDir(), "body.yaml")
	if err := os.WriteFile(path, []byte("title: file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	data, err = ReadInput(ctx, path)
	if err != nil || string(data) != "title: file\n" {
		t.Fatalf("ReadInput(file) = %q, %v", data, err)
	}

	if _, err := ReadInput(ctx, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}
