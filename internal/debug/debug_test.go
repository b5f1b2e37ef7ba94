package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithDebug(t *testing.T) {
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
	if !IsEnabled(WithDebug(context.Background(), true)) {
		t.Error("IsEnabled should return true when debug is enabled")
	}
	if IsEnabled(WithDebug(context.Background(), false)) {
		t.Error("IsEnabled should return false when debug is disabled")
	}
}

func TestSetupLogger_Levels(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	SetupLogger(LoggerOptions{Debug: true, Out: &bytes.Buffer{}})
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug should enable debug level logging")
	}

	SetupLogger(LoggerOptions{Out: &bytes.Buffer{}})
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug level should be disabled by default")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Warn level should stay enabled")
	}
}

func TestSetupLogger_RedactsSecrets(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	logger := SetupLogger(LoggerOptions{Debug: true, JSON: true, Out: &buf})
	logger.Debug("login", "token", "s3cret", "Authorization", "Bearer s3cret", "user", "jane")

	out := buf.String()
	if strings.Contains(out, "s3cret") {
		t.Errorf("Expected secrets to be redacted, got %s", out)
	}
	if !strings.Contains(out, `"user":"jane"`) {
		t.Errorf("Expected JSON output with other attributes, got %s", out)
	}
}
