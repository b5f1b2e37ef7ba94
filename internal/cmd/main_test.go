package cmd

import (
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/remsfal/remsfal-frontend-sub001/internal/config"
)

func TestMain(m *testing.M) {
	// Keep the developer's shell settings out of the tests.
	_ = os.Setenv("REMSFAL_OUTPUT", "text")
	_ = os.Unsetenv("REMSFAL_PROFILE")
	_ = os.Unsetenv("REMSFAL_PATH_STYLE")
	_ = os.Unsetenv("REMSFAL_OPENAPI")
	_ = os.Unsetenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	cleanup := config.SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}

// useKeyring installs one in-memory keyring for the whole test so saved
// profiles survive between Execute calls.
func useKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	cleanup := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(cleanup)
}
