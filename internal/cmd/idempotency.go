package cmd

import "github.com/google/uuid"

// newIdempotencyKey returns a fresh key for one write request.
func newIdempotencyKey() string {
	return "remsfal-cli-" + uuid.NewString()
}
