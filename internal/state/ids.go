package state

import "github.com/google/uuid"

// newID returns a fresh identity for a stroke or card. Identities are random
// UUIDs and are never reused.
func newID() string {
	return uuid.NewString()
}
