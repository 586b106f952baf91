package store

import "github.com/google/uuid"

// IDGenerator produces build ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 build ids.
//
// Format: "0190f5e4-7b2a-7c3d-9e8f-0123456789ab" (36 characters)
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7. Panics if the random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewBuildID returns a fresh UUIDv7 build id.
func NewBuildID() string {
	return UUIDv7Generator{}.Generate()
}
