package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/diwire/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestContainer creates a small compiled container with a locator.
func createTestContainer(alias string) *ir.CompiledContainer {
	return &ir.CompiledContainer{
		Services: []ir.ServiceDefinition{
			{
				ID:        "registry",
				Class:     "app.Registry",
				Public:    true,
				Arguments: ir.IRArray{ir.IRArray{ir.IRString(alias)}, ir.NewReference(".service_locator.0a1b2c3d")},
			},
			{
				ID:    "encoder." + alias,
				Class: "app.Encoder",
				Tags:  []ir.TagOccurrence{{Name: "app.encoder", Attributes: ir.IRObject{"alias": ir.IRString(alias), "priority": ir.IRInt(10)}}},
				MethodCalls: []ir.MethodCall{
					{Method: "setLimit", Arguments: ir.IRArray{ir.IRInt(1 << 60)}},
				},
			},
		},
		Passes: []ir.PassInfo{
			{Name: "resolve_class", Tier: "before_optimization", Priority: 100},
			{Name: "locator:registry", Tier: "before_optimization", Priority: 0},
		},
	}
}
