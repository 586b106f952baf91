// Package store provides SQLite-backed history of compiled containers.
//
// Every successful compile can be recorded as a build: the spec directory
// it came from, the content hash of the compiled container, the compiled
// service definitions and the pass schedule that produced them.
//
// # Ordering
//
//   - Builds are ordered by seq INTEGER (insertion order), never timestamps
//   - All list queries use ORDER BY seq ASC
//
// # Serialization
//
// Definitions and passes are stored as canonical JSON produced by
// ir.MarshalCanonical, so two builds of the same container store
// byte-identical rows apart from id and seq.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
