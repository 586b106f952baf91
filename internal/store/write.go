package store

import (
	"context"
	"fmt"

	"github.com/roach88/diwire/internal/ir"
)

// Build is one recorded compile.
type Build struct {
	Seq       int64
	ID        string
	SpecDir   string
	Container *ir.CompiledContainer
}

// WriteBuild records a compiled container under id. Uses ON CONFLICT(id)
// DO NOTHING for idempotency: writing the same id twice keeps the first
// row and reports inserted=false.
//
// The container hash is recomputed when c.Hash is empty.
func (s *Store) WriteBuild(ctx context.Context, id, specDir string, c *ir.CompiledContainer) (seq int64, inserted bool, err error) {
	hash := c.Hash
	if hash == "" {
		if hash, err = ir.ContainerHash(c); err != nil {
			return 0, false, fmt.Errorf("write build: %w", err)
		}
	}

	servicesJSON, err := marshalServices(c)
	if err != nil {
		return 0, false, fmt.Errorf("write build: %w", err)
	}
	passesJSON, err := marshalPasses(c)
	if err != nil {
		return 0, false, fmt.Errorf("write build: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("write build: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO builds
		(id, spec_dir, container_hash, container, passes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, specDir, hash, servicesJSON, passesJSON)
	if err != nil {
		return 0, false, fmt.Errorf("write build: insert: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("write build: rows affected: %w", err)
	}
	inserted = rows > 0

	if err := tx.QueryRowContext(ctx, `SELECT seq FROM builds WHERE id = ?`, id).Scan(&seq); err != nil {
		return 0, false, fmt.Errorf("write build: select seq: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("write build: commit: %w", err)
	}
	return seq, inserted, nil
}
