package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/diwire/internal/ir"
)

const buildColumns = `seq, id, spec_dir, container_hash, container, passes`

// ReadBuild retrieves a single build by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadBuild(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE id = ?
	`, id)
	return scanBuild(row)
}

// LatestBuild returns the most recent build of specDir.
// Returns sql.ErrNoRows if specDir was never built.
func (s *Store) LatestBuild(ctx context.Context, specDir string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE spec_dir = ?
		ORDER BY seq DESC
		LIMIT 1
	`, specDir)
	return scanBuild(row)
}

// ListBuilds returns every build in insertion order (ORDER BY seq ASC).
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListBuilds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (Build, error) {
	var (
		b            Build
		hash         string
		servicesJSON string
		passesJSON   string
	)
	if err := row.Scan(&b.Seq, &b.ID, &b.SpecDir, &hash, &servicesJSON, &passesJSON); err != nil {
		if err == sql.ErrNoRows {
			return Build{}, err
		}
		return Build{}, fmt.Errorf("scan build: %w", err)
	}

	services, err := unmarshalServices(servicesJSON)
	if err != nil {
		return Build{}, err
	}
	passes, err := unmarshalPasses(passesJSON)
	if err != nil {
		return Build{}, err
	}
	b.Container = &ir.CompiledContainer{Services: services, Passes: passes, Hash: hash}
	return b, nil
}
