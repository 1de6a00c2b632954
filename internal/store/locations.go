package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"curator/pkg/types"
)

// InsertLocation registers a new import directory. Duplicate directories
// return ErrDuplicate.
func (s *Store) InsertLocation(ctx context.Context, directory string) (types.Location, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO locations (directory) VALUES (?)", directory)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Location{}, fmt.Errorf("location %s: %w", directory, ErrDuplicate)
		}
		return types.Location{}, fmt.Errorf("insert location: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Location{}, fmt.Errorf("insert location id: %w", err)
	}
	return types.Location{ID: id, Directory: directory}, nil
}

// GetLocation fetches one import location by id.
func (s *Store) GetLocation(ctx context.Context, id int64) (types.Location, error) {
	var loc types.Location
	err := s.db.QueryRowContext(ctx,
		"SELECT id, directory FROM locations WHERE id = ?", id).
		Scan(&loc.ID, &loc.Directory)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Location{}, fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Location{}, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

// ListLocations returns all registered import locations ordered by id.
func (s *Store) ListLocations(ctx context.Context) ([]types.Location, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, directory FROM locations ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var out []types.Location
	for rows.Next() {
		var loc types.Location
		if err := rows.Scan(&loc.ID, &loc.Directory); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// CountLocations returns the number of registered locations.
func (s *Store) CountLocations(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

// DeleteLocation removes an import location. Missing ids return ErrNotFound.
func (s *Store) DeleteLocation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM locations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	return nil
}
