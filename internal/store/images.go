package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"curator/pkg/types"
)

const imageCols = `id, location, hash, format,
	COALESCE(description, ''), COALESCE(author, ''), COALESCE(camera, ''),
	orientation, COALESCE(x_resolution, 0), COALESCE(y_resolution, 0),
	COALESCE(date_taken, ''), COALESCE(exposure_time, 0), COALESCE(f_number, 0),
	COALESCE(iso, 0), COALESCE(focal_length, 0)`

func scanImage(row interface{ Scan(...any) error }) (types.Image, error) {
	var img types.Image
	err := row.Scan(&img.ID, &img.Location, &img.Hash, &img.Format,
		&img.Description, &img.Author, &img.Camera,
		&img.Orientation, &img.XResolution, &img.YResolution,
		&img.DateTaken, &img.ExposureTime, &img.FNumber,
		&img.ISO, &img.FocalLength)
	return img, err
}

// nullable maps zero values to NULL so the catalog keeps "unknown" distinct
// from a literal zero reading.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullF64(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// InsertImage adds a new image row. The location must be unique; a known
// location returns ErrDuplicate.
func (s *Store) InsertImage(ctx context.Context, img *types.Image) error {
	if img.Orientation == 0 {
		img.Orientation = 1
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO images (location, hash, format, description, author, camera,
			orientation, x_resolution, y_resolution, date_taken,
			exposure_time, f_number, iso, focal_length, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.Location, img.Hash, img.Format, nullStr(img.Description),
		nullStr(img.Author), nullStr(img.Camera), img.Orientation,
		nullF64(img.XResolution), nullF64(img.YResolution), nullStr(img.DateTaken),
		nullF64(img.ExposureTime), nullF64(img.FNumber), nullInt(img.ISO),
		nullF64(img.FocalLength), time.Now().Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("image %s: %w", img.Location, ErrDuplicate)
		}
		return fmt.Errorf("insert image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert image id: %w", err)
	}
	img.ID = id
	return nil
}

// GetImage fetches one image by id.
func (s *Store) GetImage(ctx context.Context, id int64) (types.Image, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+imageCols+" FROM images WHERE id = ?", id)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Image{}, fmt.Errorf("image %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Image{}, fmt.Errorf("get image: %w", err)
	}
	return img, nil
}

// ImageByLocation fetches one image by its file path.
func (s *Store) ImageByLocation(ctx context.Context, location string) (types.Image, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+imageCols+" FROM images WHERE location = ?", location)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Image{}, fmt.Errorf("image at %s: %w", location, ErrNotFound)
	}
	if err != nil {
		return types.Image{}, fmt.Errorf("image by location: %w", err)
	}
	return img, nil
}

// ListImages returns a page of catalog images ordered by id.
func (s *Store) ListImages(ctx context.Context, limit, offset int) ([]types.Image, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+imageCols+" FROM images ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()
	return collectImages(rows)
}

// ImagesByIDs fetches the given ids, preserving the order of ids.
func (s *Store) ImagesByIDs(ctx context.Context, ids []int64) ([]types.Image, error) {
	out := make([]types.Image, 0, len(ids))
	for _, id := range ids {
		img, err := s.GetImage(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// CountImages returns the total catalog size.
func (s *Store) CountImages(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM images").Scan(&n); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return n, nil
}

// CountUndescribed returns how many images still lack a description.
func (s *Store) CountUndescribed(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM images WHERE description IS NULL").Scan(&n); err != nil {
		return 0, fmt.Errorf("count undescribed: %w", err)
	}
	return n, nil
}

// ImagesWithoutDescription returns up to limit images awaiting description,
// oldest first. limit <= 0 means no limit.
func (s *Store) ImagesWithoutDescription(ctx context.Context, limit int) ([]types.Image, error) {
	q := "SELECT " + imageCols + " FROM images WHERE description IS NULL ORDER BY id"
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, q+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("undescribed images: %w", err)
	}
	defer rows.Close()
	return collectImages(rows)
}

// ImagesWithoutEmbedding returns described images that have no stored
// vector yet (the embedding call failed after the description was
// persisted), oldest first. limit <= 0 means no limit.
func (s *Store) ImagesWithoutEmbedding(ctx context.Context, limit int) ([]types.Image, error) {
	q := "SELECT " + imageCols + ` FROM images
		WHERE description IS NOT NULL
		AND id NOT IN (SELECT image_id FROM embeddings) ORDER BY id`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, q+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("unembedded images: %w", err)
	}
	defer rows.Close()
	return collectImages(rows)
}

// SetDescription stores the model output for an image.
func (s *Store) SetDescription(ctx context.Context, id int64, description string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE images SET description = ? WHERE id = ?", description, id)
	if err != nil {
		return fmt.Errorf("set description: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("image %d: %w", id, ErrNotFound)
	}
	return nil
}

// KnownPathsUnder returns the set of catalog paths beneath dir. The scanner
// uses it to skip files that are already indexed.
// The range comparison matches on the '/' directory boundary ('0' is the
// byte after '/'), so a sibling like dir+"2" never matches; LIKE would also
// misfire on '%' or '_' in directory names.
func (s *Store) KnownPathsUnder(ctx context.Context, dir string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT location FROM images WHERE location >= ? || '/' AND location < ? || '0'", dir, dir)
	if err != nil {
		return nil, fmt.Errorf("known paths: %w", err)
	}
	defer rows.Close()
	known := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		known[p] = struct{}{}
	}
	return known, rows.Err()
}

// DeleteImagesUnder removes all image rows (and their embeddings, via
// cascade) whose path lies beneath dir. Returns the number of rows removed.
// Same directory-boundary match as KnownPathsUnder: a sibling directory
// sharing the prefix must survive.
func (s *Store) DeleteImagesUnder(ctx context.Context, dir string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM images WHERE location >= ? || '/' AND location < ? || '0'", dir, dir)
	if err != nil {
		return 0, fmt.Errorf("delete images under %s: %w", dir, err)
	}
	return res.RowsAffected()
}

func collectImages(rows *sql.Rows) ([]types.Image, error) {
	var out []types.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
