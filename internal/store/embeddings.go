package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
)

// Embedding pairs a catalog image with its description vector.
type Embedding struct {
	ImageID int64
	Vector  []float32
}

// PutEmbedding stores (or replaces) the description vector for an image.
func (s *Store) PutEmbedding(ctx context.Context, imageID int64, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty embedding for image %d", imageID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embeddings (image_id, dim, vector) VALUES (?, ?, ?)
		ON CONFLICT(image_id) DO UPDATE SET dim = excluded.dim, vector = excluded.vector`,
		imageID, len(vec), encodeVector(vec))
	if err != nil {
		return fmt.Errorf("put embedding: %w", err)
	}
	return nil
}

// Embeddings streams every stored vector to fn. Returning a non-nil error
// from fn stops iteration.
func (s *Store) Embeddings(ctx context.Context, fn func(Embedding) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT image_id, dim, vector FROM embeddings")
	if err != nil {
		return fmt.Errorf("embeddings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			dim  int
			blob []byte
		)
		if err := rows.Scan(&id, &dim, &blob); err != nil {
			return err
		}
		vec, err := decodeVector(blob, dim)
		if err != nil {
			return fmt.Errorf("embedding for image %d: %w", id, err)
		}
		if err := fn(Embedding{ImageID: id, Vector: vec}); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountEmbeddings returns the number of stored vectors.
func (s *Store) CountEmbeddings(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n); err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return n, nil
}

// Vectors are stored as little-endian IEEE-754 float32 blobs.

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(blob []byte, dim int) ([]float32, error) {
	if len(blob) != 4*dim {
		return nil, fmt.Errorf("vector blob is %d bytes, want %d", len(blob), 4*dim)
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
