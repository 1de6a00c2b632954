package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"curator/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatalf("expected error on empty path")
	}
}

func TestImageInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	img := types.Image{
		Location: "/photos/a.jpg",
		Hash:     "9e107d9d372bb6826bd81d3542a419d6",
		Format:   "jpg",
		Camera:   "NIKON D750",
		ISO:      400,
		FNumber:  2.8,
	}
	if err := s.InsertImage(ctx, &img); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if img.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	got, err := s.GetImage(ctx, img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Location != img.Location || got.Camera != "NIKON D750" || got.ISO != 400 {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got.Orientation != 1 {
		t.Fatalf("orientation default = %d, want 1", got.Orientation)
	}
	if got.Description != "" {
		t.Fatalf("fresh image must be undescribed")
	}
}

func TestImageDuplicateLocation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	img := types.Image{Location: "/photos/a.jpg", Hash: "h", Format: "jpg"}
	if err := s.InsertImage(ctx, &img); err != nil {
		t.Fatalf("insert: %v", err)
	}
	dup := types.Image{Location: "/photos/a.jpg", Hash: "h2", Format: "jpg"}
	err := s.InsertImage(ctx, &dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestImageByLocation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	img := types.Image{Location: "/photos/b.jpg", Hash: "5d41402abc4b2a76b9719d911017c592", Format: "jpg"}
	if err := s.InsertImage(ctx, &img); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.ImageByLocation(ctx, "/photos/b.jpg")
	if err != nil {
		t.Fatalf("by location: %v", err)
	}
	if got.ID != img.ID {
		t.Fatalf("id=%d, want %d", got.ID, img.ID)
	}
	if _, err := s.ImageByLocation(ctx, "/photos/absent.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetImageNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetImage(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListImagesPagination(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		img := types.Image{Location: "/p/" + string(rune('a'+i)) + ".jpg", Hash: "h", Format: "jpg"}
		if err := s.InsertImage(ctx, &img); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	page, err := s.ListImages(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Location != "/p/c.jpg" {
		t.Fatalf("unexpected page: %+v", page)
	}
	total, err := s.CountImages(ctx)
	if err != nil || total != 5 {
		t.Fatalf("count=%d err=%v", total, err)
	}
}

func TestDescriptionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := types.Image{Location: "/p/a.jpg", Hash: "h", Format: "jpg"}
	b := types.Image{Location: "/p/b.jpg", Hash: "h", Format: "jpg"}
	for _, img := range []*types.Image{&a, &b} {
		if err := s.InsertImage(ctx, img); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	pending, err := s.ImagesWithoutDescription(ctx, 0)
	if err != nil || len(pending) != 2 {
		t.Fatalf("pending=%d err=%v", len(pending), err)
	}
	if err := s.SetDescription(ctx, a.ID, "a sunset over water"); err != nil {
		t.Fatalf("set: %v", err)
	}
	pending, err = s.ImagesWithoutDescription(ctx, 0)
	if err != nil || len(pending) != 1 || pending[0].ID != b.ID {
		t.Fatalf("pending after describe: %+v err=%v", pending, err)
	}
	n, err := s.CountUndescribed(ctx)
	if err != nil || n != 1 {
		t.Fatalf("undescribed=%d err=%v", n, err)
	}
	if err := s.SetDescription(ctx, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestKnownPathsUnder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, p := range []string{"/photos/a.jpg", "/photos/sub/b.jpg", "/other/c.jpg"} {
		img := types.Image{Location: p, Hash: "h", Format: "jpg"}
		if err := s.InsertImage(ctx, &img); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	known, err := s.KnownPathsUnder(ctx, "/photos")
	if err != nil {
		t.Fatalf("known: %v", err)
	}
	if len(known) != 2 {
		t.Fatalf("known=%v", known)
	}
	if _, ok := known["/photos/sub/b.jpg"]; !ok {
		t.Fatalf("missing nested path: %v", known)
	}
}

func TestDeleteImagesUnderCascadesEmbeddings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	img := types.Image{Location: "/photos/a.jpg", Hash: "h", Format: "jpg"}
	if err := s.InsertImage(ctx, &img); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.PutEmbedding(ctx, img.ID, []float32{0.1, 0.2}); err != nil {
		t.Fatalf("embed: %v", err)
	}
	n, err := s.DeleteImagesUnder(ctx, "/photos")
	if err != nil || n != 1 {
		t.Fatalf("deleted=%d err=%v", n, err)
	}
	left, err := s.CountEmbeddings(ctx)
	if err != nil || left != 0 {
		t.Fatalf("embeddings left=%d err=%v", left, err)
	}
}

func TestDeleteImagesUnderSparesSiblingPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	inside := types.Image{Location: "/photos/a.jpg", Hash: "h", Format: "jpg"}
	sibling := types.Image{Location: "/photos2/b.jpg", Hash: "h", Format: "jpg"}
	for _, img := range []*types.Image{&inside, &sibling} {
		if err := s.InsertImage(ctx, img); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	n, err := s.DeleteImagesUnder(ctx, "/photos")
	if err != nil || n != 1 {
		t.Fatalf("deleted=%d err=%v", n, err)
	}
	if _, err := s.GetImage(ctx, sibling.ID); err != nil {
		t.Fatalf("sibling directory row was deleted: %v", err)
	}
	known, err := s.KnownPathsUnder(ctx, "/photos")
	if err != nil || len(known) != 0 {
		t.Fatalf("known=%v err=%v", known, err)
	}
}

func TestPathMatchingIgnoresLikeMetacharacters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	under := types.Image{Location: "/pho%tos/a.jpg", Hash: "h", Format: "jpg"}
	other := types.Image{Location: "/phoXtos/b.jpg", Hash: "h", Format: "jpg"}
	for _, img := range []*types.Image{&under, &other} {
		if err := s.InsertImage(ctx, img); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	known, err := s.KnownPathsUnder(ctx, "/pho%tos")
	if err != nil {
		t.Fatalf("known: %v", err)
	}
	if len(known) != 1 {
		t.Fatalf("'%%' must match literally: %v", known)
	}
	if _, ok := known["/pho%tos/a.jpg"]; !ok {
		t.Fatalf("missing path: %v", known)
	}
	n, err := s.DeleteImagesUnder(ctx, "/pho%tos")
	if err != nil || n != 1 {
		t.Fatalf("deleted=%d err=%v", n, err)
	}
	if _, err := s.GetImage(ctx, other.ID); err != nil {
		t.Fatalf("unrelated row was deleted: %v", err)
	}
}

func TestImagesWithoutEmbedding(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	described := types.Image{Location: "/p/a.jpg", Hash: "h", Format: "jpg"}
	embedded := types.Image{Location: "/p/b.jpg", Hash: "h", Format: "jpg"}
	pending := types.Image{Location: "/p/c.jpg", Hash: "h", Format: "jpg"}
	for _, img := range []*types.Image{&described, &embedded, &pending} {
		if err := s.InsertImage(ctx, img); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := s.SetDescription(ctx, described.ID, "no vector yet"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetDescription(ctx, embedded.ID, "has a vector"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.PutEmbedding(ctx, embedded.ID, []float32{1, 0}); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Undescribed rows are not embedding candidates.
	got, err := s.ImagesWithoutEmbedding(ctx, 0)
	if err != nil {
		t.Fatalf("without embedding: %v", err)
	}
	if len(got) != 1 || got[0].ID != described.ID {
		t.Fatalf("candidates=%+v", got)
	}
	if got[0].Description != "no vector yet" {
		t.Fatalf("description=%q", got[0].Description)
	}
}

func TestLocationsCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	loc, err := s.InsertLocation(ctx, "/photos")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.InsertLocation(ctx, "/photos"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	got, err := s.GetLocation(ctx, loc.ID)
	if err != nil || got.Directory != "/photos" {
		t.Fatalf("get: %+v err=%v", got, err)
	}
	all, err := s.ListLocations(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list: %+v err=%v", all, err)
	}
	if err := s.DeleteLocation(ctx, loc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteLocation(ctx, loc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestEmbeddingRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	img := types.Image{Location: "/p/a.jpg", Hash: "h", Format: "jpg"}
	if err := s.InsertImage(ctx, &img); err != nil {
		t.Fatalf("insert: %v", err)
	}
	vec := []float32{0.25, -1.5, 3.0}
	if err := s.PutEmbedding(ctx, img.ID, vec); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Replace is allowed.
	vec2 := []float32{1, 2, 3, 4}
	if err := s.PutEmbedding(ctx, img.ID, vec2); err != nil {
		t.Fatalf("replace: %v", err)
	}
	var seen []Embedding
	err := s.Embeddings(ctx, func(e Embedding) error {
		seen = append(seen, e)
		return nil
	})
	if err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(seen) != 1 || seen[0].ImageID != img.ID || len(seen[0].Vector) != 4 {
		t.Fatalf("unexpected embeddings: %+v", seen)
	}
	if seen[0].Vector[3] != 4 {
		t.Fatalf("vector mangled: %v", seen[0].Vector)
	}
	if err := s.PutEmbedding(ctx, img.ID, nil); err == nil {
		t.Fatalf("empty vector must be rejected")
	}
}
