package curator

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
)

func TestListImagesClampsPaging(t *testing.T) {
	c, st := newTestCurator(t, nil)
	ctx := context.Background()
	d := t.TempDir()
	for _, n := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		mustInsertImage(t, st, writeImage(t, d, n))
	}
	resp, err := c.ListImages(ctx, 0, -3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Limit != defaultPageSize || resp.Offset != 0 {
		t.Fatalf("clamp: limit=%d offset=%d", resp.Limit, resp.Offset)
	}
	if resp.Total != 3 || len(resp.Images) != 3 {
		t.Fatalf("total=%d len=%d", resp.Total, len(resp.Images))
	}
	resp, err = c.ListImages(ctx, 10_000, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Limit != maxPageSize || len(resp.Images) != 2 {
		t.Fatalf("limit=%d len=%d", resp.Limit, len(resp.Images))
	}
}

func TestGetImageDecoratesURLs(t *testing.T) {
	c, st := newTestCurator(t, nil)
	img := mustInsertImage(t, st, writeImage(t, t.TempDir(), "a.jpg"))
	got, err := c.GetImage(context.Background(), img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.URL != "/images/"+strconv.FormatInt(img.ID, 10) || !strings.HasSuffix(got.FileURL, "/file") {
		t.Fatalf("urls: %q %q", got.URL, got.FileURL)
	}
	if _, err := c.GetImage(context.Background(), 9999); !IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestImageFileContentTypes(t *testing.T) {
	c, st := newTestCurator(t, nil)
	ctx := context.Background()
	d := t.TempDir()
	jpg := mustInsertImage(t, st, writeImage(t, d, "a.jpg"))
	raw, ct, err := c.ImageFile(ctx, jpg.ID)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if ct != "image/jpeg" || len(raw) == 0 {
		t.Fatalf("ct=%s len=%d", ct, len(raw))
	}

	if got := contentTypeFor("nef"); got != "application/octet-stream" {
		t.Fatalf("nef ct=%s", got)
	}
	if got := contentTypeFor("png"); got != "image/png" {
		t.Fatalf("png ct=%s", got)
	}
}

func TestImageFileGoneFromDisk(t *testing.T) {
	c, st := newTestCurator(t, nil)
	ctx := context.Background()
	p := writeImage(t, t.TempDir(), "a.jpg")
	img := mustInsertImage(t, st, p)
	if err := os.Remove(p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, _, err := c.ImageFile(ctx, img.ID)
	if !IsGone(err) {
		t.Fatalf("want gone, got %v", err)
	}
	if _, _, err := c.ImageFile(ctx, 9999); !IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}
