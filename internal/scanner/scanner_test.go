package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIsImagePath(t *testing.T) {
	for _, p := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.NEF"} {
		if !IsImagePath(p) {
			t.Fatalf("%s should be an image", p)
		}
	}
	for _, p := range []string{"a.txt", "b", "c.jpg.bak", "d.tiff"} {
		if IsImagePath(p) {
			t.Fatalf("%s should not be an image", p)
		}
	}
}

func TestImageFilesRecursesAndSkipsKnown(t *testing.T) {
	d := t.TempDir()
	writeFile(t, filepath.Join(d, "a.jpg"), []byte("a"))
	writeFile(t, filepath.Join(d, "notes.txt"), []byte("n"))
	writeFile(t, filepath.Join(d, "sub", "b.nef"), []byte("b"))
	writeFile(t, filepath.Join(d, "sub", "deep", "c.png"), []byte("c"))

	known := map[string]struct{}{filepath.Join(d, "sub", "b.nef"): {}}
	files, err := ImageFiles(d, known)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	sort.Strings(files)
	want := []string{filepath.Join(d, "a.jpg"), filepath.Join(d, "sub", "deep", "c.png")}
	if len(files) != len(want) {
		t.Fatalf("files=%v want=%v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files=%v want=%v", files, want)
		}
	}
}

func TestImageFilesMissingDir(t *testing.T) {
	if _, err := ImageFiles(filepath.Join(t.TempDir(), "gone"), nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestImageFilesRejectsFile(t *testing.T) {
	d := t.TempDir()
	f := filepath.Join(d, "a.jpg")
	writeFile(t, f, []byte("a"))
	if _, err := ImageFiles(f, nil); err == nil {
		t.Fatalf("expected error when location is a file")
	}
}

func TestReadMetaHashAndFormat(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "photo.JPG")
	writeFile(t, p, []byte("hello"))
	img, err := ReadMeta(p)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	// md5("hello")
	if img.Hash != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("hash=%s", img.Hash)
	}
	if img.Format != "jpg" {
		t.Fatalf("format=%s", img.Format)
	}
	if img.Orientation != 1 {
		t.Fatalf("orientation default=%d", img.Orientation)
	}
	// Not a real JPEG: EXIF must degrade silently.
	if img.Camera != "" || img.ISO != 0 {
		t.Fatalf("expected empty EXIF fields: %+v", img)
	}
}

func TestReadMetaMissingFile(t *testing.T) {
	if _, err := ReadMeta(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
