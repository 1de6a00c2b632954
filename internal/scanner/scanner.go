// Package scanner discovers image files under import locations and extracts
// the metadata the catalog stores for each of them.
package scanner

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"curator/pkg/types"
)

// imageExts are the file extensions treated as images, lowercased with dot.
var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".nef":  {},
}

// IsImagePath reports whether path has a recognized image extension.
func IsImagePath(path string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ImageFiles walks dir recursively and returns image files that are not in
// known. The directory must exist.
func ImageFiles(dir string, known map[string]struct{}) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("location %s: not a directory", dir)
	}
	var out []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A subdirectory may vanish mid-walk; skip it rather than
			// failing the whole location.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsImagePath(path) {
			return nil
		}
		if _, seen := known[path]; seen {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return out, nil
}

// ReadMeta builds a catalog record for the image file at path: content hash,
// format and whatever EXIF metadata the file carries. EXIF parse failures
// degrade to an empty tag set; only unreadable files are errors.
func ReadMeta(path string) (types.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Image{}, fmt.Errorf("read %s: %w", path, err)
	}
	sum := md5.Sum(b)
	img := types.Image{
		Location:    path,
		Hash:        hex.EncodeToString(sum[:]),
		Format:      strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Orientation: 1,
	}
	applyExif(&img, b)
	return img, nil
}
