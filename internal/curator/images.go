package curator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"curator/internal/store"
	"curator/pkg/types"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// ListImages returns a catalog page. limit is clamped to [1, 500] with a
// default of 100; negative offsets are treated as 0.
func (c *Curator) ListImages(ctx context.Context, limit, offset int) (types.ImagesResponse, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	images, err := c.store.ListImages(ctx, limit, offset)
	if err != nil {
		return types.ImagesResponse{}, err
	}
	total, err := c.store.CountImages(ctx)
	if err != nil {
		return types.ImagesResponse{}, err
	}
	for i := range images {
		decorate(&images[i])
	}
	if images == nil {
		images = []types.Image{}
	}
	return types.ImagesResponse{Images: images, Total: total, Limit: limit, Offset: offset}, nil
}

// GetImage returns one catalog image.
func (c *Curator) GetImage(ctx context.Context, id int64) (types.Image, error) {
	img, err := c.store.GetImage(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return types.Image{}, notFoundError{kind: "image", id: id}
	}
	if err != nil {
		return types.Image{}, err
	}
	decorate(&img)
	return img, nil
}

// ImageFile returns the raw bytes of an indexed image and its content type.
// A row whose file disappeared from disk yields a gone error.
func (c *Curator) ImageFile(ctx context.Context, id int64) ([]byte, string, error) {
	img, err := c.store.GetImage(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", notFoundError{kind: "image", id: id}
	}
	if err != nil {
		return nil, "", err
	}
	raw, err := os.ReadFile(img.Location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", goneError{path: img.Location}
		}
		return nil, "", err
	}
	return raw, contentTypeFor(img.Format), nil
}

// contentTypeFor maps catalog formats to MIME types. Raw camera formats have
// no browser type and are served as opaque bytes.
func contentTypeFor(format string) string {
	switch format {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func decorate(img *types.Image) {
	img.URL = fmt.Sprintf("/images/%d", img.ID)
	img.FileURL = fmt.Sprintf("/images/%d/file", img.ID)
}
