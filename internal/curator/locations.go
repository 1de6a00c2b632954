package curator

import (
	"context"
	"errors"

	"curator/internal/common/fsutil"
	"curator/internal/store"
	"curator/pkg/types"
)

// ListLocations returns all registered import locations.
func (c *Curator) ListLocations(ctx context.Context) ([]types.Location, error) {
	return c.store.ListLocations(ctx)
}

// GetLocation returns one import location.
func (c *Curator) GetLocation(ctx context.Context, id int64) (types.Location, error) {
	loc, err := c.store.GetLocation(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return types.Location{}, notFoundError{kind: "location", id: id}
	}
	return loc, err
}

// CreateLocation registers a directory as an import location and kicks off a
// background scan so its images show up without waiting for the next tick.
func (c *Curator) CreateLocation(ctx context.Context, directory string) (types.Location, error) {
	abs, err := fsutil.Absolute(directory)
	if err != nil {
		return types.Location{}, badLocationError{dir: directory, reason: err.Error()}
	}
	if !fsutil.IsDir(abs) {
		return types.Location{}, badLocationError{dir: abs, reason: "directory does not exist"}
	}
	loc, err := c.store.InsertLocation(ctx, abs)
	if errors.Is(err, store.ErrDuplicate) {
		return types.Location{}, locationExistsError{dir: abs}
	}
	if err != nil {
		return types.Location{}, err
	}
	c.log.Info().Str("directory", loc.Directory).Int64("id", loc.ID).Msg("import location added")
	c.pub.Publish(Event{Name: evtLocationCreated, Fields: map[string]any{"directory": loc.Directory}})
	go func() {
		if err := c.scanLocation(c.baseCtx, loc); err != nil && c.baseCtx.Err() == nil {
			c.log.Error().Err(err).Str("directory", loc.Directory).Msg("initial scan failed")
			c.setLastErr(err)
		}
	}()
	return loc, nil
}

// DeleteLocation removes an import location and the catalog rows indexed
// under it. Files on disk are never touched.
func (c *Curator) DeleteLocation(ctx context.Context, id int64) error {
	loc, err := c.store.GetLocation(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return notFoundError{kind: "location", id: id}
	}
	if err != nil {
		return err
	}
	if err := c.store.DeleteLocation(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundError{kind: "location", id: id}
		}
		return err
	}
	removed, err := c.store.DeleteImagesUnder(ctx, loc.Directory)
	if err != nil {
		return err
	}
	c.log.Info().Str("directory", loc.Directory).Int64("images_removed", removed).Msg("import location deleted")
	c.pub.Publish(Event{Name: evtLocationDeleted, Fields: map[string]any{"directory": loc.Directory, "images_removed": removed}})
	return nil
}
