package curator

import (
	"context"
	"errors"
	"time"

	"curator/internal/scanner"
	"curator/internal/store"
	"curator/pkg/types"
)

// TriggerScan starts a full scan in the background unless one is already
// running. Reports whether a new run was started.
func (c *Curator) TriggerScan() bool {
	release, ok := tryAcquire(c.scanGate)
	if !ok {
		return false
	}
	go func() {
		defer release()
		if err := c.runScanLocked(c.baseCtx); err != nil && c.baseCtx.Err() == nil {
			c.log.Error().Err(err).Msg("scan failed")
			c.setLastErr(err)
		}
	}()
	return true
}

// RunScan walks every registered location and indexes unseen images. It
// blocks until done and returns a busy error when a run is in progress.
func (c *Curator) RunScan(ctx context.Context) error {
	release, ok := tryAcquire(c.scanGate)
	if !ok {
		return busyError{op: "scan"}
	}
	defer release()
	return c.runScanLocked(ctx)
}

func (c *Curator) runScanLocked(ctx context.Context) error {
	start := time.Now()
	c.pub.Publish(Event{Name: evtScanStarted})
	locs, err := c.store.ListLocations(ctx)
	if err != nil {
		return err
	}
	var indexed int64
	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := c.scanOne(ctx, loc)
		if err != nil {
			// A vanished directory must not sink the other locations.
			c.log.Warn().Err(err).Str("directory", loc.Directory).Msg("location skipped")
			c.setLastErr(err)
			continue
		}
		indexed += n
	}
	c.mu.Lock()
	c.lastScan = time.Now()
	c.scansTotal++
	c.mu.Unlock()
	scansTotal.Inc()
	scanDuration.Observe(time.Since(start).Seconds())
	c.pub.Publish(Event{Name: evtScanFinished, Fields: map[string]any{"indexed": indexed}})
	c.log.Info().Int64("indexed", indexed).Dur("dur", time.Since(start)).Msg("scan finished")
	return nil
}

// scanLocation indexes a single location, sharing the scan gate so a full
// run and a location scan never interleave. A full scan already in flight
// listed the locations before this one existed, so wait for the gate rather
// than skipping.
func (c *Curator) scanLocation(ctx context.Context, loc types.Location) error {
	select {
	case c.scanGate <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.scanGate }()
	n, err := c.scanOne(ctx, loc)
	if err != nil {
		return err
	}
	c.log.Info().Int64("indexed", n).Str("directory", loc.Directory).Msg("location scanned")
	return nil
}

func (c *Curator) scanOne(ctx context.Context, loc types.Location) (int64, error) {
	known, err := c.store.KnownPathsUnder(ctx, loc.Directory)
	if err != nil {
		return 0, err
	}
	files, err := scanner.ImageFiles(loc.Directory, known)
	if err != nil {
		return 0, err
	}
	c.log.Debug().Int("files", len(files)).Str("directory", loc.Directory).Msg("scanning location")
	var indexed int64
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		ok, err := c.indexFile(ctx, f)
		if err != nil {
			c.log.Warn().Err(err).Str("file", f).Msg("file skipped")
			continue
		}
		if ok {
			indexed++
		}
	}
	return indexed, nil
}

// IndexFile adds one image file to the catalog (used by the filesystem
// watcher). Returns false when the file was already indexed.
func (c *Curator) IndexFile(ctx context.Context, path string) (bool, error) {
	return c.indexFile(ctx, path)
}

func (c *Curator) indexFile(ctx context.Context, path string) (bool, error) {
	// The watcher reports modifications of known files too; skip the hashing
	// work for paths already in the catalog.
	if _, err := c.store.ImageByLocation(ctx, path); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	img, err := scanner.ReadMeta(path)
	if err != nil {
		return false, err
	}
	if err := c.store.InsertImage(ctx, &img); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	imagesIndexedTotal.Inc()
	c.pub.Publish(Event{Name: evtImageIndexed, ImageID: img.ID, Fields: map[string]any{"location": img.Location}})
	return true, nil
}
