package curator

import (
	"context"
	"time"

	"curator/internal/scanner"
)

// RunScheduler drives periodic scan+describe runs until ctx is canceled.
// A zero interval runs nothing and returns when ctx is done. When watch is
// non-nil, files reported by the watcher are indexed as they settle and a
// describe run is kicked off opportunistically.
func (c *Curator) RunScheduler(ctx context.Context, watch *scanner.Watcher) {
	c.SetBaseContext(ctx)

	if watch != nil {
		go c.consumeWatcher(ctx, watch)
	}

	if c.cfg.ScanInterval <= 0 {
		<-ctx.Done()
		return
	}

	// First pass right away, then on the ticker (original behavior: the
	// scheduler ran once at startup).
	c.tick(ctx)
	ticker := time.NewTicker(c.cfg.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Curator) tick(ctx context.Context) {
	c.log.Debug().Msg("scheduled run")
	if err := c.RunScan(ctx); err != nil && !IsBusy(err) && ctx.Err() == nil {
		c.log.Error().Err(err).Msg("scheduled scan failed")
		c.setLastErr(err)
	}
	if err := c.RunDescribe(ctx); err != nil && !IsBusy(err) && ctx.Err() == nil {
		c.log.Error().Err(err).Msg("scheduled describe failed")
		c.setLastErr(err)
	}
}

// consumeWatcher indexes files reported by the filesystem watcher.
func (c *Curator) consumeWatcher(ctx context.Context, watch *scanner.Watcher) {
	for {
		select {
		case path, ok := <-watch.Paths():
			if !ok {
				return
			}
			added, err := c.indexFile(ctx, path)
			if err != nil {
				c.log.Warn().Err(err).Str("file", path).Msg("watched file skipped")
				continue
			}
			if added {
				c.log.Info().Str("file", path).Msg("watched file indexed")
				c.TriggerDescribe()
			}
		case <-ctx.Done():
			return
		}
	}
}

// WatchLocations registers every known location directory with the watcher.
func (c *Curator) WatchLocations(ctx context.Context, watch *scanner.Watcher) error {
	locs, err := c.store.ListLocations(ctx)
	if err != nil {
		return err
	}
	for _, loc := range locs {
		if err := watch.Add(loc.Directory); err != nil {
			c.log.Warn().Err(err).Str("directory", loc.Directory).Msg("watch failed")
		}
	}
	return nil
}
