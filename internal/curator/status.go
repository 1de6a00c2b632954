package curator

import (
	"context"
	"time"

	"curator/pkg/types"
)

const pingTimeout = 2 * time.Second

// Status builds a detailed status response for GET /status.
func (c *Curator) Status(ctx context.Context) types.StatusResponse {
	c.mu.RLock()
	resp := types.StatusResponse{
		LastError:      c.lastErr,
		UptimeSeconds:  int64(time.Since(c.startedAt).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
		ScansTotal:     c.scansTotal,
		DescribedTotal: c.describedTotal,
	}
	if !c.lastScan.IsZero() {
		resp.LastScanUnix = c.lastScan.Unix()
	}
	c.mu.RUnlock()

	resp.ScanRunning = len(c.scanGate) > 0
	resp.DescribeRunning = len(c.describeGate) > 0

	if n, err := c.store.CountLocations(ctx); err == nil {
		resp.Locations = n
	}
	if n, err := c.store.CountImages(ctx); err == nil {
		resp.Images = n
	}
	if n, err := c.store.CountUndescribed(ctx); err == nil {
		resp.PendingDescriptions = n
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if v, err := c.llm.Version(pingCtx); err == nil {
		resp.OllamaReachable = true
		resp.OllamaVersion = v
	}

	switch {
	case resp.ScanRunning:
		resp.State = "scanning"
	case resp.DescribeRunning:
		resp.State = "describing"
	case !resp.OllamaReachable:
		resp.State = "degraded"
	default:
		resp.State = "ready"
	}
	return resp
}

// Ready reports whether the service can do useful work: the catalog is
// reachable and Ollama answered the last ping.
func (c *Curator) Ready(ctx context.Context) bool {
	if err := c.store.Ping(ctx); err != nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	_, err := c.llm.Version(pingCtx)
	return err == nil
}
