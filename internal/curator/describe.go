package curator

import (
	"context"
	"os"
	"time"

	"curator/internal/ollama"
	"curator/pkg/types"
)

// describePrompt is sent with each image. The model sees only the image and
// this instruction.
const describePrompt = `You are an expert image describer. Your task is to provide a detailed description of the image.
Describe the image in detail, including its content, colors, and any notable features.`

// TriggerDescribe starts a describe run in the background unless one is
// already running. Reports whether a new run was started.
func (c *Curator) TriggerDescribe() bool {
	release, ok := tryAcquire(c.describeGate)
	if !ok {
		return false
	}
	go func() {
		defer release()
		if err := c.runDescribeLocked(c.baseCtx); err != nil && c.baseCtx.Err() == nil {
			c.log.Error().Err(err).Msg("describe run failed")
			c.setLastErr(err)
		}
	}()
	return true
}

// RunDescribe describes every image that still lacks a description, then
// embeds the new descriptions for search. Per-image failures are logged and
// retried on the next run; an unreachable Ollama aborts the run.
func (c *Curator) RunDescribe(ctx context.Context) error {
	release, ok := tryAcquire(c.describeGate)
	if !ok {
		return busyError{op: "describe"}
	}
	defer release()
	return c.runDescribeLocked(ctx)
}

func (c *Curator) runDescribeLocked(ctx context.Context) error {
	// Retry embeddings that failed after their description was persisted;
	// until the vector exists the image is invisible to search.
	if err := c.embedPending(ctx); err != nil {
		return err
	}
	images, err := c.store.ImagesWithoutDescription(ctx, c.cfg.DescribeBatch)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	start := time.Now()
	var done int
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.describeOne(ctx, img); err != nil {
			if ollama.IsUnavailable(err) {
				// The runtime is down; the rest of the batch would fail too.
				return err
			}
			describeFailures.Inc()
			c.log.Warn().Err(err).Int64("image", img.ID).Str("file", img.Location).Msg("describe skipped")
			c.setLastErr(err)
			continue
		}
		done++
	}
	c.mu.Lock()
	c.describedTotal += uint64(done)
	c.mu.Unlock()
	c.log.Info().Int("described", done).Int("pending", len(images)-done).
		Dur("dur", time.Since(start)).Msg("describe run finished")
	return nil
}

// embedPending backfills vectors for described images whose embedding
// failed on an earlier run. Per-image failures are logged and retried again
// next run; an unreachable Ollama aborts, the rest would fail too.
func (c *Curator) embedPending(ctx context.Context) error {
	images, err := c.store.ImagesWithoutEmbedding(ctx, c.cfg.DescribeBatch)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return err
		}
		vec, err := c.llm.Embed(ctx, c.cfg.EmbeddingModel, img.Description)
		if err != nil {
			if ollama.IsUnavailable(err) {
				return err
			}
			c.log.Warn().Err(err).Int64("image", img.ID).Msg("embedding retry failed")
			c.setLastErr(err)
			continue
		}
		if err := c.store.PutEmbedding(ctx, img.ID, vec); err != nil {
			return err
		}
	}
	return nil
}

func (c *Curator) describeOne(ctx context.Context, img types.Image) error {
	raw, err := os.ReadFile(img.Location)
	if err != nil {
		return err
	}
	resp, err := c.llm.Generate(ctx, ollama.GenerateRequest{
		Model:  c.cfg.DescriptionModel,
		Prompt: describePrompt,
		Images: [][]byte{raw},
	})
	if err != nil {
		return err
	}
	if err := c.store.SetDescription(ctx, img.ID, resp.Response); err != nil {
		return err
	}
	imagesDescribedTotal.Inc()
	c.pub.Publish(Event{Name: evtImageDescribed, ImageID: img.ID})
	// The embedding indexes the description for search. The description is
	// already persisted, so an embedding failure does not fail the describe;
	// embedPending retries the vector on the next run.
	vec, err := c.llm.Embed(ctx, c.cfg.EmbeddingModel, resp.Response)
	if err != nil {
		c.log.Warn().Err(err).Int64("image", img.ID).Msg("embedding failed")
		return nil
	}
	return c.store.PutEmbedding(ctx, img.ID, vec)
}
