package curator

import (
	"context"
	"math"
	"sort"
	"strings"

	"curator/internal/store"
	"curator/pkg/types"
)

const defaultSearchResults = 10

// Search embeds the query and returns the n best-matching images by cosine
// similarity of their description embeddings. n <= 0 uses the default of 10.
func (c *Curator) Search(ctx context.Context, query string, n int) (types.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.SearchResponse{}, invalidQueryError{reason: "empty query"}
	}
	if n <= 0 {
		n = defaultSearchResults
	}
	searchesTotal.Inc()
	qvec, err := c.llm.Embed(ctx, c.cfg.EmbeddingModel, query)
	if err != nil {
		return types.SearchResponse{}, err
	}
	type hit struct {
		id    int64
		score float64
	}
	var hits []hit
	err = c.store.Embeddings(ctx, func(e store.Embedding) error {
		// The embedding model may have changed between runs; vectors of a
		// different dimension cannot be compared.
		if len(e.Vector) != len(qvec) {
			return nil
		}
		hits = append(hits, hit{id: e.ImageID, score: cosine(qvec, e.Vector)})
		return nil
	})
	if err != nil {
		return types.SearchResponse{}, err
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > n {
		hits = hits[:n]
	}
	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	images, err := c.store.ImagesByIDs(ctx, ids)
	if err != nil {
		return types.SearchResponse{}, err
	}
	for i := range images {
		decorate(&images[i])
	}
	if images == nil {
		images = []types.Image{}
	}
	return types.SearchResponse{Query: query, Images: images}, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
