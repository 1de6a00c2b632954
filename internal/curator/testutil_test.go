package curator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"curator/internal/ollama"
	"curator/internal/store"
	"curator/pkg/types"
)

// fakeLLM implements LLM for tests.
type fakeLLM struct {
	mu          sync.Mutex
	generateErr error
	embedErr    error
	versionErr  error
	response    string
	embedding   []float32
	generated   int
}

func (f *fakeLLM) Generate(ctx context.Context, req ollama.GenerateRequest) (ollama.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generateErr != nil {
		return ollama.GenerateResponse{}, f.generateErr
	}
	f.generated++
	resp := f.response
	if resp == "" {
		resp = "a description"
	}
	return ollama.GenerateResponse{Model: req.Model, Response: resp, Done: true}, nil
}

func (f *fakeLLM) Embed(ctx context.Context, model, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.embedding != nil {
		return f.embedding, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeLLM) Version(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.versionErr != nil {
		return "", f.versionErr
	}
	return "0.0-test", nil
}

func newTestCurator(t *testing.T, llm LLM) (*Curator, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if llm == nil {
		llm = &fakeLLM{}
	}
	cfg := Config{DescriptionModel: "vision-test", EmbeddingModel: "embed-test"}
	return New(st, llm, cfg, zerolog.Nop()), st
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte("fake image bytes: "+name), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func mustInsertImage(t *testing.T, st *store.Store, path string) types.Image {
	t.Helper()
	img := types.Image{Location: path, Hash: "h", Format: "jpg"}
	if err := st.InsertImage(context.Background(), &img); err != nil {
		t.Fatalf("insert image: %v", err)
	}
	return img
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", d)
}

var errBoom = errors.New("boom")
