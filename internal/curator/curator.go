// Package curator is the service core: it owns the catalog store, drives
// scans of registered import locations, asks the Ollama runtime to describe
// indexed images, and serves semantic search over the descriptions.
package curator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"curator/internal/ollama"
	"curator/internal/store"
)

// LLM is the slice of the Ollama client the curator depends on.
type LLM interface {
	Generate(ctx context.Context, req ollama.GenerateRequest) (ollama.GenerateResponse, error)
	Embed(ctx context.Context, model, text string) ([]float32, error)
	Version(ctx context.Context) (string, error)
}

// Config holds curator tuning knobs.
type Config struct {
	DescriptionModel string
	EmbeddingModel   string
	// Interval between scheduled scan+describe runs. 0 disables the scheduler.
	ScanInterval time.Duration
	// Maximum images described per run. 0 means no limit.
	DescribeBatch int
}

// Curator orchestrates the catalog.
type Curator struct {
	store *store.Store
	llm   LLM
	cfg   Config
	log   zerolog.Logger
	pub   EventPublisher

	// Single-flight gates: at most one scan and one describe run at a time.
	scanGate     chan struct{}
	describeGate chan struct{}

	baseCtx context.Context

	mu             sync.RWMutex
	startedAt      time.Time
	lastScan       time.Time
	lastErr        string
	scansTotal     uint64
	describedTotal uint64
}

// Option customizes a Curator.
type Option func(*Curator)

// WithEvents installs an event publisher.
func WithEvents(p EventPublisher) Option {
	return func(c *Curator) {
		if p != nil {
			c.pub = p
		}
	}
}

// New builds a Curator. The store and llm must be ready for use.
func New(st *store.Store, llm LLM, cfg Config, log zerolog.Logger, opts ...Option) *Curator {
	c := &Curator{
		store:        st,
		llm:          llm,
		cfg:          cfg,
		log:          log,
		pub:          noopPublisher{},
		scanGate:     make(chan struct{}, 1),
		describeGate: make(chan struct{}, 1),
		baseCtx:      context.Background(),
		startedAt:    time.Now(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetBaseContext sets the context used for background work started outside a
// request (location-created scans, watcher indexing). Cancel it on shutdown.
func (c *Curator) SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.baseCtx = ctx
}

// tryAcquire reserves gate without blocking. The returned release must be
// called when ok is true.
func tryAcquire(gate chan struct{}) (release func(), ok bool) {
	select {
	case gate <- struct{}{}:
		return func() { <-gate }, true
	default:
		return nil, false
	}
}

func (c *Curator) setLastErr(err error) {
	c.mu.Lock()
	if err != nil {
		c.lastErr = err.Error()
	}
	c.mu.Unlock()
}
