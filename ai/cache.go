package ai

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-crypt/x/blake2b"
)

const defaultCacheCapacity = 10000

// CachedEmbedder wraps an Embedder with a bounded concurrent embedding
// cache. Entries are keyed by (text, model identity, model version,
// role) so a model upgrade or a framing change never serves stale
// vectors. The cache is the only shared mutable state in the ranking
// core; losing an entry under write contention costs a recomputation,
// not correctness.
type CachedEmbedder struct {
	inner    Embedder
	cache    *ristretto.Cache[uint64, []float32]
	model    string
	version  int
	capacity int64
	logger   *slog.Logger
}

var _ Embedder = (*CachedEmbedder)(nil)

// CacheOption configures a CachedEmbedder.
type CacheOption func(*CachedEmbedder)

// WithCacheCapacity bounds the number of cached embeddings.
// Default is 10000 entries.
func WithCacheCapacity(capacity int) CacheOption {
	return func(c *CachedEmbedder) {
		if capacity > 0 {
			c.capacity = int64(capacity)
		}
	}
}

// WithCacheLogger sets a custom logger. Default is slog.Default().
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedEmbedder) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewCachedEmbedder creates a caching wrapper around inner.
func NewCachedEmbedder(inner Embedder, opts ...CacheOption) (*CachedEmbedder, error) {
	if inner == nil {
		return nil, ErrEmbedderRequired
	}

	model, version := inner.ModelIdentity()
	ce := &CachedEmbedder{
		inner:    inner,
		model:    model,
		version:  version,
		capacity: defaultCacheCapacity,
		logger:   slog.Default().With("component", "embedding-cache"),
	}
	for _, opt := range opts {
		opt(ce)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[uint64, []float32]{
		NumCounters: ce.capacity * 10,
		MaxCost:     ce.capacity,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	ce.cache = cache
	return ce, nil
}

// EmbedText returns the cached embedding for text, computing and
// caching it on a miss.
func (c *CachedEmbedder) EmbedText(ctx context.Context, text string, role Role) ([]float32, error) {
	key := c.cacheKey(text, role)
	if vector, ok := c.cache.Get(key); ok {
		return vector, nil
	}

	vector, err := c.inner.EmbedText(ctx, text, role)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, vector, 1)
	return vector, nil
}

// EmbedTexts resolves cached entries first and batches only the misses
// into a single inner invocation, preserving input order.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string, role Role) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	missing := make([]int, 0, len(texts))
	missingTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		if vector, ok := c.cache.Get(c.cacheKey(text, role)); ok {
			vectors[i] = vector
			continue
		}
		missing = append(missing, i)
		missingTexts = append(missingTexts, text)
	}

	if len(missing) == 0 {
		return vectors, nil
	}
	c.logger.Debug("embedding cache misses", "total", len(texts), "misses", len(missing))

	computed, err := c.inner.EmbedTexts(ctx, missingTexts, role)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missing) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(missing), len(computed))
	}

	for j, i := range missing {
		vectors[i] = computed[j]
		c.cache.Set(c.cacheKey(texts[i], role), computed[j], 1)
	}
	return vectors, nil
}

// ModelIdentity reports the wrapped embedder's identity.
func (c *CachedEmbedder) ModelIdentity() (string, int) {
	return c.inner.ModelIdentity()
}

// Wait blocks until buffered cache writes are applied. Tests use this
// to observe deterministic cache state.
func (c *CachedEmbedder) Wait() {
	c.cache.Wait()
}

// Close releases the cache.
func (c *CachedEmbedder) Close() {
	c.cache.Close()
}

func (c *CachedEmbedder) cacheKey(text string, role Role) uint64 {
	h, _ := blake2b.New(8, nil)
	fmt.Fprintf(h, "%s|%d|%d|", c.model, c.version, role)
	h.Write([]byte(text))
	return binary.LittleEndian.Uint64(h.Sum(nil))
}
