package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dgraph-io/ristretto"

	"trading-journal/internal/interfaces"
)

// NewResponseCache sizes a ristretto cache by total response bytes.
func NewResponseCache(maxCost int64) (*ristretto.Cache, error) {
	return ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
}

type cached struct {
	next  interfaces.Generator
	cache *ristretto.Cache
	ttl   time.Duration
}

// Cached serves repeated prompts from cache for ttl. Errors and empty
// responses are never cached.
func Cached(g interfaces.Generator, cache *ristretto.Cache, ttl time.Duration) interfaces.Generator {
	return &cached{next: g, cache: cache, ttl: ttl}
}

func (c *cached) Generate(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if v, ok := c.cache.Get(key); ok {
		if text, ok := v.(string); ok {
			return text, nil
		}
	}

	text, err := c.next.Generate(ctx, prompt)
	if err != nil || text == "" {
		return text, err
	}
	c.cache.SetWithTTL(key, text, int64(len(text)), c.ttl)
	return text, nil
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
