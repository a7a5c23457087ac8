package retrieve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const embeddingCacheTTL = 1 * time.Hour

// EmbeddingCache keeps query embeddings in Redis so repeated questions do
// not pay the upstream round trip. Every failure is a miss; retrieval never
// depends on the cache being up.
type EmbeddingCache struct {
	rdb *redis.Client
}

func NewEmbeddingCache(rdb *redis.Client) *EmbeddingCache {
	return &EmbeddingCache{rdb: rdb}
}

func cacheKey(model, query string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + query))
	return "embcache:" + hex.EncodeToString(sum[:])
}

func (c *EmbeddingCache) Get(ctx context.Context, model, query string) ([]float32, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, cacheKey(model, query)).Bytes()
	if err != nil {
		return nil, false
	}

	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, false
	}
	return vector, true
}

func (c *EmbeddingCache) Set(ctx context.Context, model, query string, vector []float32) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(vector)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, cacheKey(model, query), raw, embeddingCacheTTL)
}
