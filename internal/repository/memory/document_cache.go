package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"pdf-rag-be/internal/entity"
)

// DocumentCache is a short-TTL read cache in front of the documents table.
// Clients poll document status while ingestion runs; the TTL is short so a
// Processing -> Ready transition is visible quickly even without an
// explicit invalidation.
type DocumentCache struct {
	cache *cache.Cache
}

func NewDocumentCache() *DocumentCache {
	c := cache.New(15*time.Second, 5*time.Minute)
	return &DocumentCache{
		cache: c,
	}
}

func (r *DocumentCache) Get(id uuid.UUID) (*entity.Document, bool) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*entity.Document), true
	}
	return nil, false
}

func (r *DocumentCache) Set(document *entity.Document) {
	r.cache.Set(document.Id.String(), document, cache.DefaultExpiration)
}

func (r *DocumentCache) Invalidate(id uuid.UUID) {
	r.cache.Delete(id.String())
}
