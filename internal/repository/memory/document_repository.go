package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/specification"
)

// DocumentRepository is a map-backed implementation of the document
// contract. It interprets the same specifications the SQL implementation
// translates to WHERE clauses, so services can run against it unchanged.
type DocumentRepository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*entity.Document
}

func NewDocumentRepository() contract.DocumentRepository {
	return &DocumentRepository{
		docs: make(map[uuid.UUID]*entity.Document),
	}
}

func documentMatches(d *entity.Document, spec specification.Specification) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return d.Id == s.ID
	case specification.UserOwnedBy:
		return d.UserId == s.UserID
	case specification.ByStatus:
		return d.Status == s.Status
	default:
		return true
	}
}

func (r *DocumentRepository) filter(specs ...specification.Specification) []*entity.Document {
	var out []*entity.Document
	for _, d := range r.docs {
		ok := true
		for _, spec := range specs {
			if !documentMatches(d, spec) {
				ok = false
				break
			}
		}
		if ok {
			copied := *d
			out = append(out, &copied)
		}
	}

	for _, spec := range specs {
		if order, isOrder := spec.(specification.OrderBy); isOrder && order.Field == "uploaded_at" {
			sort.Slice(out, func(i, j int) bool {
				if order.Desc {
					return out[i].UploadedAt.After(out[j].UploadedAt)
				}
				return out[i].UploadedAt.Before(out[j].UploadedAt)
			})
		}
	}
	return out
}

func (r *DocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if document.Id == uuid.Nil {
		document.Id = uuid.New()
	}
	if document.UploadedAt.IsZero() {
		document.UploadedAt = time.Now()
	}
	copied := *document
	r.docs[document.Id] = &copied
	return nil
}

func (r *DocumentRepository) Update(ctx context.Context, document *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *document
	r.docs[document.Id] = &copied
	return nil
}

func (r *DocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.filter(specs...)
	if len(matched) == 0 {
		return nil, nil
	}
	return matched[0], nil
}

func (r *DocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(specs...), nil
}

func (r *DocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.filter(specs...))), nil
}
