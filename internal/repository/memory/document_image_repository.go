package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/specification"
)

type DocumentImageRepository struct {
	mu     sync.RWMutex
	images map[uuid.UUID]*entity.DocumentImage
}

func NewDocumentImageRepository() contract.DocumentImageRepository {
	return &DocumentImageRepository{
		images: make(map[uuid.UUID]*entity.DocumentImage),
	}
}

func imageMatches(img *entity.DocumentImage, spec specification.Specification) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return img.Id == s.ID
	case specification.ByImageID:
		return img.ImageId == s.ImageID
	case specification.ByDocumentID:
		return img.DocumentId == s.DocumentID
	case specification.UserOwnedBy:
		return img.UserId == s.UserID
	default:
		return true
	}
}

func (r *DocumentImageRepository) filter(specs ...specification.Specification) []*entity.DocumentImage {
	var out []*entity.DocumentImage
	for _, img := range r.images {
		ok := true
		for _, spec := range specs {
			if !imageMatches(img, spec) {
				ok = false
				break
			}
		}
		if ok {
			copied := *img
			out = append(out, &copied)
		}
	}
	return out
}

func (r *DocumentImageRepository) CreateBulk(ctx context.Context, images []*entity.DocumentImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, img := range images {
		if img.Id == uuid.Nil {
			img.Id = uuid.New()
		}
		if img.CreatedAt.IsZero() {
			img.CreatedAt = time.Now()
		}
		copied := *img
		r.images[img.Id] = &copied
	}
	return nil
}

func (r *DocumentImageRepository) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, img := range r.images {
		if img.DocumentId == documentId {
			delete(r.images, id)
		}
	}
	return nil
}

func (r *DocumentImageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.filter(specs...)
	if len(matched) == 0 {
		return nil, nil
	}
	return matched[0], nil
}

func (r *DocumentImageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(specs...), nil
}
