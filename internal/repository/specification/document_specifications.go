package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pdf-rag-be/internal/constant"
)

// ByDocumentID filters chunk/image/exchange rows by their parent document.
type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// ByStatus filters documents by lifecycle status.
type ByStatus struct {
	Status constant.DocumentStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// ByImageID filters document images by their stable image reference.
type ByImageID struct {
	ImageID string
}

func (s ByImageID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("image_id = ?", s.ImageID)
}
