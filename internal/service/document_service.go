package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/dto"
	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/pkg/apperrors"
	"pdf-rag-be/internal/pkg/logger"
	"pdf-rag-be/internal/repository/memory"
	"pdf-rag-be/internal/repository/specification"
	"pdf-rag-be/internal/repository/unitofwork"
	"pdf-rag-be/pkg/storage"
)

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, filename string, size int64, file io.Reader) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	ShowImage(ctx context.Context, userId uuid.UUID, imageId string) (*dto.DocumentImageResponse, error)
	Reprocess(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ReprocessDocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	objectStore      storage.ObjectStore
	publisherService IPublisherService
	docCache         *memory.DocumentCache
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	objectStore storage.ObjectStore,
	publisherService IPublisherService,
	docCache *memory.DocumentCache,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		objectStore:      objectStore,
		publisherService: publisherService,
		docCache:         docCache,
		logger:           log,
	}
}

// Upload stores the PDF, records the document in Processing state and
// queues ingestion. The response returns before any OCR work starts.
func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, filename string, size int64, file io.Reader) (*dto.UploadDocumentResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return nil, apperrors.Validation("only PDF files are accepted")
	}

	docId := uuid.New()
	key := fmt.Sprintf("documents/%s/%s.pdf", userId, docId)

	if err := s.objectStore.Put(ctx, key, file, size, "application/pdf"); err != nil {
		return nil, apperrors.Persistence("failed to store uploaded file", err)
	}

	doc := entity.Document{
		Id:               docId,
		UserId:           userId,
		Name:             strings.TrimSuffix(filename, filepath.Ext(filename)),
		OriginalFilename: filename,
		Link:             key,
		Status:           constant.DocumentStatusProcessing,
		UploadedAt:       time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		// Best-effort: don't leave an orphaned object behind when the
		// document row never existed.
		if derr := s.objectStore.Delete(ctx, key); derr != nil {
			s.logger.Warn("document", "failed to remove orphaned upload", map[string]interface{}{
				"key":   key,
				"error": derr.Error(),
			})
		}
		return nil, apperrors.Persistence("failed to create document", err)
	}

	if err := s.queueIngestion(ctx, doc.Id); err != nil {
		return nil, err
	}

	s.logger.Info("document", "document uploaded", map[string]interface{}{
		"document_id": doc.Id.String(),
		"user_id":     userId.String(),
		"size":        size,
	})

	return &dto.UploadDocumentResponse{
		Id:     doc.Id,
		Name:   doc.Name,
		Status: string(doc.Status),
	}, nil
}

func (s *documentService) queueIngestion(ctx context.Context, documentId uuid.UUID) error {
	msgPayload := dto.PublishIngestDocumentMessage{
		DocumentId: documentId,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return apperrors.Persistence("failed to queue ingestion", err)
	}
	return nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "uploaded_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = toDocumentResponse(doc)
	}
	return responses, nil
}

// Show serves status polls, so reads go through the short-TTL cache. The
// ownership check runs against the cached copy too; a foreign document is
// indistinguishable from a missing one.
func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	if doc, found := s.docCache.Get(id); found {
		if doc.UserId != userId {
			return nil, apperrors.NotFound("document not found")
		}
		return toDocumentResponse(doc), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.NotFound("document not found")
	}

	s.docCache.Set(doc)
	return toDocumentResponse(doc), nil
}

func (s *documentService) ShowImage(ctx context.Context, userId uuid.UUID, imageId string) (*dto.DocumentImageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	img, err := uow.DocumentImageRepository().FindOne(ctx,
		specification.ByImageID{ImageID: imageId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, apperrors.NotFound("image not found")
	}

	return &dto.DocumentImageResponse{
		ImageId:        img.ImageId,
		DocumentId:     img.DocumentId,
		PageNumber:     img.PageNumber,
		FileName:       img.FileName,
		Position:       img.Position,
		PagePosition:   img.PagePosition,
		PageDimensions: img.PageDimensions,
		ImageData:      img.ImageData,
	}, nil
}

// Reprocess re-runs ingestion for a failed document. Ready and Failed are
// terminal, so instead of mutating the failed row a fresh document is
// created over the same stored file.
func (s *documentService) Reprocess(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ReprocessDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.NotFound("document not found")
	}
	if doc.Status != constant.DocumentStatusFailed {
		return nil, apperrors.Validation("only failed documents can be reprocessed")
	}

	// A failed run can leave stray rows behind (the chunk bulk insert
	// commits outside the status transaction). Clear them so the dead
	// document cannot feed retrieval or image lookups.
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return nil, apperrors.Persistence("failed to clear stale chunks", err)
	}
	if err := uow.DocumentImageRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return nil, apperrors.Persistence("failed to clear stale images", err)
	}

	fresh := entity.Document{
		Id:               uuid.New(),
		UserId:           userId,
		Name:             doc.Name,
		OriginalFilename: doc.OriginalFilename,
		Link:             doc.Link,
		Status:           constant.DocumentStatusProcessing,
		UploadedAt:       time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, &fresh); err != nil {
		return nil, apperrors.Persistence("failed to create document", err)
	}

	if err := s.queueIngestion(ctx, fresh.Id); err != nil {
		return nil, err
	}

	s.logger.Info("document", "document requeued", map[string]interface{}{
		"failed_document_id": doc.Id.String(),
		"new_document_id":    fresh.Id.String(),
	})

	return &dto.ReprocessDocumentResponse{
		Id:     fresh.Id,
		Name:   fresh.Name,
		Status: string(fresh.Status),
	}, nil
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:               doc.Id,
		Name:             doc.Name,
		OriginalFilename: doc.OriginalFilename,
		Status:           string(doc.Status),
		ChunkCount:       doc.ChunkCount,
		PageCount:        doc.PageCount,
		ImageCount:       doc.ImageCount,
		Error:            doc.Error,
		UploadedAt:       doc.UploadedAt,
		ProcessedAt:      doc.ProcessedAt,
	}
}
