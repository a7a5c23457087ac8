package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/pkg/apperrors"
	"pdf-rag-be/internal/pkg/logger"
	"pdf-rag-be/internal/repository/memory"
	"pdf-rag-be/internal/repository/specification"
	"pdf-rag-be/internal/repository/unitofwork"
	"pdf-rag-be/pkg/embedding"
	"pdf-rag-be/pkg/events"
	"pdf-rag-be/pkg/ocr"
	"pdf-rag-be/pkg/storage"
	"pdf-rag-be/pkg/textsplit"
)

// presignExpiry must outlive a full OCR run; the upstream fetches the PDF
// through this URL.
const presignExpiry = 30 * time.Minute

const embedBatchSize = 32

type IIngestionService interface {
	Process(ctx context.Context, documentId uuid.UUID) error
}

type ingestionService struct {
	uowFactory        unitofwork.RepositoryFactory
	objectStore       storage.ObjectStore
	ocrProvider       ocr.Provider
	embeddingProvider embedding.Provider
	splitter          *textsplit.Splitter
	embedWorkers      int
	eventPublisher    *events.Publisher
	docCache          *memory.DocumentCache
	logger            logger.ILogger
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	objectStore storage.ObjectStore,
	ocrProvider ocr.Provider,
	embeddingProvider embedding.Provider,
	splitter *textsplit.Splitter,
	embedWorkers int,
	eventPublisher *events.Publisher,
	docCache *memory.DocumentCache,
	log logger.ILogger,
) IIngestionService {
	if embedWorkers <= 0 {
		embedWorkers = 1
	}
	return &ingestionService{
		uowFactory:        uowFactory,
		objectStore:       objectStore,
		ocrProvider:       ocrProvider,
		embeddingProvider: embeddingProvider,
		splitter:          splitter,
		embedWorkers:      embedWorkers,
		eventPublisher:    eventPublisher,
		docCache:          docCache,
		logger:            log,
	}
}

// Process runs the full pipeline for one queued document: OCR, chunking,
// embedding, persistence. Any failure lands the document in the terminal
// Failed state with the reason recorded; the row never goes back to
// Processing.
func (s *ingestionService) Process(ctx context.Context, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return fmt.Errorf("fetch document %s: %w", documentId, err)
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", documentId)
	}
	if doc.Status.IsTerminal() {
		s.logger.Warn("ingestion", "skipping terminal document", map[string]interface{}{
			"document_id": doc.Id.String(),
			"status":      string(doc.Status),
		})
		return nil
	}

	if err := s.ingest(ctx, uow, doc); err != nil {
		s.markFailed(ctx, doc, err)
		return err
	}
	return nil
}

func (s *ingestionService) ingest(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document) error {
	url, err := s.objectStore.PresignGet(ctx, doc.Link, presignExpiry)
	if err != nil {
		return apperrors.Persistence("failed to presign document url", err)
	}

	result, err := s.ocrProvider.Process(ctx, url)
	if err != nil {
		return apperrors.Upstream("ocr failed", err)
	}
	if len(result.Pages) == 0 {
		return apperrors.Upstream("ocr returned no pages", nil)
	}

	images, chunks := s.assemble(doc, result)
	if len(chunks) == 0 {
		return apperrors.Upstream("document produced no text", nil)
	}

	if err := s.embedChunks(ctx, chunks); err != nil {
		return err
	}

	// The bulk insert runs outside the transaction on purpose: chunk rows
	// are independent and a partial result is still a usable document.
	insertResult, err := uow.DocumentChunkRepository().CreateBulkUnordered(ctx, chunks)
	if err != nil {
		return apperrors.Persistence("chunk insert failed", err)
	}
	if insertResult.Inserted == 0 {
		return apperrors.Persistence("no chunks could be stored", errors.Join(insertResult.Errors...))
	}
	if insertResult.Failed > 0 {
		s.logger.Warn("ingestion", "some chunks failed to store", map[string]interface{}{
			"document_id": doc.Id.String(),
			"inserted":    insertResult.Inserted,
			"failed":      insertResult.Failed,
		})
	}

	// The index create is idempotent; a concurrent ingestion creating it
	// first counts as success. Any other index failure kills the run.
	if err := uow.DocumentChunkRepository().EnsureVectorIndex(ctx); err != nil {
		return apperrors.Persistence("failed to ensure vector index", err)
	}

	// Images and the Ready flip commit together so a visible Ready document
	// always has its cited figures resolvable.
	if err := uow.Begin(ctx); err != nil {
		return apperrors.Persistence("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.DocumentImageRepository().CreateBulk(ctx, images); err != nil {
		return apperrors.Persistence("image insert failed", err)
	}

	now := time.Now()
	doc.Status = constant.DocumentStatusReady
	doc.ChunkCount = insertResult.Inserted
	doc.PageCount = len(result.Pages)
	doc.ImageCount = len(images)
	doc.Error = ""
	doc.ProcessedAt = &now
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return apperrors.Persistence("failed to mark document ready", err)
	}

	if err := uow.Commit(); err != nil {
		return apperrors.Persistence("failed to commit", err)
	}

	s.docCache.Invalidate(doc.Id)

	s.logger.Info("ingestion", "document ready", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chunks":      insertResult.Inserted,
		"pages":       len(result.Pages),
		"images":      len(images),
	})

	s.publishEvent(ctx, events.NewDocumentReadyEvent(doc.Id, doc.UserId, insertResult.Inserted, len(images)))

	return nil
}

// assemble maps OCR pages to image rows and embeddable chunks. Every chunk
// inherits the positional context of its page.
func (s *ingestionService) assemble(doc *entity.Document, result *ocr.Result) ([]*entity.DocumentImage, []*entity.DocumentChunk) {
	totalPages := len(result.Pages)

	var images []*entity.DocumentImage
	var chunks []*entity.DocumentChunk

	for _, page := range result.Pages {
		pageNum := page.Index + 1

		var dims *entity.PageDimensions
		if page.Dimensions != nil {
			dims = &entity.PageDimensions{
				DPI:    page.Dimensions.DPI,
				Width:  page.Dimensions.Width,
				Height: page.Dimensions.Height,
			}
		}

		var refs []entity.ChunkImageRef
		for _, img := range page.Images {
			// Prefix with the document id so the reference stays unique
			// across documents.
			imageId := fmt.Sprintf("%s_%s", doc.Id, img.Id)

			var pagePos entity.PagePosition
			if dims != nil && dims.Width > 0 && dims.Height > 0 {
				pagePos = entity.PagePosition{
					RelativeTop:  float64(img.TopLeftY) / float64(dims.Height),
					RelativeLeft: float64(img.TopLeftX) / float64(dims.Width),
				}
			}

			images = append(images, &entity.DocumentImage{
				Id:         uuid.New(),
				ImageId:    imageId,
				DocumentId: doc.Id,
				UserId:     doc.UserId,
				PageNumber: pageNum,
				FileName:   img.Id,
				Position: entity.ImageBox{
					TopLeft:     entity.ImagePoint{X: img.TopLeftX, Y: img.TopLeftY},
					BottomRight: entity.ImagePoint{X: img.BottomRightX, Y: img.BottomRightY},
				},
				PagePosition:   pagePos,
				PageDimensions: dims,
				ImageData:      img.ImageBase64,
			})
			refs = append(refs, entity.ChunkImageRef{ImageId: imageId, FileName: img.Id})
		}

		pieces := s.splitter.Split(page.Markdown)
		for i, piece := range pieces {
			rel := 0.0
			if len(pieces) > 1 {
				rel = float64(i) / float64(len(pieces)-1)
			}
			chunks = append(chunks, &entity.DocumentChunk{
				Id:         uuid.New(),
				DocumentId: doc.Id,
				UserId:     doc.UserId,
				Content:    piece,
				Metadata: entity.ChunkMetadata{
					Page:             pageNum,
					TotalPages:       totalPages,
					RelativePosition: rel,
					Source:           doc.OriginalFilename,
					DocumentName:     doc.Name,
					Images:           refs,
					Dimensions:       dims,
				},
			})
		}
	}

	return images, chunks
}

// embedChunks fills in chunk embeddings with bounded concurrency. One
// failed batch aborts the whole run; a document with silently missing
// vectors would be worse than a failed one.
func (s *ingestionService) embedChunks(ctx context.Context, chunks []*entity.DocumentChunk) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.embedWorkers)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Content
			}

			vectors, err := s.embeddingProvider.Generate(gctx, texts, constant.EmbeddingTaskDocument)
			if err != nil {
				return apperrors.Upstream("embedding generation failed", err)
			}

			want := s.embeddingProvider.Dimension()
			for i, v := range vectors {
				if len(v) != want {
					return apperrors.Upstream(
						fmt.Sprintf("embedding has %d dimensions, expected %d", len(v), want), nil)
				}
				batch[i].Embedding = v
			}
			return nil
		})
	}

	return g.Wait()
}

// markFailed is best-effort: the pipeline error is what gets reported, not
// a follow-up write failure.
func (s *ingestionService) markFailed(ctx context.Context, doc *entity.Document, cause error) {
	now := time.Now()
	doc.Status = constant.DocumentStatusFailed
	doc.Error = cause.Error()
	doc.ProcessedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		s.logger.Error("ingestion", "failed to mark document failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
	}
	s.docCache.Invalidate(doc.Id)

	s.logger.Error("ingestion", "document failed", map[string]interface{}{
		"document_id": doc.Id.String(),
		"reason":      cause.Error(),
	})

	s.publishEvent(ctx, events.NewDocumentFailedEvent(doc.Id, doc.UserId, cause.Error()))
}

func (s *ingestionService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ingestion", "failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}
