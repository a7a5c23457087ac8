package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/dto"
	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/pkg/apperrors"
	"pdf-rag-be/internal/pkg/logger"
	"pdf-rag-be/internal/repository/specification"
	"pdf-rag-be/internal/repository/unitofwork"
	"pdf-rag-be/pkg/rag/answer"
	"pdf-rag-be/pkg/rag/retrieve"
)

type IChatService interface {
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)

	// ChatStream retrieves synchronously, then streams the answer through
	// the returned channel. The channel closes after a done or error event,
	// or as soon as ctx is cancelled.
	ChatStream(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (<-chan answer.StreamEvent, error)

	History(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) ([]*dto.ChatHistoryItemResponse, error)
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	retriever    *retrieve.Retriever
	generator    *answer.Generator
	searchConfig retrieve.Config
	logger       logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *retrieve.Retriever,
	generator *answer.Generator,
	searchConfig retrieve.Config,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		retriever:    retriever,
		generator:    generator,
		searchConfig: searchConfig,
		logger:       log,
	}
}

// resolveReadyDocument enforces ownership and readiness. A foreign
// document reads as missing.
func (s *chatService) resolveReadyDocument(ctx context.Context, uow unitofwork.UnitOfWork, userId, documentId uuid.UUID) (*entity.Document, error) {
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.NotFound("document not found")
	}
	if doc.Status != constant.DocumentStatusReady {
		return nil, apperrors.Validation("document is not ready")
	}
	return doc, nil
}

func (s *chatService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.resolveReadyDocument(ctx, uow, userId, req.DocumentId); err != nil {
		return nil, err
	}

	scored, err := s.retriever.Retrieve(ctx, uow, req.DocumentId, &userId, req.Query, s.searchConfig)
	if err != nil {
		return nil, err
	}

	citations := answer.BuildCitations(scored)

	text, err := s.generator.Answer(ctx, req.Query, scored)
	if err != nil {
		return nil, apperrors.Upstream("completion failed", err)
	}

	s.saveExchange(ctx, uow, userId, req, text, citations)

	return &dto.ChatResponse{
		Answer:    text,
		Citations: citations,
	}, nil
}

func (s *chatService) ChatStream(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (<-chan answer.StreamEvent, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.resolveReadyDocument(ctx, uow, userId, req.DocumentId); err != nil {
		return nil, err
	}

	scored, err := s.retriever.Retrieve(ctx, uow, req.DocumentId, &userId, req.Query, s.searchConfig)
	if err != nil {
		return nil, err
	}

	citations := answer.BuildCitations(scored)

	out := make(chan answer.StreamEvent)
	go func() {
		defer close(out)

		if !send(ctx, out, answer.CitationsEvent(citations)) {
			return
		}

		deltas, err := s.generator.StreamAnswer(ctx, req.Query, scored)
		if err != nil {
			s.logger.Error("chat", "failed to start stream", map[string]interface{}{
				"document_id": req.DocumentId.String(),
				"error":       err.Error(),
			})
			send(ctx, out, answer.ErrorEvent("completion failed"))
			return
		}

		var full strings.Builder
		for delta := range deltas {
			if delta.Err != nil {
				s.logger.Error("chat", "stream broke", map[string]interface{}{
					"document_id": req.DocumentId.String(),
					"error":       delta.Err.Error(),
				})
				send(ctx, out, answer.ErrorEvent("completion failed"))
				return
			}
			full.WriteString(delta.Content)
			if !send(ctx, out, answer.ChunkEvent(delta.Content)) {
				return
			}
		}

		// A cancelled context means the client went away mid-answer; the
		// partial answer is never persisted.
		if ctx.Err() != nil {
			return
		}

		s.saveExchange(ctx, uow, userId, req, full.String(), citations)

		send(ctx, out, answer.DoneEvent())
	}()

	return out, nil
}

func send(ctx context.Context, out chan<- answer.StreamEvent, evt answer.StreamEvent) bool {
	select {
	case out <- evt:
		return true
	case <-ctx.Done():
		return false
	}
}

// saveExchange is best-effort: an answer that reached the client is not
// withdrawn because history could not be written.
func (s *chatService) saveExchange(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, req *dto.ChatRequest, text string, citations []entity.Citation) {
	exchange := entity.ChatExchange{
		Id:         uuid.New(),
		UserId:     userId,
		DocumentId: req.DocumentId,
		Query:      req.Query,
		Answer:     text,
		Citations:  citations,
		CreatedAt:  time.Now(),
	}
	if err := uow.ChatExchangeRepository().Create(ctx, &exchange); err != nil {
		s.logger.Warn("chat", "failed to save exchange", map[string]interface{}{
			"document_id": req.DocumentId.String(),
			"error":       err.Error(),
		})
	}
}

func (s *chatService) History(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) ([]*dto.ChatHistoryItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.NotFound("document not found")
	}

	exchanges, err := uow.ChatExchangeRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: documentId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChatHistoryItemResponse, len(exchanges))
	for i, ex := range exchanges {
		items[i] = &dto.ChatHistoryItemResponse{
			Id:        ex.Id,
			Query:     ex.Query,
			Answer:    ex.Answer,
			Citations: ex.Citations,
			CreatedAt: ex.CreatedAt,
		}
	}
	return items, nil
}
