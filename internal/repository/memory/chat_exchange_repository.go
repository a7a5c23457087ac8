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

type ChatExchangeRepository struct {
	mu        sync.RWMutex
	exchanges map[uuid.UUID]*entity.ChatExchange
}

func NewChatExchangeRepository() contract.ChatExchangeRepository {
	return &ChatExchangeRepository{
		exchanges: make(map[uuid.UUID]*entity.ChatExchange),
	}
}

func exchangeMatches(e *entity.ChatExchange, spec specification.Specification) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return e.Id == s.ID
	case specification.ByDocumentID:
		return e.DocumentId == s.DocumentID
	case specification.UserOwnedBy:
		return e.UserId == s.UserID
	default:
		return true
	}
}

func (r *ChatExchangeRepository) filter(specs ...specification.Specification) []*entity.ChatExchange {
	var out []*entity.ChatExchange
	for _, e := range r.exchanges {
		ok := true
		for _, spec := range specs {
			if !exchangeMatches(e, spec) {
				ok = false
				break
			}
		}
		if ok {
			copied := *e
			out = append(out, &copied)
		}
	}

	for _, spec := range specs {
		if order, isOrder := spec.(specification.OrderBy); isOrder && order.Field == "created_at" {
			sort.Slice(out, func(i, j int) bool {
				if order.Desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}
	return out
}

func (r *ChatExchangeRepository) Create(ctx context.Context, exchange *entity.ChatExchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if exchange.Id == uuid.Nil {
		exchange.Id = uuid.New()
	}
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now()
	}
	copied := *exchange
	r.exchanges[exchange.Id] = &copied
	return nil
}

func (r *ChatExchangeRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatExchange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(specs...), nil
}

func (r *ChatExchangeRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.filter(specs...))), nil
}
