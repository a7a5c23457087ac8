package contract

import (
	"context"

	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/specification"
)

// ChatExchangeRepository is append-only: exchanges are never mutated or
// deleted by the core.
type ChatExchangeRepository interface {
	Create(ctx context.Context, exchange *entity.ChatExchange) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatExchange, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
