package unitofwork

import (
	"context"

	"pdf-rag-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	DocumentImageRepository() contract.DocumentImageRepository
	ChatExchangeRepository() contract.ChatExchangeRepository
}
