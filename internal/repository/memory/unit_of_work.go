package memory

import (
	"context"

	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/unitofwork"
)

// UnitOfWork binds the map-backed repositories behind the transactional
// interface. Begin/Commit/Rollback are no-ops; the maps are always live.
type UnitOfWork struct {
	documents *DocumentRepository
	chunks    *DocumentChunkRepository
	images    *DocumentImageRepository
	exchanges *ChatExchangeRepository
}

var _ unitofwork.UnitOfWork = &UnitOfWork{}

// NewUnitOfWork builds one shared set of stores.
func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		documents: NewDocumentRepository().(*DocumentRepository),
		chunks:    NewDocumentChunkRepository().(*DocumentChunkRepository),
		images:    NewDocumentImageRepository().(*DocumentImageRepository),
		exchanges: NewChatExchangeRepository().(*ChatExchangeRepository),
	}
}

func (u *UnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *UnitOfWork) Commit() error                   { return nil }
func (u *UnitOfWork) Rollback() error                 { return nil }

func (u *UnitOfWork) DocumentRepository() contract.DocumentRepository {
	return u.documents
}

func (u *UnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.chunks
}

func (u *UnitOfWork) DocumentImageRepository() contract.DocumentImageRepository {
	return u.images
}

func (u *UnitOfWork) ChatExchangeRepository() contract.ChatExchangeRepository {
	return u.exchanges
}

// Factory hands out the same unit of work on every call, which mirrors a
// single shared database.
type Factory struct {
	uow *UnitOfWork
}

var _ unitofwork.RepositoryFactory = &Factory{}

func NewFactory() *Factory {
	return &Factory{uow: NewUnitOfWork()}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}
