package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/memory"
	"pdf-rag-be/internal/repository/specification"
	"pdf-rag-be/internal/repository/unitofwork"
	"pdf-rag-be/pkg/ocr"
	"pdf-rag-be/pkg/textsplit"
)

// --- Test doubles ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubObjectStore struct {
	putKeys     []string
	deletedKeys []string
}

func (s *stubObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.putKeys = append(s.putKeys, key)
	return nil
}

func (s *stubObjectStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}

func (s *stubObjectStore) Delete(ctx context.Context, key string) error {
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

// hookFactory lets a test swap individual repositories while the rest of
// the unit of work stays backed by the memory fakes.
type hookFactory struct {
	inner  unitofwork.RepositoryFactory
	docs   contract.DocumentRepository
	chunks contract.DocumentChunkRepository
}

func (f *hookFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &hookUnitOfWork{UnitOfWork: f.inner.NewUnitOfWork(ctx), factory: f}
}

type hookUnitOfWork struct {
	unitofwork.UnitOfWork
	factory *hookFactory
}

func (u *hookUnitOfWork) DocumentRepository() contract.DocumentRepository {
	if u.factory.docs != nil {
		return u.factory.docs
	}
	return u.UnitOfWork.DocumentRepository()
}

func (u *hookUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository {
	if u.factory.chunks != nil {
		return u.factory.chunks
	}
	return u.UnitOfWork.DocumentChunkRepository()
}

type indexEnsureRecorder struct {
	contract.DocumentChunkRepository
	calls int
	err   error
}

func (r *indexEnsureRecorder) EnsureVectorIndex(ctx context.Context) error {
	r.calls++
	return r.err
}

type stubOCR struct {
	result *ocr.Result
	err    error
}

func (s *stubOCR) Process(ctx context.Context, documentURL string) (*ocr.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubEmbedder struct {
	dim int
	err error
}

func (s *stubEmbedder) Generate(ctx context.Context, inputs []string, taskType string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(inputs))
	for i, in := range inputs {
		v := make([]float32, s.dim)
		for j := range v {
			v[j] = float32(len(in)%7+j) / 10
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (s *stubEmbedder) Dimension() int {
	return s.dim
}

// --- Fixtures ---

func twoPageResult() *ocr.Result {
	return &ocr.Result{
		Pages: []ocr.Page{
			{
				Index:    0,
				Markdown: "First page text about alpha topics.",
				Images: []ocr.Image{
					{
						Id: "img-0.jpeg", TopLeftX: 10, TopLeftY: 20,
						BottomRightX: 110, BottomRightY: 220,
						ImageBase64: "ZmFrZQ==",
					},
				},
				Dimensions: &ocr.PageDimensions{DPI: 200, Width: 1000, Height: 1400},
			},
			{
				Index:    1,
				Markdown: "Second page text about beta topics.",
			},
		},
	}
}

func newIngestionFixture(t *testing.T, ocrProvider ocr.Provider) (*memory.Factory, IIngestionService, *entity.Document) {
	t.Helper()

	factory := memory.NewFactory()
	svc := NewIngestionService(
		factory,
		&stubObjectStore{},
		ocrProvider,
		&stubEmbedder{dim: 4},
		textsplit.NewSplitter(1000, 200),
		2,
		nil,
		memory.NewDocumentCache(),
		nopLogger{},
	)

	doc := &entity.Document{
		Id:               uuid.New(),
		UserId:           uuid.New(),
		Name:             "report",
		OriginalFilename: "report.pdf",
		Link:             "documents/u/report.pdf",
		Status:           constant.DocumentStatusProcessing,
		UploadedAt:       time.Now(),
	}
	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.DocumentRepository().Create(context.Background(), doc))

	return factory, svc, doc
}

// --- Tests ---

func TestIngestionProcessMarksReady(t *testing.T) {
	ctx := context.Background()
	factory, svc, doc := newIngestionFixture(t, &stubOCR{result: twoPageResult()})

	require.NoError(t, svc.Process(ctx, doc.Id))

	uow := factory.NewUnitOfWork(ctx)
	stored, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, constant.DocumentStatusReady, stored.Status)
	assert.Equal(t, 2, stored.PageCount)
	assert.Equal(t, 1, stored.ImageCount)
	assert.Equal(t, 2, stored.ChunkCount)
	assert.Empty(t, stored.Error)
	require.NotNil(t, stored.ProcessedAt)

	chunks, err := uow.DocumentChunkRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: doc.Id})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.Len(t, c.Embedding, 4)
		assert.Equal(t, doc.UserId, c.UserId)
		assert.Equal(t, 2, c.Metadata.TotalPages)
		assert.Equal(t, "report.pdf", c.Metadata.Source)
	}

	images, err := uow.DocumentImageRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: doc.Id})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, fmt.Sprintf("%s_img-0.jpeg", doc.Id), images[0].ImageId)
	assert.Equal(t, 1, images[0].PageNumber)
	assert.InDelta(t, 20.0/1400.0, images[0].PagePosition.RelativeTop, 1e-9)
	assert.InDelta(t, 10.0/1000.0, images[0].PagePosition.RelativeLeft, 1e-9)
	assert.Equal(t, "ZmFrZQ==", images[0].ImageData)
}

func TestIngestionChunkMetadataLinksPageImages(t *testing.T) {
	ctx := context.Background()
	factory, svc, doc := newIngestionFixture(t, &stubOCR{result: twoPageResult()})

	require.NoError(t, svc.Process(ctx, doc.Id))

	uow := factory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentChunkRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: doc.Id})
	require.NoError(t, err)

	var page1, page2 int
	for _, c := range chunks {
		switch c.Metadata.Page {
		case 1:
			page1++
			require.Len(t, c.Metadata.Images, 1)
			assert.Equal(t, fmt.Sprintf("%s_img-0.jpeg", doc.Id), c.Metadata.Images[0].ImageId)
			require.NotNil(t, c.Metadata.Dimensions)
			assert.Equal(t, 1000, c.Metadata.Dimensions.Width)
		case 2:
			page2++
			assert.Empty(t, c.Metadata.Images)
		}
	}
	assert.Equal(t, 1, page1)
	assert.Equal(t, 1, page2)
}

func TestIngestionOCRFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	factory, svc, doc := newIngestionFixture(t, &stubOCR{err: errors.New("upstream down")})

	err := svc.Process(ctx, doc.Id)
	require.Error(t, err)

	uow := factory.NewUnitOfWork(ctx)
	stored, findErr := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
	require.NoError(t, findErr)

	assert.Equal(t, constant.DocumentStatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "ocr failed")
	require.NotNil(t, stored.ProcessedAt)

	chunks, _ := uow.DocumentChunkRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: doc.Id})
	assert.Empty(t, chunks)
}

func TestIngestionEmptyDocumentMarksFailed(t *testing.T) {
	ctx := context.Background()
	factory, svc, doc := newIngestionFixture(t, &stubOCR{result: &ocr.Result{
		Pages: []ocr.Page{{Index: 0, Markdown: "   "}},
	}})

	err := svc.Process(ctx, doc.Id)
	require.Error(t, err)

	uow := factory.NewUnitOfWork(ctx)
	stored, _ := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
	assert.Equal(t, constant.DocumentStatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "no text")
}

func TestIngestionEmbeddingFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	svc := NewIngestionService(
		factory,
		&stubObjectStore{},
		&stubOCR{result: twoPageResult()},
		&stubEmbedder{dim: 4, err: errors.New("quota exceeded")},
		textsplit.NewSplitter(1000, 200),
		2,
		nil,
		memory.NewDocumentCache(),
		nopLogger{},
	)

	doc := &entity.Document{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Name:   "report",
		Status: constant.DocumentStatusProcessing,
	}
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.DocumentRepository().Create(ctx, doc))

	require.Error(t, svc.Process(ctx, doc.Id))

	stored, _ := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
	assert.Equal(t, constant.DocumentStatusFailed, stored.Status)

	chunks, _ := uow.DocumentChunkRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: doc.Id})
	assert.Empty(t, chunks, "no chunks may persist when embedding fails")
}

func TestIngestionSkipsTerminalDocument(t *testing.T) {
	ctx := context.Background()
	factory, svc, doc := newIngestionFixture(t, &stubOCR{result: twoPageResult()})

	uow := factory.NewUnitOfWork(ctx)
	doc.Status = constant.DocumentStatusReady
	doc.ChunkCount = 42
	require.NoError(t, uow.DocumentRepository().Update(ctx, doc))

	require.NoError(t, svc.Process(ctx, doc.Id))

	stored, _ := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
	assert.Equal(t, 42, stored.ChunkCount, "terminal documents must not be reprocessed in place")

	chunks, _ := uow.DocumentChunkRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: doc.Id})
	assert.Empty(t, chunks)
}

func TestIngestionEnsuresVectorIndex(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()

	recorder := &indexEnsureRecorder{
		DocumentChunkRepository: factory.NewUnitOfWork(ctx).DocumentChunkRepository(),
	}
	hooked := &hookFactory{inner: factory, chunks: recorder}

	svc := NewIngestionService(
		hooked,
		&stubObjectStore{},
		&stubOCR{result: twoPageResult()},
		&stubEmbedder{dim: 4},
		textsplit.NewSplitter(1000, 200),
		2,
		nil,
		memory.NewDocumentCache(),
		nopLogger{},
	)

	doc := &entity.Document{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Name:   "report",
		Status: constant.DocumentStatusProcessing,
	}
	require.NoError(t, factory.NewUnitOfWork(ctx).DocumentRepository().Create(ctx, doc))

	require.NoError(t, svc.Process(ctx, doc.Id))
	assert.Equal(t, 1, recorder.calls, "every ingestion run must ensure the similarity index")

	stored, _ := factory.NewUnitOfWork(ctx).DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
	assert.Equal(t, constant.DocumentStatusReady, stored.Status)
}

func TestIngestionIndexFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()

	recorder := &indexEnsureRecorder{
		DocumentChunkRepository: factory.NewUnitOfWork(ctx).DocumentChunkRepository(),
		err:                     errors.New("index build rejected"),
	}
	hooked := &hookFactory{inner: factory, chunks: recorder}

	svc := NewIngestionService(
		hooked,
		&stubObjectStore{},
		&stubOCR{result: twoPageResult()},
		&stubEmbedder{dim: 4},
		textsplit.NewSplitter(1000, 200),
		2,
		nil,
		memory.NewDocumentCache(),
		nopLogger{},
	)

	doc := &entity.Document{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Name:   "report",
		Status: constant.DocumentStatusProcessing,
	}
	require.NoError(t, factory.NewUnitOfWork(ctx).DocumentRepository().Create(ctx, doc))

	err := svc.Process(ctx, doc.Id)
	require.Error(t, err)

	stored, _ := factory.NewUnitOfWork(ctx).DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
	assert.Equal(t, constant.DocumentStatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "vector index")
}

func TestIngestionUnknownDocument(t *testing.T) {
	_, svc, _ := newIngestionFixture(t, &stubOCR{result: twoPageResult()})

	err := svc.Process(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
