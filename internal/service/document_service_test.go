package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/dto"
	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/pkg/apperrors"
	"pdf-rag-be/internal/repository/contract"
	"pdf-rag-be/internal/repository/memory"
	"pdf-rag-be/internal/repository/specification"
)

type stubPublisher struct {
	payloads [][]byte
	err      error
}

func (s *stubPublisher) Publish(ctx context.Context, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

type documentFixture struct {
	factory   *memory.Factory
	store     *stubObjectStore
	publisher *stubPublisher
	cache     *memory.DocumentCache
	svc       IDocumentService
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()

	fx := &documentFixture{
		factory:   memory.NewFactory(),
		store:     &stubObjectStore{},
		publisher: &stubPublisher{},
		cache:     memory.NewDocumentCache(),
	}
	fx.svc = NewDocumentService(fx.factory, fx.store, fx.publisher, fx.cache, nopLogger{})
	return fx
}

func TestDocumentUploadQueuesIngestion(t *testing.T) {
	ctx := context.Background()
	fx := newDocumentFixture(t)
	userId := uuid.New()

	res, err := fx.svc.Upload(ctx, userId, "Quarterly Report.pdf", 1024, strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Report", res.Name)
	assert.Equal(t, string(constant.DocumentStatusProcessing), res.Status)

	require.Len(t, fx.store.putKeys, 1)
	assert.Equal(t, "documents/"+userId.String()+"/"+res.Id.String()+".pdf", fx.store.putKeys[0])

	require.Len(t, fx.publisher.payloads, 1)
	var msg dto.PublishIngestDocumentMessage
	require.NoError(t, json.Unmarshal(fx.publisher.payloads[0], &msg))
	assert.Equal(t, res.Id, msg.DocumentId)

	uow := fx.factory.NewUnitOfWork(ctx)
	stored, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: res.Id})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, constant.DocumentStatusProcessing, stored.Status)
	assert.Equal(t, "Quarterly Report.pdf", stored.OriginalFilename)
}

func TestDocumentUploadRejectsNonPdf(t *testing.T) {
	fx := newDocumentFixture(t)

	_, err := fx.svc.Upload(context.Background(), uuid.New(), "notes.txt", 10, strings.NewReader("hi"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Empty(t, fx.store.putKeys, "rejected uploads must not reach storage")
	assert.Empty(t, fx.publisher.payloads)
}

type failingDocumentRepository struct {
	contract.DocumentRepository
}

func (r *failingDocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	return errors.New("insert refused")
}

func TestDocumentUploadCleansUpOnCreateFailure(t *testing.T) {
	ctx := context.Background()
	fx := newDocumentFixture(t)

	hooked := &hookFactory{
		inner: fx.factory,
		docs:  &failingDocumentRepository{},
	}
	fx.svc = NewDocumentService(hooked, fx.store, fx.publisher, fx.cache, nopLogger{})

	_, err := fx.svc.Upload(ctx, uuid.New(), "report.pdf", 512, strings.NewReader("%PDF-1.7"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPersistence))

	require.Len(t, fx.store.putKeys, 1)
	require.Len(t, fx.store.deletedKeys, 1)
	assert.Equal(t, fx.store.putKeys[0], fx.store.deletedKeys[0], "the stored object must not outlive a failed document insert")
	assert.Empty(t, fx.publisher.payloads)
}

func TestDocumentListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	fx := newDocumentFixture(t)
	userId := uuid.New()

	uow := fx.factory.NewUnitOfWork(ctx)
	old := &entity.Document{
		Id: uuid.New(), UserId: userId, Name: "old",
		Status: constant.DocumentStatusReady, UploadedAt: time.Now().Add(-time.Hour),
	}
	recent := &entity.Document{
		Id: uuid.New(), UserId: userId, Name: "recent",
		Status: constant.DocumentStatusReady, UploadedAt: time.Now(),
	}
	foreign := &entity.Document{
		Id: uuid.New(), UserId: uuid.New(), Name: "foreign",
		Status: constant.DocumentStatusReady, UploadedAt: time.Now(),
	}
	require.NoError(t, uow.DocumentRepository().Create(ctx, old))
	require.NoError(t, uow.DocumentRepository().Create(ctx, recent))
	require.NoError(t, uow.DocumentRepository().Create(ctx, foreign))

	docs, err := fx.svc.List(ctx, userId)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "recent", docs[0].Name)
	assert.Equal(t, "old", docs[1].Name)
}

func TestDocumentShowChecksOwnershipOnCachedCopy(t *testing.T) {
	ctx := context.Background()
	fx := newDocumentFixture(t)
	userId := uuid.New()

	doc := &entity.Document{
		Id: uuid.New(), UserId: userId, Name: "mine",
		Status: constant.DocumentStatusReady, UploadedAt: time.Now(),
	}
	uow := fx.factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.DocumentRepository().Create(ctx, doc))

	// First read populates the cache
	got, err := fx.svc.Show(ctx, userId, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Name)

	// A cache hit still must not leak another user's document
	_, err = fx.svc.Show(ctx, uuid.New(), doc.Id)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDocumentShowMissing(t *testing.T) {
	fx := newDocumentFixture(t)

	_, err := fx.svc.Show(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDocumentShowImage(t *testing.T) {
	ctx := context.Background()
	fx := newDocumentFixture(t)
	userId := uuid.New()
	docId := uuid.New()

	uow := fx.factory.NewUnitOfWork(ctx)
	img := &entity.DocumentImage{
		Id:         uuid.New(),
		ImageId:    docId.String() + "_img-0.jpeg",
		DocumentId: docId,
		UserId:     userId,
		PageNumber: 3,
		FileName:   "img-0.jpeg",
		ImageData:  "ZmFrZQ==",
	}
	require.NoError(t, uow.DocumentImageRepository().CreateBulk(ctx, []*entity.DocumentImage{img}))

	got, err := fx.svc.ShowImage(ctx, userId, img.ImageId)
	require.NoError(t, err)
	assert.Equal(t, 3, got.PageNumber)
	assert.Equal(t, "ZmFrZQ==", got.ImageData)

	_, err = fx.svc.ShowImage(ctx, uuid.New(), img.ImageId)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDocumentReprocessCreatesFreshDocument(t *testing.T) {
	ctx := context.Background()
	fx := newDocumentFixture(t)
	userId := uuid.New()

	failed := &entity.Document{
		Id:               uuid.New(),
		UserId:           userId,
		Name:             "broken",
		OriginalFilename: "broken.pdf",
		Link:             "documents/" + userId.String() + "/broken.pdf",
		Status:           constant.DocumentStatusFailed,
		Error:            "ocr failed",
		UploadedAt:       time.Now().Add(-time.Hour),
	}
	uow := fx.factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.DocumentRepository().Create(ctx, failed))

	// A failed ingestion can leave committed chunks and images behind.
	_, err := uow.DocumentChunkRepository().CreateBulkUnordered(ctx, []*entity.DocumentChunk{
		{Id: uuid.New(), DocumentId: failed.Id, UserId: userId, Content: "stray chunk", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)
	require.NoError(t, uow.DocumentImageRepository().CreateBulk(ctx, []*entity.DocumentImage{
		{Id: uuid.New(), ImageId: failed.Id.String() + "_img-0.jpeg", DocumentId: failed.Id, UserId: userId},
	}))

	res, err := fx.svc.Reprocess(ctx, userId, failed.Id)
	require.NoError(t, err)

	strayChunks, err := uow.DocumentChunkRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: failed.Id})
	require.NoError(t, err)
	assert.Empty(t, strayChunks, "reprocess must clear the failed document's chunks")
	strayImages, err := uow.DocumentImageRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: failed.Id})
	require.NoError(t, err)
	assert.Empty(t, strayImages, "reprocess must clear the failed document's images")

	assert.NotEqual(t, failed.Id, res.Id, "reprocess must mint a new document, terminal rows stay untouched")
	assert.Equal(t, string(constant.DocumentStatusProcessing), res.Status)

	fresh, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: res.Id})
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, failed.Link, fresh.Link, "the stored file is reused")
	assert.Empty(t, fresh.Error)

	original, _ := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: failed.Id})
	assert.Equal(t, constant.DocumentStatusFailed, original.Status)

	require.Len(t, fx.publisher.payloads, 1)
	var msg dto.PublishIngestDocumentMessage
	require.NoError(t, json.Unmarshal(fx.publisher.payloads[0], &msg))
	assert.Equal(t, res.Id, msg.DocumentId)
}

func TestDocumentReprocessRejectsNonFailed(t *testing.T) {
	ctx := context.Background()
	fx := newDocumentFixture(t)
	userId := uuid.New()

	for _, status := range []constant.DocumentStatus{
		constant.DocumentStatusProcessing,
		constant.DocumentStatusReady,
	} {
		doc := &entity.Document{
			Id: uuid.New(), UserId: userId, Name: "doc",
			Status: status, UploadedAt: time.Now(),
		}
		uow := fx.factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.DocumentRepository().Create(ctx, doc))

		_, err := fx.svc.Reprocess(ctx, userId, doc.Id)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "status %s", status)
	}
}
