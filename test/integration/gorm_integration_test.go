package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"pdf-rag-be/internal/constant"
	"pdf-rag-be/internal/entity"
	"pdf-rag-be/internal/repository/specification"
	"pdf-rag-be/internal/repository/unitofwork"
	"pdf-rag-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.DocumentChunkRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Document Repository", func(t *testing.T) {
		count, err := uow.DocumentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Document count: %d", count)
	})

	t.Run("Check Document Chunk Repository", func(t *testing.T) {
		// Count implies the table and the vector column exist
		count, err := uow.DocumentChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DocumentChunk count: %d", count)
	})

	t.Run("Check Transactional Document Ready Flip", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		doc := &entity.Document{
			Id:               uuid.New(),
			UserId:           userId,
			Name:             "integration-" + uuid.New().String(),
			OriginalFilename: "integration.pdf",
			Link:             "documents/" + userId.String() + "/integration.pdf",
			Status:           constant.DocumentStatusProcessing,
			UploadedAt:       time.Now(),
		}

		err := uow.DocumentRepository().Create(ctx, doc)
		assert.NoError(t, err)

		// Transaction Test: images and the status flip land together
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		images := []*entity.DocumentImage{
			{
				Id:         uuid.New(),
				ImageId:    doc.Id.String() + "_img-0.jpeg",
				DocumentId: doc.Id,
				UserId:     userId,
				PageNumber: 1,
				FileName:   "img-0.jpeg",
				PagePosition: entity.PagePosition{
					RelativeTop:  0.1,
					RelativeLeft: 0.2,
				},
				ImageData: "ZmFrZQ==",
			},
		}
		err = uow.DocumentImageRepository().CreateBulk(ctx, images)
		assert.NoError(t, err)

		now := time.Now()
		doc.Status = constant.DocumentStatusReady
		doc.ImageCount = 1
		doc.ProcessedAt = &now
		err = uow.DocumentRepository().Update(ctx, doc)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		stored, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, stored) {
			assert.Equal(t, constant.DocumentStatusReady, stored.Status)
		}

		t.Log("Successfully flipped Document to Ready with Images in Transaction")
	})
}
