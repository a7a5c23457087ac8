package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pdf-rag-be/internal/config"
	"pdf-rag-be/internal/controller"
	"pdf-rag-be/internal/pkg/logger"
	"pdf-rag-be/internal/repository/memory"
	"pdf-rag-be/internal/repository/unitofwork"
	"pdf-rag-be/internal/service"
	embeddingFactory "pdf-rag-be/pkg/embedding/factory"
	"pdf-rag-be/pkg/events"
	llmFactory "pdf-rag-be/pkg/llm/factory"
	ocrMistral "pdf-rag-be/pkg/ocr/mistral"
	"pdf-rag-be/pkg/rag/answer"
	"pdf-rag-be/pkg/rag/retrieve"
	"pdf-rag-be/pkg/storage"
	"pdf-rag-be/pkg/textsplit"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger         logger.ILogger
	EventPublisher *events.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	objectStore, err := storage.NewMinioStore(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}

	// NATS (optional; document lifecycle events are best-effort)
	natsPub, err := events.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis (optional; only backs the query-embedding cache)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 4. AI Providers
	ocrProvider := ocrMistral.NewProvider(cfg.Keys.Mistral, cfg.Ai.OCRModel)

	embeddingProvider, err := embeddingFactory.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Keys.Mistral,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingDim,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s, %d dims)",
		cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDim)

	llmProvider, err := llmFactory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Keys.Mistral,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. RAG components
	splitter := textsplit.NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	docCache := memory.NewDocumentCache()

	ragLogger := log.New(os.Stdout, "[rag] ", log.LstdFlags)
	retriever := retrieve.NewRetriever(
		embeddingProvider,
		cfg.Ai.EmbeddingModel,
		retrieve.NewEmbeddingCache(rdb),
		ragLogger,
	)
	generator := answer.NewGenerator(llmProvider, cfg.Ai.MaxTokens)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)

	ingestionService := service.NewIngestionService(
		uowFactory,
		objectStore,
		ocrProvider,
		embeddingProvider,
		splitter,
		cfg.Chunking.EmbedWorkers,
		natsPub,
		docCache,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		ingestionService,
		sysLogger,
	)

	authService := service.NewAuthService(cfg.Keys.JWTSecret)
	documentService := service.NewDocumentService(
		uowFactory,
		objectStore,
		publisherService,
		docCache,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		retriever,
		generator,
		retrieve.DefaultConfig(),
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		DocumentController: controller.NewDocumentController(documentService),
		ChatController:     controller.NewChatController(chatService),

		ConsumerService: consumerService,

		Logger:         sysLogger,
		EventPublisher: natsPub,
	}
}
