package bootstrap

import (
	"context"
	"log"

	"legal-research-be/internal/config"
	"legal-research-be/internal/controller"
	"legal-research-be/internal/pkg/logger"
	"legal-research-be/internal/repository/implementation"
	"legal-research-be/internal/repository/memory"
	"legal-research-be/internal/service"
	"legal-research-be/pkg/cache"
	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/embedding/fastembed"
	"legal-research-be/pkg/llm/factory"
	"legal-research-be/pkg/rerank"
	"legal-research-be/pkg/research/decompose"
	"legal-research-be/pkg/research/embedder"
	"legal-research-be/pkg/research/executor"
	"legal-research-be/pkg/research/resolve"
	"legal-research-be/pkg/research/retrieve"
	"legal-research-be/pkg/research/synthesize"
	"legal-research-be/pkg/research/validate"

	pkgNats "legal-research-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ResearchController controller.IResearchController
	ChatController     controller.IChatController
	ExportController   controller.IExportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for shutdown
	SysLogger logger.ILogger
	NatsPub   *pkgNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.Default()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
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

	// 3. AI Providers
	// The FastEmbed sidecar carries both embedding kinds; gemini/ollama can
	// substitute for the dense side only, the sparse side always needs the
	// sidecar.
	fastEmbed := fastembed.NewProvider(cfg.Ai.FastEmbedBaseURL, "", "")

	var denseProvider embedding.DenseProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		denseProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Dense Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "gemini":
		denseProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Dense Embedding Provider: GEMINI")
	default:
		denseProvider = fastEmbed
		log.Printf("[INFO] Using Dense Embedding Provider: FASTEMBED")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Cohere,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	reranker := rerank.NewHTTPReranker(cfg.Ai.RerankerBaseURL, cfg.Ai.RerankerModel)

	// 4. Repositories
	documentRepo := implementation.NewLegalDocumentRepository(db)
	historyRepo := implementation.NewResearchHistoryRepository(db)
	conversationRepo := memory.NewConversationRepository()

	// 5. Pipeline
	resultCache := cache.NewResultCache(cache.NewRedisKV(rdb), cfg.Research.CacheTTL, stdLogger)

	pipeline := executor.NewPipeline(
		decompose.NewDecomposer(llmProvider, stdLogger),
		validate.NewValidator(stdLogger),
		embedder.NewDualEmbedder(denseProvider, fastEmbed, stdLogger),
		retrieve.NewRetriever(documentRepo, reranker, stdLogger),
		resolve.NewResolver(llmProvider, stdLogger),
		synthesize.NewSynthesizer(llmProvider, stdLogger),
		resultCache,
		cfg.Research.TopK,
		stdLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Research.HistoryTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Research.HistoryTopic, historyRepo, sysLogger)

	researchService := service.NewResearchService(pipeline, historyRepo, publisherService, natsPub, sysLogger)
	chatService := service.NewChatService(pipeline, conversationRepo, llmProvider, sysLogger)

	// 7. Controllers
	return &Container{
		ResearchController: controller.NewResearchController(researchService),
		ChatController:     controller.NewChatController(chatService),
		ExportController:   controller.NewExportController(nil),

		ConsumerService: consumerService,

		SysLogger: sysLogger,
		NatsPub:   natsPub,
	}
}
