package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yorikya/note-speaker/internal/config"
	"github.com/yorikya/note-speaker/internal/controller"
	"github.com/yorikya/note-speaker/internal/handler"
	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/internal/repository/memory"
	"github.com/yorikya/note-speaker/internal/service"
	"github.com/yorikya/note-speaker/internal/websocket"
	"github.com/yorikya/note-speaker/pkg/embedding"
	"github.com/yorikya/note-speaker/pkg/embedding/jina"
	"github.com/yorikya/note-speaker/pkg/intent"
	"github.com/yorikya/note-speaker/pkg/llm"
	"github.com/yorikya/note-speaker/pkg/llm/factory"
)

type Container struct {
	Logger              logger.ILogger
	PubSub              *gochannel.GoChannel
	Hub                 *websocket.Hub
	AssistantService    service.IAssistantService
	ConsumerService     service.IConsumerService
	AssistantController controller.IAssistantController
	ChatHandler         *handler.ChatHandler
}

func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	embeddingProvider := NewEmbeddingProvider(ctx, cfg)
	llmProvider := NewLLMProvider(ctx, cfg)

	// 4. Intent engine
	router := NewRouter(ctx, cfg, embeddingProvider, sysLogger)

	// 5. WebSocket Hub
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run(ctx)

	// 6. Services
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.App.SessionTTLMinutes) * time.Minute)
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Events.Topic, wsHub, sysLogger)
	assistantService := service.NewAssistantService(
		router,
		sessionRepo,
		publisherService,
		llmProvider,
		service.AssistantSettings{
			TitleCutoff:       cfg.Intent.TitleCutoff,
			EmbeddingProvider: cfg.Ai.EmbeddingProvider,
			LLMProvider:       cfg.Ai.LLMProvider,
		},
		sysLogger,
	)

	// 7. Controllers & Handlers
	return &Container{
		Logger:              sysLogger,
		PubSub:              pubSub,
		Hub:                 wsHub,
		AssistantService:    assistantService,
		ConsumerService:     consumerService,
		AssistantController: controller.NewAssistantController(assistantService),
		ChatHandler:         handler.NewChatHandler(assistantService, wsHub, sysLogger),
	}
}

// NewEmbeddingProvider picks the embedding backend from config. A nil result
// means the deterministic fallback embeds everything.
func NewEmbeddingProvider(ctx context.Context, cfg *config.Config) embedding.EmbeddingProvider {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	case "jina":
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
		return jina.NewJinaProvider(cfg.Keys.Jina)
	case "gemini":
		p, err := embedding.NewGeminiProvider(ctx, cfg.Keys.GoogleGemini, cfg.Ai.GeminiEmbeddingModel)
		if err != nil {
			log.Printf("[WARN] Gemini embeddings unavailable, using fallback: %v", err)
			return nil
		}
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.GeminiEmbeddingModel)
		return p
	default:
		log.Printf("[INFO] Using Embedding Provider: FALLBACK")
		return nil
	}
}

// NewLLMProvider builds the generation backend; nil when it cannot be built
func NewLLMProvider(ctx context.Context, cfg *config.Config) llm.LLMProvider {
	p, err := factory.NewLLMProvider(ctx, cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Keys.GoogleGemini)
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider: %v", err)
		return nil
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	return p
}

// NewRouter builds the intent router, embedding every canonical phrase once
func NewRouter(ctx context.Context, cfg *config.Config, provider embedding.EmbeddingProvider, log logger.ILogger) *intent.Router {
	matcher := embedding.NewMatcher(provider, log)
	general := intent.NewGeneralRouter(ctx, matcher, cfg.Intent.SimilarityThreshold, log)
	return intent.NewRouter(general, cfg.Intent.DeleteCutoff, log)
}
