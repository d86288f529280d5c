package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"mental-health-agent-be/internal/config"
	"mental-health-agent-be/internal/controller"
	"mental-health-agent-be/internal/pkg/logger"
	"mental-health-agent-be/internal/repository/implementation"
	"mental-health-agent-be/internal/service"
	"mental-health-agent-be/pkg/llm"
	"mental-health-agent-be/pkg/llm/factory"
	"mental-health-agent-be/pkg/ratelimit"

	pktNats "mental-health-agent-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const rateLimitKeyPrefix = "ratelimit:chat:"

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	persistenceQueue *service.QueueDepth
	closers          []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	persistenceLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "persistence.log"))
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	// 3. Infrastructure
	llmProvider, err := factory.NewLLMProvider(factory.Params{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   cfg.Keys.GoogleGemini,
		Timeout:  cfg.Ai.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	limiter := newLimiter(cfg, sysLogger, c)

	// NATS is optional: without it rejections are only logged
	var auditPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			auditPublisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 4. Services
	queryRecordRepo := implementation.NewQueryRecordRepository(db)
	c.persistenceQueue = service.NewQueueDepth()
	recordPublisher := service.NewRecordPublisher(cfg.Persistence.Topic, pubSub, c.persistenceQueue, persistenceLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Persistence.Topic,
		queryRecordRepo,
		cfg.Persistence.WriteTimeout,
		c.persistenceQueue,
		persistenceLogger,
	)

	chatService := service.NewChatService(
		llmProvider,
		limiter,
		recordPublisher,
		service.NewRejectionAuditor(auditPublisher, sysLogger),
		sysLogger,
		service.ChatServiceOptions{
			Generation: llm.GenerationConfig{
				Temperature: cfg.Ai.Temperature,
				TopK:        cfg.Ai.TopK,
				TopP:        cfg.Ai.TopP,
				MaxTokens:   cfg.Ai.MaxOutputTokens,
			},
			Timeout: cfg.Ai.Timeout,
		},
	)

	// 5. Controllers
	c.ChatController = controller.NewChatController(chatService)
	c.closers = append(c.closers, syncQuietly(persistenceLogger), syncQuietly(sysLogger))

	return c, nil
}

// DrainPersistence waits for queued query records to be written and logs any
// that are still pending when ctx expires. It returns the number dropped.
func (c *Container) DrainPersistence(ctx context.Context) int64 {
	if c.persistenceQueue == nil {
		return 0
	}
	dropped := c.persistenceQueue.Drain(ctx)
	if dropped > 0 {
		c.Logger.Warn("PERSISTENCE", "Dropping queued query records at shutdown", map[string]interface{}{
			"dropped": dropped,
		})
	}
	return dropped
}

// Close releases the pubsub and broker connections, then flushes the loggers.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			log.Printf("[WARN] close: %v", err)
		}
	}
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.GeminiBaseURL
}

// newLimiter prefers Redis so counters are shared across instances, and
// falls back to process memory when Redis is not configured or unreachable.
func newLimiter(cfg *config.Config, sysLogger logger.ILogger, c *Container) ratelimit.Limiter {
	policy := ratelimit.Policy{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window}
	if cfg.App.RedisURL == "" {
		return ratelimit.NewMemoryLimiter(policy)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Redis unreachable, rate limiting in memory", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return ratelimit.NewMemoryLimiter(policy)
	}

	c.closers = append(c.closers, rdb.Close)
	return ratelimit.NewRedisLimiter(rdb, rateLimitKeyPrefix, policy)
}

// Sync on a console sink fails with EINVAL on most terminals; nothing to report.
func syncQuietly(l logger.ILogger) func() error {
	return func() error {
		_ = l.Sync()
		return nil
	}
}
