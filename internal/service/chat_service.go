package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mental-health-agent-be/internal/constant"
	"mental-health-agent-be/internal/dto"
	"mental-health-agent-be/internal/pkg/logger"
	"mental-health-agent-be/pkg/formatter"
	"mental-health-agent-be/pkg/llm"
	"mental-health-agent-be/pkg/ratelimit"
	"mental-health-agent-be/pkg/safety"
)

var (
	ErrRateLimited   = errors.New("too many requests")
	ErrInputRejected = errors.New("unsafe content detected")
)

// IChatService defines the chat orchestration interface
type IChatService interface {
	// SendChat returns a reply for every message that passes the rate limit
	// and the safety filter. Upstream failures are absorbed into a fallback
	// reply; only ErrRateLimited and ErrInputRejected are returned.
	SendChat(ctx context.Context, callerId string, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

type ChatServiceOptions struct {
	Generation llm.GenerationConfig
	Timeout    time.Duration
}

type chatService struct {
	llmProvider llm.LLMProvider
	limiter     ratelimit.Limiter
	recordSink  IRecordSink
	auditor     IRejectionAuditor
	logger      logger.ILogger
	options     ChatServiceOptions
}

func NewChatService(
	llmProvider llm.LLMProvider,
	limiter ratelimit.Limiter,
	recordSink IRecordSink,
	auditor IRejectionAuditor,
	logger logger.ILogger,
	options ChatServiceOptions,
) IChatService {
	if options.Timeout <= 0 {
		options.Timeout = 30 * time.Second
	}
	return &chatService{
		llmProvider: llmProvider,
		limiter:     limiter,
		recordSink:  recordSink,
		auditor:     auditor,
		logger:      logger,
		options:     options,
	}
}

func (cs *chatService) SendChat(ctx context.Context, callerId string, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	allowed, err := cs.limiter.Allow(ctx, callerId)
	if err != nil {
		// counter store down: serve the request rather than lock everyone out
		cs.logger.Error("CHAT", "Rate limiter unavailable, allowing request", map[string]interface{}{
			"caller_id": callerId,
			"error":     err.Error(),
		})
		allowed = true
	}
	if !allowed {
		cs.logger.Info("CHAT", "Rate limit exceeded", map[string]interface{}{"caller_id": callerId})
		return nil, ErrRateLimited
	}

	if verdict := safety.Check(request.Message); !verdict.Safe {
		cs.auditor.ReportRejected(ctx, callerId, verdict, len(request.Message))
		return nil, ErrInputRejected
	}

	reply := cs.generateReply(ctx, callerId, request.Message)

	cs.recordSink.Record(ctx, request.Message, reply)

	return &dto.ChatResponse{Reply: reply}, nil
}

// generateReply never fails: upstream errors become a fallback reply.
func (cs *chatService) generateReply(ctx context.Context, callerId, message string) string {
	// Detached from the caller so a disconnect does not abort the attempt
	// that is about to be persisted.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cs.options.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := cs.llmProvider.Generate(callCtx, BuildPrompt(message), cs.options.Generation.Options()...)
	if err != nil {
		fallback := FallbackReply(err)
		cs.logger.Warn("CHAT", "Generation failed, replying with fallback", map[string]interface{}{
			"caller_id": callerId,
			"error":     err.Error(),
			"elapsed":   time.Since(start).String(),
		})
		return fallback
	}

	cs.logger.Info("CHAT", "Reply generated", map[string]interface{}{
		"caller_id": callerId,
		"elapsed":   time.Since(start).String(),
	})
	return formatter.Format(raw)
}

// BuildPrompt prepends the fixed system instruction to the user message.
func BuildPrompt(message string) string {
	var b strings.Builder
	b.WriteString(constant.SystemInstruction)
	b.WriteString("\n\n")
	b.WriteString(constant.PromptUserPrefix)
	b.WriteString("\n")
	b.WriteString(message)
	return b.String()
}

// FallbackReply picks the user-facing text for an upstream failure.
func FallbackReply(err error) string {
	switch {
	case errors.Is(err, llm.ErrUpstreamTimeout):
		return constant.FallbackTimeout
	case errors.Is(err, llm.ErrUpstreamBusy):
		return constant.FallbackBusy
	case errors.Is(err, llm.ErrUpstreamMalformed):
		return constant.FallbackMalformed
	default:
		return constant.FallbackUnavailable
	}
}
