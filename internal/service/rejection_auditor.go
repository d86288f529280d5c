package service

import (
	"context"
	"time"

	"mental-health-agent-be/internal/pkg/logger"
	"mental-health-agent-be/pkg/events"
	"mental-health-agent-be/pkg/safety"
)

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IRejectionAuditor records messages blocked by the safety filter. Only the
// caller identity, category and message length leave the process.
type IRejectionAuditor interface {
	ReportRejected(ctx context.Context, callerId string, verdict safety.Verdict, messageLength int)
}

type rejectionAuditor struct {
	publisher EventPublisher
	logger    logger.ILogger
	timeout   time.Duration
}

// NewRejectionAuditor accepts a nil publisher, in which case rejections are
// only logged.
func NewRejectionAuditor(publisher EventPublisher, logger logger.ILogger) IRejectionAuditor {
	return &rejectionAuditor{
		publisher: publisher,
		logger:    logger,
		timeout:   5 * time.Second,
	}
}

func (a *rejectionAuditor) ReportRejected(ctx context.Context, callerId string, verdict safety.Verdict, messageLength int) {
	a.logger.Warn("SAFETY", "Message rejected by safety filter", map[string]interface{}{
		"caller_id":      callerId,
		"category":       string(verdict.Category),
		"message_length": messageLength,
	})

	if a.publisher == nil {
		return
	}

	evt := events.NewChatRejected(callerId, string(verdict.Category), messageLength, time.Now())
	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.publisher.Publish(pubCtx, evt); err != nil {
			a.logger.Error("SAFETY", "Failed to publish CHAT_REJECTED event", map[string]interface{}{"error": err.Error()})
		}
	}()
}
