package service

import (
	"context"
	"encoding/json"
	"time"

	"mental-health-agent-be/internal/dto"
	"mental-health-agent-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IRecordSink accepts finished exchanges for best-effort persistence.
// Record never blocks on the store and never reports failure to the caller.
type IRecordSink interface {
	Record(ctx context.Context, userInput, aiResponse string)
}

type recordPublisher struct {
	publisher message.Publisher
	topicName string
	depth     *QueueDepth
	logger    logger.ILogger
}

func NewRecordPublisher(topicName string, publisher message.Publisher, depth *QueueDepth, logger logger.ILogger) IRecordSink {
	return &recordPublisher{
		publisher: publisher,
		topicName: topicName,
		depth:     depth,
		logger:    logger,
	}
}

func (p *recordPublisher) Record(ctx context.Context, userInput, aiResponse string) {
	payload, err := json.Marshal(dto.PersistQueryRecordMessage{
		UserInput:   userInput,
		AiResponse:  aiResponse,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		p.logger.Error("PERSISTENCE", "Failed to marshal query record", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(context.WithoutCancel(ctx))

	p.depth.add()
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.depth.done()
		p.logger.Error("PERSISTENCE", "Failed to queue query record", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
	}
}
