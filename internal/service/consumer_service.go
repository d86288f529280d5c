package service

import (
	"context"
	"encoding/json"
	"time"

	"mental-health-agent-be/internal/dto"
	"mental-health-agent-be/internal/entity"
	"mental-health-agent-be/internal/pkg/logger"
	"mental-health-agent-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService writes queued exchanges to the store. Every message is
// acked, whether or not the write succeeded: persistence is at-most-once.
type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	repository   contract.QueryRecordRepository
	writeTimeout time.Duration
	depth        *QueueDepth
	logger       logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	repository contract.QueryRecordRepository,
	writeTimeout time.Duration,
	depth *QueueDepth,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		repository:   repository,
		writeTimeout: writeTimeout,
		depth:        depth,
		logger:       logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer cs.depth.done()
	defer msg.Ack()

	var payload dto.PersistQueryRecordMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("PERSISTENCE", "Failed to unmarshal query record message", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, cs.writeTimeout)
	defer cancel()

	record := &entity.QueryRecord{
		UserInput:  payload.UserInput,
		AiResponse: payload.AiResponse,
	}
	if err := cs.repository.Create(writeCtx, record); err != nil {
		cs.logger.Error("PERSISTENCE", "Failed to write query record", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		return
	}

	cs.logger.Info("PERSISTENCE", "Query record stored", map[string]interface{}{
		"record_id":  record.Id.String(),
		"queued_for": time.Since(payload.SubmittedAt).String(),
	})
}
