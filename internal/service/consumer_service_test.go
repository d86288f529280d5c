package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mental-health-agent-be/internal/entity"
	"mental-health-agent-be/internal/pkg/logger"
	"mental-health-agent-be/internal/repository/specification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testTopic = "QUERY_RECORD_PERSIST_TEST"

type fakeQueryRecordRepository struct {
	mu      sync.Mutex
	records []*entity.QueryRecord
	failN   int
	calls   int
}

func (r *fakeQueryRecordRepository) Create(ctx context.Context, record *entity.QueryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.calls <= r.failN {
		return errors.New("connection refused")
	}
	record.Id = uuid.New()
	record.CreatedAt = time.Now()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeQueryRecordRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QueryRecord, error) {
	return nil, nil
}

func (r *fakeQueryRecordRepository) FindLatest(ctx context.Context, limit int) ([]*entity.QueryRecord, error) {
	return nil, nil
}

func (r *fakeQueryRecordRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *fakeQueryRecordRepository) snapshot() (int, []*entity.QueryRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, append([]*entity.QueryRecord(nil), r.records...)
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	return pubSub
}

func TestRecordPublisherToConsumer(t *testing.T) {
	pubSub := newPubSub(t)
	depth := NewQueueDepth()
	repo := &fakeQueryRecordRepository{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, testTopic, repo, time.Second, depth, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	sink := NewRecordPublisher(testTopic, pubSub, depth, logger.NewNopLogger())
	sink.Record(context.Background(), "I can't sleep", "Try a wind-down routine.")

	assert.Eventually(t, func() bool {
		_, records := repo.snapshot()
		return len(records) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, records := repo.snapshot()
	assert.Equal(t, "I can't sleep", records[0].UserInput)
	assert.Eventually(t, func() bool { return depth.Pending() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Try a wind-down routine.", records[0].AiResponse)
}

func TestConsumerSwallowsWriteFailures(t *testing.T) {
	pubSub := newPubSub(t)
	depth := NewQueueDepth()
	repo := &fakeQueryRecordRepository{failN: 1}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, testTopic, repo, time.Second, depth, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	sink := NewRecordPublisher(testTopic, pubSub, depth, logger.NewNopLogger())
	sink.Record(context.Background(), "first", "lost")
	sink.Record(context.Background(), "second", "kept")

	// the failed message is acked, not redelivered, so the next one flows
	assert.Eventually(t, func() bool {
		calls, records := repo.snapshot()
		return calls == 2 && len(records) == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	calls, records := repo.snapshot()
	assert.Equal(t, 2, calls, "no retry of the failed write")
	assert.Equal(t, "second", records[0].UserInput)
}

func TestConsumerAcksInvalidPayload(t *testing.T) {
	pubSub := newPubSub(t)
	depth := NewQueueDepth()
	repo := &fakeQueryRecordRepository{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, testTopic, repo, time.Second, depth, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, pubSub.Publish(testTopic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	NewRecordPublisher(testTopic, pubSub, depth, logger.NewNopLogger()).Record(context.Background(), "valid", "reply")

	assert.Eventually(t, func() bool {
		_, records := repo.snapshot()
		return len(records) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

type closedPublisher struct{}

func (closedPublisher) Publish(topic string, messages ...*message.Message) error {
	return errors.New("pubsub closed")
}

func (closedPublisher) Close() error { return nil }

func TestRecordPublisherSwallowsPublishErrors(t *testing.T) {
	depth := NewQueueDepth()
	sink := NewRecordPublisher(testTopic, closedPublisher{}, depth, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		sink.Record(context.Background(), "in", "out")
	})
	assert.Zero(t, depth.Pending(), "a record that never reached the queue is not pending")
}

type blockingRepository struct {
	fakeQueryRecordRepository
	release chan struct{}
}

func (r *blockingRepository) Create(ctx context.Context, record *entity.QueryRecord) error {
	<-r.release
	return r.fakeQueryRecordRepository.Create(ctx, record)
}

func TestQueueDepthDrain(t *testing.T) {
	pubSub := newPubSub(t)
	depth := NewQueueDepth()
	repo := &blockingRepository{release: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, testTopic, repo, 5*time.Second, depth, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	sink := NewRecordPublisher(testTopic, pubSub, depth, logger.NewNopLogger())
	sink.Record(context.Background(), "one", "reply")
	sink.Record(context.Background(), "two", "reply")
	assert.Equal(t, int64(2), depth.Pending())

	shortCtx, shortCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer shortCancel()
	assert.Equal(t, int64(2), depth.Drain(shortCtx), "writes are still blocked")

	close(repo.release)

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer drainCancel()
	assert.Zero(t, depth.Drain(drainCtx))

	_, records := repo.snapshot()
	assert.Len(t, records, 2)
}

func TestConsumerLogsStoredRecordAtInfo(t *testing.T) {
	pubSub := newPubSub(t)
	depth := NewQueueDepth()
	repo := &fakeQueryRecordRepository{}
	core, logs := observer.New(zapcore.InfoLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, testTopic, repo, time.Second, depth, logger.NewFromZap(zap.New(core)))
	require.NoError(t, consumer.Consume(ctx))

	NewRecordPublisher(testTopic, pubSub, depth, logger.NewNopLogger()).Record(context.Background(), "hi", "hello")

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Query record stored").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
