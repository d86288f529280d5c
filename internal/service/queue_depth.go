package service

import (
	"context"
	"sync/atomic"
	"time"
)

// QueueDepth counts query records handed to the queue that the consumer has
// not finished with yet.
type QueueDepth struct {
	pending atomic.Int64
}

func NewQueueDepth() *QueueDepth {
	return &QueueDepth{}
}

func (d *QueueDepth) add()  { d.pending.Add(1) }
func (d *QueueDepth) done() { d.pending.Add(-1) }

func (d *QueueDepth) Pending() int64 {
	return d.pending.Load()
}

// Drain waits until the queue is empty or ctx is done and returns how many
// records were still pending.
func (d *QueueDepth) Drain(ctx context.Context) int64 {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		if n := d.Pending(); n <= 0 {
			return 0
		}
		select {
		case <-ctx.Done():
			return d.Pending()
		case <-ticker.C:
		}
	}
}
