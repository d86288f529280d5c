package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewChatRejected(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	evt := NewChatRejected("10.0.0.1", "suicide", 21, at)

	assert.Equal(t, EventChatRejected, evt.EventType())
	assert.Equal(t, at, evt.Timestamp())
	assert.Equal(t, map[string]interface{}{
		"caller_id":      "10.0.0.1",
		"category":       "suicide",
		"message_length": 21,
		"occurred_at":    "2026-01-02T03:04:05Z",
	}, evt.Payload())
}
