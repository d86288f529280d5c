package entity

import (
	"time"

	"github.com/google/uuid"
)

// QueryRecord is one persisted chat exchange. Records are append-only.
type QueryRecord struct {
	Id         uuid.UUID
	UserInput  string
	AiResponse string
	CreatedAt  time.Time
}
