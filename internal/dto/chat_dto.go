package dto

import "time"

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ErrorDetailResponse struct {
	Detail string `json:"detail"`
}

// PersistQueryRecordMessage is the payload queued for the persistence worker.
type PersistQueryRecordMessage struct {
	UserInput   string    `json:"user_input"`
	AiResponse  string    `json:"ai_response"`
	SubmittedAt time.Time `json:"submitted_at"`
}
