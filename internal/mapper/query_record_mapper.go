package mapper

import (
	"mental-health-agent-be/internal/entity"
	"mental-health-agent-be/internal/model"
)

type QueryRecordMapper struct{}

func NewQueryRecordMapper() *QueryRecordMapper {
	return &QueryRecordMapper{}
}

func (m *QueryRecordMapper) ToEntity(q *model.QueryRecord) *entity.QueryRecord {
	if q == nil {
		return nil
	}
	return &entity.QueryRecord{
		Id:         q.Id,
		UserInput:  q.UserInput,
		AiResponse: q.AiResponse,
		CreatedAt:  q.CreatedAt,
	}
}

func (m *QueryRecordMapper) ToModel(e *entity.QueryRecord) *model.QueryRecord {
	if e == nil {
		return nil
	}
	return &model.QueryRecord{
		Id:         e.Id,
		UserInput:  e.UserInput,
		AiResponse: e.AiResponse,
		CreatedAt:  e.CreatedAt,
	}
}
