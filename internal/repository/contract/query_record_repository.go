package contract

import (
	"context"

	"mental-health-agent-be/internal/entity"
	"mental-health-agent-be/internal/repository/specification"
)

// QueryRecordRepository is append-only: there is no update or delete path.
type QueryRecordRepository interface {
	Create(ctx context.Context, record *entity.QueryRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QueryRecord, error)
	FindLatest(ctx context.Context, limit int) ([]*entity.QueryRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
