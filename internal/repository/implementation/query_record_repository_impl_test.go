package implementation

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"mental-health-agent-be/internal/entity"
	"mental-health-agent-be/internal/model"
	"mental-health-agent-be/internal/repository/specification"
	"mental-health-agent-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *QueryRecordRepositoryImpl {
	t.Helper()
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Models()...))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewQueryRecordRepository(db).(*QueryRecordRepositoryImpl)
}

func TestQueryRecordRepositoryCreate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record := &entity.QueryRecord{
		UserInput:  "I feel stressed",
		AiResponse: "Let's try a breathing exercise.",
	}
	require.NoError(t, repo.Create(ctx, record))

	assert.NotEqual(t, uuid.Nil, record.Id)
	assert.False(t, record.CreatedAt.IsZero())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestQueryRecordRepositoryFindLatest(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, input := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &entity.QueryRecord{
			UserInput:  input,
			AiResponse: "reply",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := repo.FindLatest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].UserInput)
	assert.Equal(t, "second", records[1].UserInput)
}

func TestQueryRecordRepositoryCreateCanceledContext(t *testing.T) {
	repo := newTestRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Create(ctx, &entity.QueryRecord{UserInput: "x", AiResponse: "y"})
	assert.Error(t, err)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestQueryRecordRepositoryFindAllWithSpecifications(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		record := &entity.QueryRecord{
			UserInput:  fmt.Sprintf("message %d", i),
			AiResponse: "reply",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Create(ctx, record))
		ids = append(ids, record.Id)
	}

	window := specification.CreatedBetween{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)}

	records, err := repo.FindAll(ctx, window, specification.Newest{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "message 2", records[0].UserInput)
	assert.Equal(t, "message 1", records[1].UserInput)

	count, err := repo.Count(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	byID, err := repo.FindAll(ctx, specification.ByID{ID: ids[3]})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "message 3", byID[0].UserInput)
}

func TestQueryRecordRepositoryPaging(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	// identical timestamps still page deterministically
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &entity.QueryRecord{
			UserInput:  fmt.Sprintf("message %d", i),
			AiResponse: "reply",
			CreatedAt:  at,
		}))
	}

	all, err := repo.FindAll(ctx, specification.Newest{}, specification.Page{})
	require.NoError(t, err)
	require.Len(t, all, 5)

	first, err := repo.FindAll(ctx, specification.Newest{}, specification.Page{Limit: 2})
	require.NoError(t, err)
	second, err := repo.FindAll(ctx, specification.Newest{}, specification.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	rest, err := repo.FindAll(ctx, specification.Newest{}, specification.Page{Offset: 4})
	require.NoError(t, err)

	var paged []uuid.UUID
	for _, page := range [][]*entity.QueryRecord{first, second, rest} {
		for _, r := range page {
			paged = append(paged, r.Id)
		}
	}
	var want []uuid.UUID
	for _, r := range all {
		want = append(want, r.Id)
	}
	assert.Equal(t, want, paged)

	latest, err := repo.FindLatest(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, latest, 5, "a non-positive limit returns everything")
}
