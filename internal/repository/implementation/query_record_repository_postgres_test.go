package implementation

import (
	"context"
	"log"
	"os"
	"testing"

	"mental-health-agent-be/internal/entity"
	"mental-health-agent-be/internal/model"
	"mental-health-agent-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRecordRepositoryPostgres(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" || database.IsSQLite(dsn) {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING does not point at Postgres")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Models()...))

	repo := NewQueryRecordRepository(db)
	ctx := context.Background()

	before, err := repo.Count(ctx)
	require.NoError(t, err)

	record := &entity.QueryRecord{UserInput: "integration", AiResponse: "ok"}
	require.NoError(t, repo.Create(ctx, record))
	t.Cleanup(func() {
		db.Delete(&model.QueryRecord{}, "id = ?", record.Id)
	})

	after, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}
