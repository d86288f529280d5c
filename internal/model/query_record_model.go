package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueryRecord struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserInput  string    `gorm:"type:text;not null"`
	AiResponse string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (QueryRecord) TableName() string {
	return "user_queries"
}

// BeforeCreate assigns the id when the caller left it empty.
func (q *QueryRecord) BeforeCreate(tx *gorm.DB) error {
	if q.Id == uuid.Nil {
		q.Id = uuid.New()
	}
	return nil
}

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&QueryRecord{},
	}
}
