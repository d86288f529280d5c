package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID selects one query record.
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// CreatedBetween keeps records with From <= created_at < To. A zero bound is
// left open.
type CreatedBetween struct {
	From time.Time
	To   time.Time
}

func (s CreatedBetween) Apply(db *gorm.DB) *gorm.DB {
	if !s.From.IsZero() {
		db = db.Where("created_at >= ?", s.From)
	}
	if !s.To.IsZero() {
		db = db.Where("created_at < ?", s.To)
	}
	return db
}

// Newest orders latest exchanges first. Records written in the same instant
// fall back to id so paging is stable.
type Newest struct{}

func (Newest) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// Page windows the result set. Limit <= 0 returns every row after Offset.
type Page struct {
	Limit  int
	Offset int
}

func (s Page) Apply(db *gorm.DB) *gorm.DB {
	if s.Limit > 0 {
		db = db.Limit(s.Limit)
	}
	if s.Offset > 0 {
		db = db.Offset(s.Offset)
	}
	return db
}
