package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxReviewWords caps the length of a landing page quote.
const MaxReviewWords = 50

type Review struct {
	ID        uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID    uuid.UUID     `json:"userId" db:"user_id" gorm:"type:uuid;not null;index:idx_reviews_user_id"`
	Quote     string        `json:"quote" db:"quote" gorm:"type:text;not null"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at" gorm:"index:idx_reviews_created_at,sort:desc"`
	Author    *OwnerSummary `json:"user,omitempty" gorm:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
