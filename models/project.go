package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a piece of work shown on its owner's portfolio.
type Project struct {
	ID           uuid.UUID                         `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID       uuid.UUID                         `json:"user" db:"user_id" gorm:"type:uuid;not null;index:idx_projects_user_id"`
	Title        string                            `json:"title" db:"title" gorm:"type:text;not null"`
	Description  string                            `json:"description" db:"description" gorm:"type:text;not null"`
	Technologies datatypes.JSONSlice[string]       `json:"technologies" db:"technologies"`
	Images       datatypes.JSONSlice[ProjectImage] `json:"images" db:"images"`
	GithubURL    string                            `json:"githubUrl,omitempty" db:"github_url" gorm:"type:text"`
	LiveURL      string                            `json:"liveUrl,omitempty" db:"live_url" gorm:"type:text"`
	Featured     bool                              `json:"featured" db:"featured" gorm:"not null;default:false"`
	StartDate    Date                              `json:"startDate" db:"start_date"`
	EndDate      Date                              `json:"endDate" db:"end_date"`
	CreatedAt    time.Time                         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time                         `json:"updatedAt" db:"updated_at"`
}

type ProjectImage struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Caption string    `json:"caption,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
