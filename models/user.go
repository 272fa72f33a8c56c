package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultRole   = "Freelancer"
	DefaultAvatar = "https://www.gravatar.com/avatar/?d=mp"
)

// User is an account holder. Password holds the bcrypt hash and never leaves the server.
type User struct {
	ID          uuid.UUID                  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string                     `json:"name" db:"name" gorm:"type:text;not null"`
	Username    string                     `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex:idx_users_username"`
	Email       string                     `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_users_email"`
	Password    string                     `json:"-" db:"password" gorm:"type:text;not null"`
	Role        string                     `json:"role" db:"role" gorm:"type:text;not null;default:'Freelancer'"`
	Bio         string                     `json:"bio,omitempty" db:"bio" gorm:"type:text"`
	Avatar      string                     `json:"avatar" db:"avatar" gorm:"type:text"`
	SocialLinks SocialLinks                `json:"socialLinks" db:"social_links" gorm:"type:jsonb;serializer:json"`
	Skills      datatypes.JSONSlice[Skill] `json:"skills" db:"skills"`
	ResumeURL   string                     `json:"resumeUrl,omitempty" db:"resume_url" gorm:"type:text"`
	CreatedAt   time.Time                  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time                  `json:"updatedAt" db:"updated_at"`
}

type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

type Skill struct {
	Name        string `json:"name"`
	Proficiency int    `json:"proficiency,omitempty"`
}

// OwnerSummary is the slice of a User shown next to public content.
type OwnerSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = DefaultRole
	}
	if u.Avatar == "" {
		u.Avatar = DefaultAvatar
	}
	return nil
}

func (u User) Summary() OwnerSummary {
	return OwnerSummary{ID: u.ID, Name: u.Name, Username: u.Username}
}
