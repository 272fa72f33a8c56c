package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Portfolio is the single public page a user curates. UserID carries a unique
// index so a user can never own two.
type Portfolio struct {
	ID             uuid.UUID                          `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID         uuid.UUID                          `json:"user" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_portfolios_user_id"`
	Template       TemplateKind                       `json:"template" db:"template" gorm:"type:text;not null;default:'modern'"`
	Hero           Hero                               `json:"hero" db:"hero" gorm:"type:jsonb;serializer:json"`
	About          About                              `json:"about" db:"about" gorm:"type:jsonb;serializer:json"`
	Experience     datatypes.JSONSlice[Experience]    `json:"experience" db:"experience"`
	Certifications datatypes.JSONSlice[Certification] `json:"certifications" db:"certifications"`
	Contact        Contact                            `json:"contact" db:"contact" gorm:"type:jsonb;serializer:json"`
	Theme          Theme                              `json:"theme" db:"theme" gorm:"type:text;not null;default:'light'"`
	CustomDomain   string                             `json:"customDomain,omitempty" db:"custom_domain" gorm:"type:text"`
	Testimonials   datatypes.JSONSlice[Testimonial]   `json:"testimonials" db:"testimonials"`
	IsPublic       bool                               `json:"isPublic" db:"is_public" gorm:"not null"`
	Views          int64                              `json:"views" db:"views" gorm:"not null;default:0"`
	Customization  Customization                      `json:"customization" db:"customization" gorm:"type:jsonb;serializer:json"`
	CreatedAt      time.Time                          `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time                          `json:"updatedAt" db:"updated_at"`

	Owner *OwnerSummary `json:"owner,omitempty" gorm:"-"`
}

type Hero struct {
	Title      string         `json:"title,omitempty"`
	Subtitle   string         `json:"subtitle,omitempty"`
	Background HeroBackground `json:"background"`
	CTAText    string         `json:"ctaText"`
	CTALink    string         `json:"ctaLink"`
}

type HeroBackground struct {
	Type           string   `json:"type"`
	Color          string   `json:"color"`
	Gradient       Gradient `json:"gradient"`
	Image          string   `json:"image,omitempty"`
	Overlay        bool     `json:"overlay"`
	OverlayOpacity float64  `json:"overlayOpacity"`
}

type Gradient struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"`
}

type About struct {
	Title  string   `json:"title"`
	Bio    string   `json:"bio,omitempty"`
	Skills []string `json:"skills"`
	Image  string   `json:"image,omitempty"`
}

type Experience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location,omitempty"`
	StartDate        Date     `json:"startDate"`
	EndDate          Date     `json:"endDate"`
	Current          bool     `json:"current"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Technologies     []string `json:"technologies,omitempty"`
}

type Certification struct {
	Name          string `json:"name"`
	Issuer        string `json:"issuer"`
	IssueDate     Date   `json:"issueDate"`
	ExpiryDate    Date   `json:"expiryDate"`
	CredentialID  string `json:"credentialID,omitempty"`
	CredentialURL string `json:"credentialURL,omitempty"`
	Description   string `json:"description,omitempty"`
}

type Contact struct {
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

type Testimonial struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position string    `json:"position,omitempty"`
	Company  string    `json:"company,omitempty"`
	Content  string    `json:"content"`
	Rating   int       `json:"rating,omitempty"`
}

type Customization struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
	Layout         string `json:"layout"`
	Spacing        string `json:"spacing"`
}

// NewPortfolio returns a portfolio for owner populated with the editor defaults.
func NewPortfolio(owner uuid.UUID) Portfolio {
	return Portfolio{
		UserID:   owner,
		Template: DefaultTemplate,
		Hero: Hero{
			Background: HeroBackground{
				Type:  "color",
				Color: "#808080",
				Gradient: Gradient{
					From:      "#4F3B78",
					To:        "#6B4F9E",
					Direction: "to bottom",
				},
				Overlay:        true,
				OverlayOpacity: 0.5,
			},
			CTAText: "View My Work",
			CTALink: "#projects",
		},
		About:          About{Title: "About Me", Skills: []string{}},
		Experience:     datatypes.JSONSlice[Experience]{},
		Certifications: datatypes.JSONSlice[Certification]{},
		Testimonials:   datatypes.JSONSlice[Testimonial]{},
		Theme:          ThemeLight,
		IsPublic:       true,
		Customization:  DefaultCustomization(),
	}
}

func DefaultCustomization() Customization {
	return Customization{
		PrimaryColor:   "#4F3B78",
		SecondaryColor: "#6B4F9E",
		FontFamily:     "Inter",
		Layout:         "modern",
		Spacing:        "comfortable",
	}
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FindTestimonial returns the index of the testimonial with id, or -1.
func (p *Portfolio) FindTestimonial(id uuid.UUID) int {
	for i, t := range p.Testimonials {
		if t.ID == id {
			return i
		}
	}
	return -1
}
