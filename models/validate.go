package models

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/portfolio-builder-backend/errs"
)

var (
	usernamePattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	userEmailPattern    = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	contactEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern        = regexp.MustCompile(`^\d{10}$`)
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	MaxBioLength      = 500
	maxLocationLength = 100
	maxDescLength     = 500
)

var (
	heroBackgroundTypes = []string{"color", "gradient", "image"}
	layouts             = []string{"classic", "modern", "minimal", "professional", "dark", "elegant", "futuristic"}
	spacings            = []string{"comfortable", "compact", "spacious"}
)

func ValidateUsername(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return errs.NewInvalidFieldError("username", "must be at least 3 characters long")
	}
	if !usernamePattern.MatchString(username) {
		return errs.NewInvalidFieldError("username", "can only contain letters, numbers, underscores and hyphens")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !userEmailPattern.MatchString(email) {
		return errs.NewInvalidFieldError("email", "please add a valid email")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errs.NewInvalidFieldError("password", "must be at least 6 characters long")
	}
	return nil
}

func ValidateSkills(skills []Skill) error {
	for _, s := range skills {
		if strings.TrimSpace(s.Name) == "" {
			return errs.NewMissingRequiredFieldError("skills.name")
		}
		if s.Proficiency != 0 && (s.Proficiency < 1 || s.Proficiency > 5) {
			return errs.NewInvalidFieldError("skills.proficiency", "must be between 1 and 5")
		}
	}
	return nil
}

// Validate enforces the field constraints of a portfolio document.
func (p *Portfolio) Validate() error {
	if !p.Template.Valid() {
		return errs.NewInvalidFieldError("template", "unknown template "+string(p.Template))
	}
	if !p.Theme.Valid() {
		return errs.NewInvalidFieldError("theme", "must be light or dark")
	}

	bg := p.Hero.Background
	if bg.Type != "" && !oneOf(bg.Type, heroBackgroundTypes) {
		return errs.NewInvalidFieldError("hero.background.type", "must be color, gradient or image")
	}
	if bg.OverlayOpacity < 0 || bg.OverlayOpacity > 1 {
		return errs.NewInvalidFieldError("hero.background.overlayOpacity", "must be between 0 and 1")
	}

	for _, e := range p.Experience {
		if err := e.validate(); err != nil {
			return err
		}
	}
	for _, c := range p.Certifications {
		if err := c.validate(); err != nil {
			return err
		}
	}
	for _, t := range p.Testimonials {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	if err := p.Contact.validate(); err != nil {
		return err
	}
	return p.Customization.Validate()
}

func (e Experience) validate() error {
	if len(strings.TrimSpace(e.Title)) < 2 {
		return errs.NewInvalidFieldError("experience.title", "must be at least 2 characters")
	}
	if len(strings.TrimSpace(e.Company)) < 2 {
		return errs.NewInvalidFieldError("experience.company", "must be at least 2 characters")
	}
	if e.StartDate.IsZero() {
		return errs.NewMissingRequiredFieldError("experience.startDate")
	}
	if e.EndDate.Before(e.StartDate) {
		return errs.NewInvalidFieldError("experience.endDate", "end date must be after start date")
	}
	if utf8.RuneCountInString(e.Location) > maxLocationLength {
		return errs.NewInvalidFieldError("experience.location", "must be at most 100 characters")
	}
	if utf8.RuneCountInString(e.Description) > maxDescLength {
		return errs.NewInvalidFieldError("experience.description", "must be at most 500 characters")
	}
	return nil
}

func (c Certification) validate() error {
	if len(strings.TrimSpace(c.Name)) < 2 {
		return errs.NewInvalidFieldError("certifications.name", "must be at least 2 characters")
	}
	if len(strings.TrimSpace(c.Issuer)) < 2 {
		return errs.NewInvalidFieldError("certifications.issuer", "must be at least 2 characters")
	}
	if c.IssueDate.IsZero() {
		return errs.NewMissingRequiredFieldError("certifications.issueDate")
	}
	if c.ExpiryDate.Before(c.IssueDate) {
		return errs.NewInvalidFieldError("certifications.expiryDate", "expiry date must be after issue date")
	}
	if c.CredentialURL != "" && !isURL(c.CredentialURL) {
		return errs.NewInvalidFieldError("certifications.credentialURL", "invalid URL")
	}
	if utf8.RuneCountInString(c.Description) > maxDescLength {
		return errs.NewInvalidFieldError("certifications.description", "must be at most 500 characters")
	}
	return nil
}

func (c Contact) validate() error {
	if c.Email != "" && !contactEmailPattern.MatchString(c.Email) {
		return errs.NewInvalidFieldError("contact.email", "valid email required")
	}
	if c.LinkedIn != "" && !isURL(c.LinkedIn) {
		return errs.NewInvalidFieldError("contact.linkedin", "invalid URL")
	}
	if c.GitHub != "" && !isURL(c.GitHub) {
		return errs.NewInvalidFieldError("contact.github", "invalid URL")
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		return errs.NewInvalidFieldError("contact.phone", "phone must be exactly 10 digits")
	}
	if utf8.RuneCountInString(c.Location) > maxLocationLength {
		return errs.NewInvalidFieldError("contact.location", "must be at most 100 characters")
	}
	return nil
}

func (t Testimonial) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errs.NewMissingRequiredFieldError("testimonials.name")
	}
	if strings.TrimSpace(t.Content) == "" {
		return errs.NewMissingRequiredFieldError("testimonials.content")
	}
	if t.Rating != 0 && (t.Rating < 1 || t.Rating > 5) {
		return errs.NewInvalidFieldError("testimonials.rating", "must be between 1 and 5")
	}
	return nil
}

func (c Customization) Validate() error {
	if c.Layout != "" && !oneOf(c.Layout, layouts) {
		return errs.NewInvalidFieldError("customization.layout", "unknown layout "+c.Layout)
	}
	if c.Spacing != "" && !oneOf(c.Spacing, spacings) {
		return errs.NewInvalidFieldError("customization.spacing", "must be comfortable, compact or spacious")
	}
	return nil
}

// Validate checks the fields a project needs before it is stored.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errs.NewMissingRequiredFieldError("description")
	}
	if p.EndDate.Before(p.StartDate) {
		return errs.NewInvalidFieldError("endDate", "end date must be after start date")
	}
	return nil
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
