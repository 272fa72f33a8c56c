package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// PublicPortfolio is what an anonymous reader receives. Both keys are always
// present; Portfolio is null when the user or the portfolio does not exist.
type PublicPortfolio struct {
	Portfolio *models.Portfolio `json:"portfolio"`
	Projects  []models.Project  `json:"projects"`
}

// PortfolioService decides which portfolio a request refers to and whether
// the caller may read or change it.
type PortfolioService struct {
	portfolios PortfolioStore
	projects   ProjectStore
	users      UserStore
	logger     zerolog.Logger
}

func NewPortfolioService(portfolios PortfolioStore, projects ProjectStore, users UserStore) *PortfolioService {
	return &PortfolioService{
		portfolios: portfolios,
		projects:   projects,
		users:      users,
		logger:     log.With().Str("service", "portfolio").Logger(),
	}
}

// GetOwn returns the caller's portfolio.
func (s *PortfolioService) GetOwn(ctx context.Context, ownerID uuid.UUID) (*models.Portfolio, error) {
	portfolio, err := s.portfolios.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "portfolio", err)
	}
	if portfolio == nil {
		return nil, errs.NewNotFoundError("portfolio not found")
	}
	return portfolio, nil
}

// GetPublic resolves username to its published portfolio and projects,
// counting one view per successful read.
func (s *PortfolioService) GetPublic(ctx context.Context, username string) (PublicPortfolio, error) {
	empty := PublicPortfolio{Projects: []models.Project{}}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return empty, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return empty, nil
	}

	var (
		portfolio *models.Portfolio
		projects  []models.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.portfolios.FindByOwner(gctx, user.ID)
		if err != nil {
			return errs.NewDatabaseError("find", "portfolio", err)
		}
		portfolio = p
		return nil
	})
	g.Go(func() error {
		ps, err := s.projects.FindAllByOwner(gctx, user.ID)
		if err != nil {
			return errs.NewDatabaseError("find", "projects", err)
		}
		projects = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return empty, err
	}
	if projects == nil {
		projects = []models.Project{}
	}

	if portfolio == nil {
		return PublicPortfolio{Projects: projects}, nil
	}
	if !portfolio.IsPublic {
		return empty, errs.NewPrivateResourceError("this portfolio is private")
	}

	views, err := s.portfolios.IncrementViews(ctx, portfolio.ID)
	if err != nil {
		return empty, errs.NewDatabaseError("count view of", "portfolio", err)
	}
	portfolio.Views = views
	owner := user.Summary()
	portfolio.Owner = &owner

	return PublicPortfolio{Portfolio: portfolio, Projects: projects}, nil
}

// Create stores the caller's first portfolio. body is overlaid on the editor
// defaults.
func (s *PortfolioService) Create(ctx context.Context, ownerID uuid.UUID, body []byte) (*models.Portfolio, error) {
	existing, err := s.portfolios.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "portfolio", err)
	}
	if existing != nil {
		return nil, errs.NewConflictError("portfolio already exists")
	}

	portfolio := models.NewPortfolio(ownerID)
	if err := overlay(body, &portfolio, "portfolio"); err != nil {
		return nil, err
	}
	portfolio.ID = uuid.Nil
	portfolio.UserID = ownerID
	portfolio.Views = 0
	portfolio.Owner = nil
	assignTestimonialIDs(&portfolio)
	normalizePortfolio(&portfolio)

	if err := portfolio.Validate(); err != nil {
		return nil, err
	}

	if err := s.portfolios.Add(ctx, &portfolio); err != nil {
		apiErr := errs.NewDatabaseError("create", "portfolio", err)
		if errs.IsConflict(apiErr) {
			// a concurrent create won the unique owner index
			return nil, errs.NewConflictError("portfolio already exists")
		}
		return nil, apiErr
	}

	s.logger.Info().Str("portfolioID", portfolio.ID.String()).Str("userID", ownerID.String()).Msg("portfolio created")
	return &portfolio, nil
}

// UpdateByIdOrOwner applies body to the portfolio named by maybeID when it
// exists and belongs to the requester. When no portfolio has that id, the
// requester's own portfolio is updated instead.
func (s *PortfolioService) UpdateByIdOrOwner(ctx context.Context, requesterID uuid.UUID, maybeID string, body []byte) (*models.Portfolio, error) {
	var target *models.Portfolio

	if id, err := uuid.Parse(maybeID); err == nil {
		target, err = s.portfolios.FindByID(ctx, id)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "portfolio", err)
		}
	}

	if target != nil {
		if target.UserID != requesterID {
			s.logger.Warn().
				Str("portfolioID", target.ID.String()).
				Str("requesterID", requesterID.String()).
				Msg("rejected update of foreign portfolio")
			return nil, errs.NewNotOwnerError("not authorized to update this portfolio")
		}
	} else {
		var err error
		target, err = s.portfolios.FindByOwner(ctx, requesterID)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "portfolio", err)
		}
		if target == nil {
			return nil, errs.NewNotFoundError("portfolio not found")
		}
	}

	return s.applyPatch(ctx, target, body)
}

// UpdateTheme replaces the light/dark theme of the caller's portfolio.
func (s *PortfolioService) UpdateTheme(ctx context.Context, ownerID uuid.UUID, theme string) (*models.Portfolio, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, errs.NewMissingRequiredFieldError("theme")
	}
	if !models.Theme(theme).Valid() {
		return nil, errs.NewInvalidFieldError("theme", "must be light or dark")
	}

	portfolio, err := s.GetOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	portfolio.Theme = models.Theme(theme)
	return s.save(ctx, portfolio)
}

// UpdateCustomization shallow-merges patch over the current customization.
func (s *PortfolioService) UpdateCustomization(ctx context.Context, ownerID uuid.UUID, patch []byte) (*models.Portfolio, error) {
	portfolio, err := s.GetOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := overlay(patch, &portfolio.Customization, "customization"); err != nil {
		return nil, err
	}
	if err := portfolio.Customization.Validate(); err != nil {
		return nil, err
	}
	return s.save(ctx, portfolio)
}

// AddTestimonial appends a testimonial to the caller's portfolio.
func (s *PortfolioService) AddTestimonial(ctx context.Context, ownerID uuid.UUID, body []byte) (*models.Portfolio, error) {
	portfolio, err := s.GetOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var testimonial models.Testimonial
	if err := overlay(body, &testimonial, "testimonial"); err != nil {
		return nil, err
	}
	testimonial.ID = uuid.New()
	if err := testimonial.Validate(); err != nil {
		return nil, err
	}

	portfolio.Testimonials = append(portfolio.Testimonials, testimonial)
	return s.save(ctx, portfolio)
}

// UpdateTestimonial merges body into one testimonial of the caller's portfolio.
func (s *PortfolioService) UpdateTestimonial(ctx context.Context, ownerID uuid.UUID, testimonialID string, body []byte) (*models.Portfolio, error) {
	portfolio, idx, err := s.findTestimonial(ctx, ownerID, testimonialID)
	if err != nil {
		return nil, err
	}

	updated := portfolio.Testimonials[idx]
	if err := overlay(body, &updated, "testimonial"); err != nil {
		return nil, err
	}
	updated.ID = portfolio.Testimonials[idx].ID
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	portfolio.Testimonials[idx] = updated
	return s.save(ctx, portfolio)
}

// DeleteTestimonial removes one testimonial from the caller's portfolio.
func (s *PortfolioService) DeleteTestimonial(ctx context.Context, ownerID uuid.UUID, testimonialID string) (*models.Portfolio, error) {
	portfolio, idx, err := s.findTestimonial(ctx, ownerID, testimonialID)
	if err != nil {
		return nil, err
	}

	remaining := make(datatypes.JSONSlice[models.Testimonial], 0, len(portfolio.Testimonials)-1)
	remaining = append(remaining, portfolio.Testimonials[:idx]...)
	remaining = append(remaining, portfolio.Testimonials[idx+1:]...)
	portfolio.Testimonials = remaining
	return s.save(ctx, portfolio)
}

func (s *PortfolioService) findTestimonial(ctx context.Context, ownerID uuid.UUID, rawID string) (*models.Portfolio, int, error) {
	portfolio, err := s.GetOwn(ctx, ownerID)
	if err != nil {
		return nil, -1, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, -1, errs.NewNotFoundError("testimonial not found")
	}
	idx := portfolio.FindTestimonial(id)
	if idx < 0 {
		return nil, -1, errs.NewNotFoundError("testimonial not found")
	}
	return portfolio, idx, nil
}

// applyPatch overlays body on target. Identity, ownership, the view counter
// and the creation time are restored after decoding.
func (s *PortfolioService) applyPatch(ctx context.Context, target *models.Portfolio, body []byte) (*models.Portfolio, error) {
	fields, err := patchFields(body, "portfolio")
	if err != nil {
		return nil, err
	}

	// json reuses slice elements in place; start arrays from scratch so a
	// shorter replacement cannot inherit stale fields.
	if _, ok := fields["experience"]; ok {
		target.Experience = nil
	}
	if _, ok := fields["certifications"]; ok {
		target.Certifications = nil
	}
	if _, ok := fields["testimonials"]; ok {
		target.Testimonials = nil
	}

	keep := *target
	if err := overlay(body, target, "portfolio"); err != nil {
		return nil, err
	}
	target.ID = keep.ID
	target.UserID = keep.UserID
	target.Views = keep.Views
	target.CreatedAt = keep.CreatedAt
	target.Owner = nil
	assignTestimonialIDs(target)
	normalizePortfolio(target)

	if err := target.Validate(); err != nil {
		return nil, err
	}
	return s.save(ctx, target)
}

func (s *PortfolioService) save(ctx context.Context, portfolio *models.Portfolio) (*models.Portfolio, error) {
	if err := s.portfolios.Update(ctx, portfolio); err != nil {
		return nil, errs.NewDatabaseError("update", "portfolio", err)
	}

	updated, err := s.portfolios.FindByID(ctx, portfolio.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find updated", "portfolio", err)
	}
	if updated == nil {
		return nil, errs.NewDatabaseError("find updated", "portfolio", errors.New("portfolio vanished after update"))
	}
	return updated, nil
}

func assignTestimonialIDs(p *models.Portfolio) {
	for i := range p.Testimonials {
		if p.Testimonials[i].ID == uuid.Nil {
			p.Testimonials[i].ID = uuid.New()
		}
	}
}

// normalizePortfolio replaces nil collections so they serialize as [].
func normalizePortfolio(p *models.Portfolio) {
	if p.Experience == nil {
		p.Experience = datatypes.JSONSlice[models.Experience]{}
	}
	if p.Certifications == nil {
		p.Certifications = datatypes.JSONSlice[models.Certification]{}
	}
	if p.Testimonials == nil {
		p.Testimonials = datatypes.JSONSlice[models.Testimonial]{}
	}
	if p.About.Skills == nil {
		p.About.Skills = []string{}
	}
}
