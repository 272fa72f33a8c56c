// Package memory is a process-local store with the same contract as the
// gorm repositories. It backs DB_TYPE=memory and the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Store struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]models.User
	portfolios map[uuid.UUID]models.Portfolio
	projects   map[uuid.UUID]models.Project
	reviews    map[uuid.UUID]models.Review
	seq        int64
	now        func() time.Time
}

func New() *Store {
	return &Store{
		users:      make(map[uuid.UUID]models.User),
		portfolios: make(map[uuid.UUID]models.Portfolio),
		projects:   make(map[uuid.UUID]models.Project),
		reviews:    make(map[uuid.UUID]models.Review),
		now:        time.Now,
	}
}

// Accessor methods for each repository

func (s *Store) UserRepo() *UserRepo           { return &UserRepo{s} }
func (s *Store) PortfolioRepo() *PortfolioRepo { return &PortfolioRepo{s} }
func (s *Store) ProjectRepo() *ProjectRepo     { return &ProjectRepo{s} }
func (s *Store) ReviewRepo() *ReviewRepo       { return &ReviewRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// tick returns strictly increasing timestamps so ordering by creation time is
// stable even when the clock does not advance between calls.
func (s *Store) tick() time.Time {
	s.seq++
	return s.now().Add(time.Duration(s.seq) * time.Microsecond)
}

type UserRepo struct{ s *Store }

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.OwnerSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[uuid.UUID]models.OwnerSummary, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for id, other := range r.s.users {
		if id != user.ID && (other.Email == user.Email || other.Username == user.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.s.tick()
	r.s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *UserRepo) find(match func(models.User) bool) *models.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

type PortfolioRepo struct{ s *Store }

func (r *PortfolioRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Portfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.portfolios[id]
	if !ok {
		return nil, nil
	}
	return clonePortfolio(p), nil
}

func (r *PortfolioRepo) FindByOwner(ctx context.Context, userID uuid.UUID) (*models.Portfolio, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.portfolios {
		if p.UserID == userID {
			return clonePortfolio(p), nil
		}
	}
	return nil, nil
}

// Add enforces the one-portfolio-per-owner index.
func (r *PortfolioRepo) Add(ctx context.Context, portfolio *models.Portfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.portfolios {
		if p.UserID == portfolio.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if err := portfolio.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.s.tick()
	portfolio.CreatedAt, portfolio.UpdatedAt = now, now
	r.s.portfolios[portfolio.ID] = *clonePortfolio(*portfolio)
	return nil
}

func (r *PortfolioRepo) Update(ctx context.Context, portfolio *models.Portfolio) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.portfolios[portfolio.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *clonePortfolio(*portfolio)
	next.UserID = existing.UserID
	next.Views = existing.Views
	next.CreatedAt = existing.CreatedAt
	next.UpdatedAt = r.s.tick()
	next.Owner = nil
	r.s.portfolios[portfolio.ID] = next
	portfolio.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *PortfolioRepo) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.portfolios[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	p.Views++
	r.s.portfolios[id] = p
	return p.Views, nil
}

type ProjectRepo struct{ s *Store }

func (r *ProjectRepo) FindAllByOwner(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	projects := []models.Project{}
	for _, p := range r.s.projects {
		if p.UserID == userID {
			projects = append(projects, *cloneProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.Before(projects[j].CreatedAt) })
	return projects, nil
}

func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	return cloneProject(p), nil
}

func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := project.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.s.tick()
	project.CreatedAt, project.UpdatedAt = now, now
	r.s.projects[project.ID] = *cloneProject(*project)
	return nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.projects[project.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *cloneProject(*project)
	next.UserID = existing.UserID
	next.CreatedAt = existing.CreatedAt
	next.UpdatedAt = r.s.tick()
	r.s.projects[project.ID] = next
	project.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.projects, id)
	return nil
}

type ReviewRepo struct{ s *Store }

func (r *ReviewRepo) FindAll(ctx context.Context) ([]models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reviews := make([]models.Review, 0, len(r.s.reviews))
	for _, review := range r.s.reviews {
		if u, ok := r.s.users[review.UserID]; ok {
			author := u.Summary()
			review.Author = &author
		}
		reviews = append(reviews, review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}

func (r *ReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	return &review, nil
}

func (r *ReviewRepo) Add(ctx context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := review.BeforeCreate(nil); err != nil {
		return err
	}
	review.CreatedAt = r.s.tick()
	stored := *review
	stored.Author = nil
	r.s.reviews[review.ID] = stored
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reviews, id)
	return nil
}

func cloneUser(u models.User) *models.User {
	u.Skills = append(datatypes.JSONSlice[models.Skill]{}, u.Skills...)
	return &u
}

func cloneProject(p models.Project) *models.Project {
	p.Technologies = append(datatypes.JSONSlice[string]{}, p.Technologies...)
	p.Images = append(datatypes.JSONSlice[models.ProjectImage]{}, p.Images...)
	return &p
}

func clonePortfolio(p models.Portfolio) *models.Portfolio {
	p.About.Skills = append([]string{}, p.About.Skills...)
	p.Experience = append(datatypes.JSONSlice[models.Experience]{}, p.Experience...)
	p.Certifications = append(datatypes.JSONSlice[models.Certification]{}, p.Certifications...)
	p.Testimonials = append(datatypes.JSONSlice[models.Testimonial]{}, p.Testimonials...)
	if p.Owner != nil {
		owner := *p.Owner
		p.Owner = &owner
	}
	return &p
}
