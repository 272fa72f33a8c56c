package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/models"
)

// Find methods return (nil, nil) when no record matches.

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type PortfolioStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Portfolio, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) (*models.Portfolio, error)
	Add(ctx context.Context, portfolio *models.Portfolio) error
	Update(ctx context.Context, portfolio *models.Portfolio) error
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}

type ProjectStore interface {
	FindAllByOwner(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewStore interface {
	FindAll(ctx context.Context) ([]models.Review, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Add(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
