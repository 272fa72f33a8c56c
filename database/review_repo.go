package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"gorm.io/gorm"
)

type ReviewRepo struct {
	db    *gorm.DB
	users *UserRepo
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db, users: NewUserRepo(db)}
}

// FindAll returns every review, newest first, with its author attached
func (r *ReviewRepo) FindAll(ctx context.Context) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.UserID)
	}
	authors, err := r.users.FindSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if author, ok := authors[reviews[i].UserID]; ok {
			reviews[i].Author = &author
		}
	}
	return reviews, nil
}

// FindByID returns a review by its ID, or nil
func (r *ReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Add inserts a new review into the database
func (r *ReviewRepo) Add(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Delete removes a review from the database by id
func (r *ReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id).Error
}
