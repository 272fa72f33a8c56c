package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ReviewService struct {
	reviews ReviewStore
	logger  zerolog.Logger
}

func NewReviewService(reviews ReviewStore) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		logger:  log.With().Str("service", "review").Logger(),
	}
}

// List returns all reviews, newest first, with their authors attached.
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.reviews.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "reviews", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

func (s *ReviewService) Create(ctx context.Context, authorID uuid.UUID, quote string) (*models.Review, error) {
	quote = strings.TrimSpace(quote)
	if quote == "" {
		return nil, errs.NewMissingRequiredFieldError("quote")
	}
	if n := len(strings.Fields(quote)); n > models.MaxReviewWords {
		return nil, errs.NewInvalidFieldError("quote", fmt.Sprintf("must be at most %d words, got %d", models.MaxReviewWords, n))
	}

	review := models.Review{UserID: authorID, Quote: quote}
	if err := s.reviews.Add(ctx, &review); err != nil {
		return nil, errs.NewDatabaseError("create", "review", err)
	}
	return &review, nil
}

// Delete removes a review written by requesterID.
func (s *ReviewService) Delete(ctx context.Context, requesterID uuid.UUID, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return errs.NewNotFoundError("review not found")
	}

	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("find", "review", err)
	}
	if review == nil {
		return errs.NewNotFoundError("review not found")
	}
	if review.UserID != requesterID {
		return errs.NewNotOwnerError("not authorized to delete this review")
	}

	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return errs.NewDatabaseError("delete", "review", err)
	}
	return nil
}
