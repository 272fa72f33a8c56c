package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PortfolioRepo struct {
	db *gorm.DB
}

func NewPortfolioRepo(db *gorm.DB) *PortfolioRepo {
	return &PortfolioRepo{db}
}

// FindByID returns the portfolio with id, or nil when there is none
func (r *PortfolioRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Portfolio, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByOwner returns the portfolio owned by userID, or nil
func (r *PortfolioRepo) FindByOwner(ctx context.Context, userID uuid.UUID) (*models.Portfolio, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

// Add inserts a new portfolio. A second portfolio for the same owner fails
// with gorm.ErrDuplicatedKey through the unique owner index.
func (r *PortfolioRepo) Add(ctx context.Context, portfolio *models.Portfolio) error {
	return r.db.WithContext(ctx).Create(portfolio).Error
}

// Update writes the editable fields of portfolio. The owner, the view counter
// and the creation time are never touched here.
func (r *PortfolioRepo) Update(ctx context.Context, portfolio *models.Portfolio) error {
	return r.db.WithContext(ctx).
		Model(portfolio).
		Select("*").
		Omit("id", "user_id", "views", "created_at").
		Updates(portfolio).Error
}

// IncrementViews bumps the counter in place and returns the new value.
func (r *PortfolioRepo) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	result := models.Portfolio{ID: id}
	tx := r.db.WithContext(ctx).
		Model(&result).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "views"}}}).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return result.Views, nil
}

func (r *PortfolioRepo) findOne(ctx context.Context, query string, arg any) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := r.db.WithContext(ctx).Where(query, arg).First(&portfolio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}
