package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns the user with id, or nil when there is none
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail returns the user registered with email, or nil
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByUsername returns the user with username, or nil
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindSummaries returns name and username for each of ids
func (r *UserRepo) FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.OwnerSummary, error) {
	out := make(map[uuid.UUID]models.OwnerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).Select("id", "name", "username").Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

// Add inserts a new user into the database
func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update saves every profile field of user
func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).Select("*").Omit("id", "created_at").Updates(user).Error
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
