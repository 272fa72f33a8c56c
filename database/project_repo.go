package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAllByOwner returns every project of userID, oldest first
func (r *ProjectRepo) FindAllByOwner(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).
		Model(project).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(project).Error
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id).Error
}
