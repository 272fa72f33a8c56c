package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rpupo63/portfolio-builder-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type ProjectService struct {
	projects ProjectStore
	logger   zerolog.Logger
}

func NewProjectService(projects ProjectStore) *ProjectService {
	return &ProjectService{
		projects: projects,
		logger:   log.With().Str("service", "project").Logger(),
	}
}

// NewImage is one entry of an add-images request.
type NewImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// List returns every project owned by ownerID, oldest first.
func (s *ProjectService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	projects, err := s.projects.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// owned loads the project rawID and checks that requesterID owns it. Every
// single-record project operation goes through here.
func (s *ProjectService) owned(ctx context.Context, requesterID uuid.UUID, rawID string) (*models.Project, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errs.NewNotFoundError("project not found")
	}

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError("project not found")
	}
	if project.UserID != requesterID {
		s.logger.Warn().
			Str("projectID", project.ID.String()).
			Str("requesterID", requesterID.String()).
			Msg("rejected access to foreign project")
		return nil, errs.NewNotOwnerError("not authorized")
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, requesterID uuid.UUID, id string) (*models.Project, error) {
	return s.owned(ctx, requesterID, id)
}

func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, body []byte) (*models.Project, error) {
	var project models.Project
	if err := overlay(body, &project, "project"); err != nil {
		return nil, err
	}
	project.ID = uuid.Nil
	project.UserID = ownerID
	for i := range project.Images {
		project.Images[i].ID = uuid.New()
	}
	normalizeProject(&project)

	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := s.projects.Add(ctx, &project); err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	s.logger.Info().Str("projectID", project.ID.String()).Str("userID", ownerID.String()).Msg("project created")
	return &project, nil
}

// Update merges body into the project. The owner and the id cannot change.
func (s *ProjectService) Update(ctx context.Context, requesterID uuid.UUID, id string, body []byte) (*models.Project, error) {
	project, err := s.owned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	fields, err := patchFields(body, "project")
	if err != nil {
		return nil, err
	}
	if _, ok := fields["images"]; ok {
		project.Images = nil
	}
	if _, ok := fields["technologies"]; ok {
		project.Technologies = nil
	}

	keep := *project
	if err := overlay(body, project, "project"); err != nil {
		return nil, err
	}
	project.ID = keep.ID
	project.UserID = keep.UserID
	project.CreatedAt = keep.CreatedAt
	for i := range project.Images {
		if project.Images[i].ID == uuid.Nil {
			project.Images[i].ID = uuid.New()
		}
	}
	normalizeProject(project)

	if err := project.Validate(); err != nil {
		return nil, err
	}
	return s.save(ctx, project)
}

// Delete removes the project and returns its id.
func (s *ProjectService) Delete(ctx context.Context, requesterID uuid.UUID, id string) (uuid.UUID, error) {
	project, err := s.owned(ctx, requesterID, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return uuid.Nil, errs.NewDatabaseError("delete", "project", err)
	}
	s.logger.Info().Str("projectID", project.ID.String()).Msg("project deleted")
	return project.ID, nil
}

// AddImages appends images to the project, giving each a fresh id.
func (s *ProjectService) AddImages(ctx context.Context, requesterID uuid.UUID, id string, images []NewImage) (*models.Project, error) {
	project, err := s.owned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, errs.NewBadRequestError("please provide images array")
	}

	added := make([]models.ProjectImage, 0, len(images))
	for _, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			return nil, errs.NewMissingRequiredFieldError("images.url")
		}
		added = append(added, models.ProjectImage{ID: uuid.New(), URL: img.URL, Caption: img.Caption})
	}
	project.Images = append(project.Images, added...)
	return s.save(ctx, project)
}

// RemoveImage drops the image with imageID. An unknown image id leaves the
// project as it was.
func (s *ProjectService) RemoveImage(ctx context.Context, requesterID uuid.UUID, id, imageID string) (*models.Project, error) {
	project, err := s.owned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	remaining := make(datatypes.JSONSlice[models.ProjectImage], 0, len(project.Images))
	for _, img := range project.Images {
		if img.ID.String() != imageID {
			remaining = append(remaining, img)
		}
	}
	project.Images = remaining
	return s.save(ctx, project)
}

// DecodeImages reads the body of an add-images request.
func DecodeImages(body []byte) ([]NewImage, error) {
	var payload struct {
		Images []NewImage `json:"images"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, errs.NewMalformedPayloadError("images", err)
		}
	}
	return payload.Images, nil
}

func (s *ProjectService) save(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("update", "project", err)
	}
	updated, err := s.projects.FindByID(ctx, project.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find updated", "project", err)
	}
	if updated == nil {
		return nil, errs.NewNotFoundError("project not found")
	}
	return updated, nil
}

func normalizeProject(p *models.Project) {
	if p.Technologies == nil {
		p.Technologies = datatypes.JSONSlice[string]{}
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[models.ProjectImage]{}
	}
}
