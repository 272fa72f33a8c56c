package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-builder-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
}

func newProjectHandler(projects *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// getAllProjects lists the caller's projects
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.projects.List(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a single project owned by the caller
// @Tags Projects
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Get(r.Context(), userID, chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Tags Projects
// @Accept json
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, err := readBody(w, r, "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Create(r.Context(), userID, body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", project.ID.String()).Msg("Project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject merges the request body into an existing project
// @Tags Projects
// @Accept json
// @Router /projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, err := readBody(w, r, "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Update(r.Context(), userID, chi.URLParam(r, "projectID"), body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project
// @Tags Projects
// @Router /projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		id, err := h.projects.Delete(r.Context(), userID, chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", id.String()).Msg("Project deleted")
		h.responder.WriteJSON(w, map[string]any{"id": id})
	}
}

// addProjectImages appends images to a project
// @Tags Projects
// @Router /projects/{projectID}/images [post]
func (h projectHandler) addProjectImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, err := readBody(w, r, "images")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		images, err := services.DecodeImages(body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.AddImages(r.Context(), userID, chi.URLParam(r, "projectID"), images)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// removeProjectImage drops one image from a project
// @Tags Projects
// @Router /projects/{projectID}/images/{imageID} [delete]
func (h projectHandler) removeProjectImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.RemoveImage(r.Context(), userID, chi.URLParam(r, "projectID"), chi.URLParam(r, "imageID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}
