package api

import (
	"encoding/json"
	"net/http"

	"github.com/rpupo63/portfolio-builder-backend/models"
	"github.com/rpupo63/portfolio-builder-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *services.UserService
}

func newUserHandler(users *services.UserService) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
	}
}

// register creates an account and returns it with a bearer token.
// @Router /users/register [post]
func (h userHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.RegisterInput
		if err := decodeJSON(w, r, "register", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		res, err := h.users.Register(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, res)
	}
}

// @Router /users/login [post]
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.LoginInput
		if err := decodeJSON(w, r, "login", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		res, err := h.users.Login(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, res)
	}
}

// @Router /users/me [get]
func (h userHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.Me(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// @Router /users/profile [put]
func (h userHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.ProfileInput
		if err := decodeJSON(w, r, "profile", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.UpdateProfile(r.Context(), userID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// @Router /users/avatar [put]
func (h userHandler) updateAvatar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in struct {
			AvatarURL string `json:"avatarUrl"`
		}
		if err := decodeJSON(w, r, "avatar", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.UpdateAvatar(r.Context(), userID, in.AvatarURL)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// @Router /users/social-links [put]
func (h userHandler) updateSocialLinks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in struct {
			SocialLinks json.RawMessage `json:"socialLinks"`
		}
		if err := decodeJSON(w, r, "social links", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.UpdateSocialLinks(r.Context(), userID, in.SocialLinks)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// @Router /users/skills [put]
func (h userHandler) updateSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in struct {
			Skills []models.Skill `json:"skills"`
		}
		if err := decodeJSON(w, r, "skills", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.UpdateSkills(r.Context(), userID, in.Skills)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// @Router /users/resume [post]
func (h userHandler) updateResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in struct {
			ResumeURL string `json:"resumeUrl"`
		}
		if err := decodeJSON(w, r, "resume", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.UpdateResume(r.Context(), userID, in.ResumeURL)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// resetPassword is public; the email domain check stands in for a mailed link.
// @Router /users/reset-password [post]
func (h userHandler) resetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ResetPasswordInput
		if err := decodeJSON(w, r, "reset password", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		userID, err := h.users.ResetPassword(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{
			"message": "Password reset successful",
			"userId":  userID,
		})
	}
}
