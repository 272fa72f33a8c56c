package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-builder-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploads   *services.UploadService
}

func newUploadHandler(uploads *services.UploadService) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploads:   uploads,
	}
}

// presign hands out a short lived PUT URL for an avatar, resume or project image.
// @Router /uploads/presign [post]
func (h uploadHandler) presign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in struct {
			Kind        string `json:"kind"`
			ContentType string `json:"contentType"`
		}
		if err := decodeJSON(w, r, "upload", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		upload, err := h.uploads.Presign(r.Context(), userID, in.Kind, in.ContentType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, upload)
	}
}
