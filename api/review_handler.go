package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-builder-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type reviewHandler struct {
	responder Responder
	logger    zerolog.Logger
	reviews   *services.ReviewService
}

func newReviewHandler(reviews *services.ReviewService) reviewHandler {
	logger := log.With().Str("handlerName", "reviewHandler").Logger()

	return reviewHandler{
		responder: NewResponder(logger),
		logger:    logger,
		reviews:   reviews,
	}
}

// @Router /reviews [get]
func (h reviewHandler) getReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := h.reviews.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, reviews)
	}
}

// @Router /reviews [post]
func (h reviewHandler) createReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in struct {
			Quote string `json:"quote"`
		}
		if err := decodeJSON(w, r, "review", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		review, err := h.reviews.Create(r.Context(), userID, in.Quote)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, review)
	}
}

// @Router /reviews/{reviewID} [delete]
func (h reviewHandler) deleteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		reviewID := chi.URLParam(r, "reviewID")
		if err := h.reviews.Delete(r.Context(), userID, reviewID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{"message": "review removed", "id": reviewID})
	}
}
