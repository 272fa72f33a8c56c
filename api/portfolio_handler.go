package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-builder-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type portfolioHandler struct {
	responder  Responder
	logger     zerolog.Logger
	portfolios *services.PortfolioService
	metrics    *metrics
}

func newPortfolioHandler(portfolios *services.PortfolioService, m *metrics) portfolioHandler {
	logger := log.With().Str("handlerName", "portfolioHandler").Logger()

	return portfolioHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		portfolios: portfolios,
		metrics:    m,
	}
}

// getOwnPortfolio returns the caller's portfolio for the editor.
// @Router /portfolios [get]
func (h portfolioHandler) getOwnPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		portfolio, err := h.portfolios.GetOwn(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}

// getPublicPortfolio is the anonymous read. Unknown users get an empty body, not a 404.
// @Router /portfolios/public/{username} [get]
func (h portfolioHandler) getPublicPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		res, err := h.portfolios.GetPublic(r.Context(), username)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if res.Portfolio != nil {
			h.metrics.recordPublicView()
		}
		h.responder.WriteJSON(w, res)
	}
}

// @Router /portfolios [post]
func (h portfolioHandler) createPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, err := readBody(w, r, "portfolio")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		portfolio, err := h.portfolios.Create(r.Context(), userID, body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, portfolio)
	}
}

// updatePortfolio updates the portfolio named in the path, or the caller's
// own when no portfolio has that id.
// @Router /portfolios/{portfolioID} [put]
func (h portfolioHandler) updatePortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, err := readBody(w, r, "portfolio")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		portfolio, err := h.portfolios.UpdateByIdOrOwner(r.Context(), userID, chi.URLParam(r, "portfolioID"), body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}

// @Router /portfolios/theme [put]
func (h portfolioHandler) updateTheme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in struct {
			Theme string `json:"theme"`
		}
		if err := decodeJSON(w, r, "theme", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		portfolio, err := h.portfolios.UpdateTheme(r.Context(), userID, in.Theme)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}

// @Router /portfolios/customization [put]
func (h portfolioHandler) updateCustomization() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, err := readBody(w, r, "customization")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		portfolio, err := h.portfolios.UpdateCustomization(r.Context(), userID, body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}

// @Router /portfolios/testimonials [post]
func (h portfolioHandler) addTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, err := readBody(w, r, "testimonial")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		portfolio, err := h.portfolios.AddTestimonial(r.Context(), userID, body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, portfolio)
	}
}

// @Router /portfolios/testimonials/{testimonialID} [put]
func (h portfolioHandler) updateTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, err := readBody(w, r, "testimonial")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		portfolio, err := h.portfolios.UpdateTestimonial(r.Context(), userID, chi.URLParam(r, "testimonialID"), body)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}

// @Router /portfolios/testimonials/{testimonialID} [delete]
func (h portfolioHandler) deleteTestimonial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		portfolio, err := h.portfolios.DeleteTestimonial(r.Context(), userID, chi.URLParam(r, "testimonialID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, portfolio)
	}
}
