package api

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rpupo63/portfolio-builder-backend/render"
	"github.com/rpupo63/portfolio-builder-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// publicHandler serves the rendered portfolio pages and health checks.
type publicHandler struct {
	responder   Responder
	logger      zerolog.Logger
	portfolios  *services.PortfolioService
	renderer    *render.Renderer
	metrics     *metrics
	health      func(context.Context) error
	startupTime time.Time
}

func newPublicHandler(portfolios *services.PortfolioService, renderer *render.Renderer, m *metrics, health func(context.Context) error, startupTime time.Time) publicHandler {
	logger := log.With().Str("handlerName", "publicHandler").Logger()

	return publicHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		portfolios:  portfolios,
		renderer:    renderer,
		metrics:     m,
		health:      health,
		startupTime: startupTime,
	}
}

// renderPortfolio renders the public page with the portfolio's own template.
// @Router /p/{username} [get]
func (h publicHandler) renderPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		var (
			buf    bytes.Buffer
			status = http.StatusOK
		)
		res, err := h.portfolios.GetPublic(r.Context(), username)
		switch {
		case errs.IsPrivateResource(err):
			status = http.StatusForbidden
			err = h.renderer.Private(&buf, username)
		case err != nil:
			h.responder.WriteError(w, err)
			return
		case res.Portfolio == nil:
			err = h.renderer.Empty(&buf, username)
		default:
			h.metrics.recordPublicView()
			err = h.renderer.Portfolio(&buf, res.Portfolio, res.Projects)
		}
		if err != nil {
			h.logger.Error().Err(err).Str("username", username).Msg("failed to render portfolio")
			h.responder.WriteError(w, errs.NewInternalError("failed to render portfolio"))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.Error().Err(err).Msg("error writing page")
		}
	}
}

// @Router /healthz [get]
func (h publicHandler) healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if h.health != nil {
			if err := h.health(ctx); err != nil {
				h.logger.Warn().Err(err).Msg("health check failed")
				h.responder.WriteError(w, errs.NewUnavailableError("database unavailable"))
				return
			}
		}
		h.responder.WriteJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
