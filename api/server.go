package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-builder-backend/config"
	"github.com/rpupo63/portfolio-builder-backend/render"
	"github.com/rpupo63/portfolio-builder-backend/services"
	"github.com/rs/zerolog/log"
)

// Dependencies are the process-wide collaborators the handlers share. They are
// built once in main.
type Dependencies struct {
	Users      *services.UserService
	Portfolios *services.PortfolioService
	Projects   *services.ProjectService
	Reviews    *services.ReviewService
	Uploads    *services.UploadService
	Renderer   *render.Renderer
	Limiter    RateLimiter
	Health     func(context.Context) error
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router, err := newRouter(deps, withConfig(c), withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 30)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	if deps.Renderer == nil {
		renderer, err := render.New()
		if err != nil {
			return nil, err
		}
		deps.Renderer = renderer
	}
	if deps.Uploads == nil {
		deps.Uploads = services.NewUploadService(nil, "", "")
	}

	m := newMetrics()

	chiRouter := chi.NewRouter()
	// Forwarding headers are client controlled unless a proxy in front
	// overwrites them, and rate limiting keys on the resulting address.
	if config.GetBool(router.config, "TRUST_PROXY_HEADERS", false) {
		chiRouter.Use(middleware.RealIP)
	}
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(m.middleware)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	handlers := initializeHandlers(deps, m, router.startupTime)
	authMiddleware := newAuthMiddleware(deps.Users)

	setupRoutes(chiRouter, handlers, authMiddleware, deps.Limiter, m)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
