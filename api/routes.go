package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public and the authenticated routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limiter RateLimiter, m *metrics) {
	r.Get("/healthz", handlers.publicHandler.healthz())
	r.Handle("/metrics", m.handler())

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware)

		r.Post("/users/register", withRateLimit(limiter, m, "register", rateLimitRegister, handlers.userHandler.register()))
		r.Post("/users/login", withRateLimit(limiter, m, "login", rateLimitLogin, handlers.userHandler.login()))
		r.Post("/users/reset-password", withRateLimit(limiter, m, "reset-password", rateLimitResetPassword, handlers.userHandler.resetPassword()))

		r.Get("/portfolios/public/{username}", handlers.portfolioHandler.getPublicPortfolio())
		r.Get("/p/{username}", handlers.publicHandler.renderPortfolio())

		r.Get("/reviews", handlers.reviewHandler.getReviews())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		// User endpoints
		r.Get("/users/me", handlers.userHandler.me())
		r.Put("/users/profile", handlers.userHandler.updateProfile())
		r.Put("/users/avatar", handlers.userHandler.updateAvatar())
		r.Put("/users/social-links", handlers.userHandler.updateSocialLinks())
		r.Put("/users/skills", handlers.userHandler.updateSkills())
		r.Post("/users/resume", handlers.userHandler.updateResume())

		// Portfolio endpoints
		r.Get("/portfolios", handlers.portfolioHandler.getOwnPortfolio())
		r.Post("/portfolios", handlers.portfolioHandler.createPortfolio())
		r.Put("/portfolios/theme", handlers.portfolioHandler.updateTheme())
		r.Put("/portfolios/customization", handlers.portfolioHandler.updateCustomization())
		r.Post("/portfolios/testimonials", handlers.portfolioHandler.addTestimonial())
		r.Put("/portfolios/testimonials/{testimonialID}", handlers.portfolioHandler.updateTestimonial())
		r.Delete("/portfolios/testimonials/{testimonialID}", handlers.portfolioHandler.deleteTestimonial())
		r.Put("/portfolios/{portfolioID}", handlers.portfolioHandler.updatePortfolio())

		// Project endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())
		r.Post("/projects/{projectID}/images", handlers.projectHandler.addProjectImages())
		r.Delete("/projects/{projectID}/images/{imageID}", handlers.projectHandler.removeProjectImage())

		// Review endpoints
		r.Post("/reviews", handlers.reviewHandler.createReview())
		r.Delete("/reviews/{reviewID}", handlers.reviewHandler.deleteReview())

		// Uploads
		r.Post("/uploads/presign", handlers.uploadHandler.presign())
	})
}
