package api

import "time"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler      userHandler
	portfolioHandler portfolioHandler
	projectHandler   projectHandler
	reviewHandler    reviewHandler
	uploadHandler    uploadHandler
	publicHandler    publicHandler
	metrics          *metrics
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, m *metrics, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		userHandler:      newUserHandler(deps.Users),
		portfolioHandler: newPortfolioHandler(deps.Portfolios, m),
		projectHandler:   newProjectHandler(deps.Projects),
		reviewHandler:    newReviewHandler(deps.Reviews),
		uploadHandler:    newUploadHandler(deps.Uploads),
		publicHandler:    newPublicHandler(deps.Portfolios, deps.Renderer, m, deps.Health, startupTime),
		metrics:          m,
	}
}
