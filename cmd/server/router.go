package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mnemolab/mnemo-api/internal/api"
	apiMiddleware "github.com/mnemolab/mnemo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.jwtService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	quizHandler := api.NewQuizHandler(app.reviewService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Token minting (public; callers are externally verified)
		r.Post("/auth/token", authHandler.MintToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Study session endpoints
			r.Get("/cards/due", reviewHandler.GetDueCards)
			r.Post("/cards/{id}/review", reviewHandler.SubmitReview)
			r.Post("/cards/{id}/postpone", reviewHandler.Postpone)

			// Quiz grading
			r.Post("/quizzes/grade", quizHandler.GradeQuiz)

			// Progress views
			r.Get("/streak", reviewHandler.GetStreak)
			r.Get("/progress", reviewHandler.GetProgress)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
