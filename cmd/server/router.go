package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prepmate/prepmate-api/internal/api"
	apiMiddleware "github.com/prepmate/prepmate-api/internal/api/middleware"
)

// setupRouter creates the application router with middleware, the /api
// routes and the health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	handlers := api.Handlers{
		Review:   api.NewReviewHandler(app.reviewService, app.logger),
		Deck:     api.NewDeckHandler(app.deckService, app.logger),
		Habit:    api.NewHabitHandler(app.habitService, app.logger),
		Reminder: api.NewReminderHandler(app.reminderService, app.logger),
		Study:    api.NewStudyHandler(app.studyService, app.logger),
	}
	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, handlers)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
