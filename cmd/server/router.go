package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasktrack-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasktrack-api/internal/api/middleware"
)

// setupRouter mounts every route on a chi router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	analyticsHandler := api.NewAnalyticsHandler(app.analyticsService, app.logger)
	healthHandler := api.NewHealthHandler(app.health, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokens, app.userService)

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", userHandler.Profile)
				r.Get("/tasks", taskHandler.ListTasks)
				r.Put("/tasks/{id}", taskHandler.UpdateTask)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)

				r.Post("/tasks", taskHandler.CreateTask)
				r.Get("/tasks", taskHandler.ListTasks)
				r.Get("/tasks/{id}", taskHandler.GetTask)
				r.Put("/tasks/{id}", taskHandler.UpdateTask)
				r.Delete("/tasks/{id}", taskHandler.DeleteTask)
				r.Get("/analytics", analyticsHandler.Snapshot)
				r.Get("/users", userHandler.ListUsers)
			})
		})
	})

	return r
}
