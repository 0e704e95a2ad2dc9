package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/auth"
	"github.com/frahmantamala/resource-management/internal/department"
	"github.com/frahmantamala/resource-management/internal/report"
	"github.com/frahmantamala/resource-management/internal/resource"
	"github.com/frahmantamala/resource-management/internal/submission"
	"github.com/frahmantamala/resource-management/internal/transport/middleware"
	"github.com/frahmantamala/resource-management/internal/transport/swagger"
	"github.com/frahmantamala/resource-management/internal/user"
	"github.com/go-chi/chi"
)

// OpenAPIPath is where the API document is read from, relative to the working directory.
var OpenAPIPath = "./api/openapi.yml"

type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	User       *user.Handler
	Report     *report.Handler
	Resource   *resource.Handler
	Department *department.Handler
	Submission *submission.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, server internal.ServerConfig, logger *slog.Logger) {
	healthHandler := h.Health

	router.Use(middleware.CORS(server.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, OpenAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Report != nil {
				pr.With(middleware.RequireRole(logger, internal.RoleBusinessController)).
					Post("/reports/business-controller", h.Report.GenerateBusinessControllerReport)
			}

			if h.Resource != nil {
				pr.Get("/resources", h.Resource.GetResources)
				pr.Get("/allocations", h.Resource.GetAllocations)
			}

			if h.Department != nil {
				pr.Get("/departments", h.Department.GetDepartments)
			}

			if h.Submission != nil {
				pr.Route("/submissions", func(sr chi.Router) {
					sr.Get("/", h.Submission.GetSubmissions)
					sr.Post("/reminders", h.Submission.SendReminders)
					sr.Get("/export", h.Submission.ExportSubmissions)
				})
			}
		})
	})
}
