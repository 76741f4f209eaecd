package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/abhay-gupta-199/kmrl-backend/internal/auth"
	"github.com/abhay-gupta-199/kmrl-backend/internal/document"
	"github.com/abhay-gupta-199/kmrl-backend/internal/transport/middleware"
	"github.com/abhay-gupta-199/kmrl-backend/internal/transport/swagger"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	"github.com/go-chi/chi"
)

// RegisterAllRoutes wires the HTTP surface. Everything except login, refresh
// and the health probes sits behind the auth middleware; approval and user
// provisioning additionally sit behind role guards.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	allowedOrigins string,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	documentHandler *document.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)
	guard := auth.NewRoleGuard(logger)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/users", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/refresh-token", authHandler.RefreshToken)

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)
			pr.Get("/me", userHandler.GetCurrentUser)

			pr.Group(func(ar chi.Router) {
				ar.Use(guard.RequireSuperAdmin())
				ar.Post("/add-user", userHandler.CreateUser)
			})
		})
	})

	router.Route("/documents", func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)

		r.Post("/upload", documentHandler.Upload)
		r.Get("/get-doc", documentHandler.GetDocuments)
		r.Patch("/{docId}/status", documentHandler.UpdateStatus)

		r.Group(func(ar chi.Router) {
			ar.Use(guard.RequireApprover())
			ar.Post("/{docId}/approve", documentHandler.Approve)
		})
	})
}
