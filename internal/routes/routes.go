package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/handlers"
)

// RegisterRoutes registers all application routes under /api
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	profileHandler *handlers.ProfileHandler,
	tokenManager *auth.TokenManager,
	revocation auth.RevocationChecker,
) {
	router.Route("/api", func(r chi.Router) {
		// Public routes - no authentication required
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/forgot-password", passwordHandler.Forgot)
		r.Post("/auth/reset-password", passwordHandler.Reset)

		// Protected routes - bearer token required
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager, revocation))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)
			r.Delete("/profile/image", profileHandler.DeleteImage)

			r.Put("/password", passwordHandler.Change)
		})
	})
}
