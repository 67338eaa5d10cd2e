package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/forum-app/backend/internal/domain"
	"github.com/forum-app/backend/internal/middleware"
)

func NewRouter(handler *Handler, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handler.Register)
			r.Post("/login", handler.Login)
			r.Post("/refresh", handler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/me", handler.Me)
				r.Post("/logout", handler.Logout)
			})
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", handler.ListUsers)
			r.Get("/{username}", handler.GetUser)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Patch("/{username}", handler.UpdateUser)
				r.Delete("/{username}", handler.DeleteUser)
				r.With(authMiddleware.RequireRoles(domain.RoleAdmin)).
					Patch("/{username}/roles", handler.UpdateUserRoles)
				r.Post("/follow/{username}", handler.FollowUser)
				r.Delete("/follow/{username}", handler.UnfollowUser)
				r.Post("/follow-tag/{tag}", handler.FollowTag)
				r.Delete("/follow-tag/{tag}", handler.UnfollowTag)
			})
		})

		// Post routes (public reads, protected writes)
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handler.ListPosts)
			r.Get("/{id}", handler.GetPost)
			r.Get("/{id}/comments", handler.ListComments)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/", handler.CreatePost)
				r.Patch("/{id}", handler.UpdatePost)
				r.Delete("/{id}", handler.DeletePost)
				r.Patch("/{id}/upvote", handler.UpvotePost)
				r.Post("/{id}/comments", handler.CreateComment)
			})
		})

		// Comment deletion has its own top-level route
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Delete("/comments/{id}", handler.DeleteComment)
		})

		r.Get("/tags", handler.ListTags)
	})

	return r
}
