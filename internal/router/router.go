package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"trekhive-backend/internal/handlers"
	"trekhive-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	planHandler *handlers.PlanHandler,
	chatHandler *handlers.ChatHandler,
	adventureHandler *handlers.AdventureHandler,
	tripHandler *handlers.TripHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)

	// The frontend-origin CORS policy covers the app API only. It must not
	// wrap the AI proxy routes: rs/cors terminates preflights itself, so a
	// restrictive outer handler would block foreign origins before the
	// permissive inner one ever ran.
	frontendCors := cors.New(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler

	// Auth rate limiter (10 req/min per IP); the AI proxies get a looser one
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	aiLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── AI Proxy Routes (public, any origin) ────
		r.Route("/ai", func(r chi.Router) {
			r.Use(cors.AllowAll().Handler)
			r.Use(aiLimiter.Middleware)
			r.Post("/trip-planner", planHandler.Generate)
			r.Post("/chat", chatHandler.Message)
		})

		r.Group(func(r chi.Router) {
			r.Use(frontendCors)

			// ──── Auth Routes (public) ────
			r.Route("/auth", func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.Refresh)

				// Logout requires auth
				r.Group(func(r chi.Router) {
					r.Use(jwtAuth.Middleware)
					r.Post("/logout", authHandler.Logout)
				})
			})

			// ──── Adventure Routes (public catalog) ────
			r.Route("/adventures", func(r chi.Router) {
				r.Get("/", adventureHandler.List)
				r.Get("/markers", adventureHandler.Markers)
				r.Get("/{id}", adventureHandler.Get)
			})

			// ──── Trip Routes ────
			r.Route("/trips", func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/plan", planHandler.PlanAndSave)
				r.Get("/", tripHandler.List)
				r.Get("/{id}", tripHandler.Get)
				r.Delete("/{id}", tripHandler.Delete)
			})

			// ──── User Routes ────
			r.Route("/user", func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/me", authHandler.Me)
			})
		})
	})

	return r
}
