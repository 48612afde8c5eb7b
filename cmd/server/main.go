package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trekhive-backend/internal/config"
	"trekhive-backend/internal/database"
	"trekhive-backend/internal/handlers"
	"trekhive-backend/internal/middleware"
	"trekhive-backend/internal/repository"
	"trekhive-backend/internal/router"
	"trekhive-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting TrekHive Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	adventureRepo := repository.NewAdventureRepo(pool)
	tripRepo := repository.NewTripRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.PlannerMaxTokens,
		cfg.AssistantMaxTokens,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClients.Sessions, jwtAuth)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	planHandler := handlers.NewPlanHandler(geminiService, tripRepo)
	chatHandler := handlers.NewChatHandler(geminiService)
	adventureHandler := handlers.NewAdventureHandler(adventureRepo, redisClients.Cache)
	tripHandler := handlers.NewTripHandler(tripRepo)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		planHandler,
		chatHandler,
		adventureHandler,
		tripHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ TrekHive Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
