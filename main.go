// Entry point of the smart agriculture backend.
// Initializes configuration, the database pool and migrations, the cooldown
// sweeper, services and handlers, sets up the HTTP router and middleware, and
// starts the server with graceful shutdown.
//
// @title Smart Agriculture Backend API
// @version 1.0
// @description User accounts, AI farm assistant chat, and crop-loss prediction.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
	"github.com/apexcoders/smart-agriculture-backend/auth"
	"github.com/apexcoders/smart-agriculture-backend/chat"
	"github.com/apexcoders/smart-agriculture-backend/config"
	"github.com/apexcoders/smart-agriculture-backend/db"
	"github.com/apexcoders/smart-agriculture-backend/mlclient"
	"github.com/apexcoders/smart-agriculture-backend/prediction"
	"github.com/apexcoders/smart-agriculture-backend/ratelimit"
)

// banner is served unconditionally on the health route.
const banner = "🌿 Apex Coders Smart Agriculture Backend is running perfectly!"

func main() {
	// .env is a development convenience; in production the variables are set
	// directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The cooldown gate is the only shared mutable state; its sweeper keeps
	// the key space bounded and is stopped through sweepStop on shutdown.
	limiter := ratelimit.NewCooldown(cfg.Chat.CooldownWindow)
	sweepStop := make(chan struct{})
	limiter.StartSweeper(cfg.Chat.SweepInterval, sweepStop)

	// Manual dependency injection: stores into services, services into handlers.
	mlClient := mlclient.New(mlclient.Config{BaseURL: cfg.ML.BaseURL, Timeout: cfg.ML.Timeout})

	authService := auth.NewService(auth.NewPgxStore(pool), *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	chatService := chat.NewService(mlClient)
	chatHandlers := chat.NewHandlers(chatService, limiter)

	predictionService := prediction.NewService(mlClient, prediction.NewPgxStore(pool))
	predictionHandlers := prediction.NewHandlers(predictionService)

	r := chi.NewRouter()

	// Global middleware; chi requires these before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP) // the cooldown gate keys on the client address
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(recoverToEnvelope)

	// Health check route
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, banner)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandlers.HandleSignup())
		r.Post("/login", authHandlers.HandleLogin())
		r.Post("/chat", chatHandlers.HandleChat())
		r.Post("/predict-loss", predictionHandlers.HandlePredictLoss())

		// Prediction history requires a valid login token.
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(cfg.Auth))
			r.Get("/predictions", predictionHandlers.HandleHistory())
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(sweepStop)

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware, kept here
// to avoid pulling handler packages into main's middleware stack.
// recoverToEnvelope is the only recovery layer: a panicking handler still
// answers with the standard JSON error envelope instead of a bare 500.
func recoverToEnvelope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			if rvr := recover(); rvr != nil {
				log.Printf("Panic: %+v", rvr)
				writeError(ww, apperror.NewInternalError("internal server error", nil))
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"success":false,"message":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
