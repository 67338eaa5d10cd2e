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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forum-app/backend/internal/auth"
	"github.com/forum-app/backend/internal/config"
	delivery "github.com/forum-app/backend/internal/delivery/http"
	"github.com/forum-app/backend/internal/middleware"
	"github.com/forum-app/backend/internal/repository/postgres"
	"github.com/forum-app/backend/internal/usecase"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Forum Backend Starting...")

	// Load configuration
	cfg := config.Load()
	log.Printf("Server configured on port %s", cfg.Server.Port)

	// Connect to PostgreSQL with retry
	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		var err error
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				cancel()
				log.Println("Connected to PostgreSQL")
				break
			} else {
				pool.Close()
				log.Printf("Attempt %d: Failed to ping database: %v", attempt, pingErr)
			}
		} else {
			log.Printf("Attempt %d: Failed to connect to database: %v", attempt, err)
		}
		cancel()
		if attempt == 5 {
			log.Fatalf("Could not connect to database after 5 attempts")
		}
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	defer pool.Close()

	// Apply schema migrations
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := postgres.RunMigrations(migrateCtx, cfg.Database.URL); err != nil {
		migrateCancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	migrateCancel()
	log.Println("Migrations applied")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewRefreshTokenRepository(pool)
	postRepo := postgres.NewPostRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)

	// Initialize auth primitives
	hasher := auth.NewPasswordHasher()
	codec := auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, tokenRepo, hasher, codec, cfg.JWT.RefreshExpiry)
	userUsecase := usecase.NewUserUsecase(userRepo, tagRepo)
	postUsecase := usecase.NewPostUsecase(postRepo, commentRepo, tagRepo)

	// Initialize HTTP handler and middleware
	handler := delivery.NewHandler(authUsecase, userUsecase, postUsecase, codec)
	authMiddleware := middleware.NewAuthMiddleware(codec)

	// Create router
	router := delivery.NewRouter(handler, authMiddleware, cfg.CORS.AllowedOrigins)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Periodically delete refresh tokens past expiry
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go func() {
		ticker := time.NewTicker(cfg.Sweep.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				count, err := authUsecase.SweepExpiredTokens(sweepCtx)
				if err != nil {
					log.Printf("Token sweep failed: %v", err)
					continue
				}
				if count > 0 {
					log.Printf("Token sweep removed %d expired tokens", count)
				}
			}
		}
	}()

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println()
	log.Println("Shutting down server...")
	sweepCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
