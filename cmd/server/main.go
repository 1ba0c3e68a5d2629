package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"questcms/internal/auth"
	"questcms/internal/config"
	"questcms/internal/handler"
	"questcms/internal/middleware"
	"questcms/internal/repository/postgres"
	"questcms/internal/service"
	serviceAI "questcms/internal/service/ai"
	"questcms/internal/service/review"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.Debug {
		logFile, err := config.SetupLogFile("logs", 10)
		if err != nil {
			log.Printf("warning: file logging disabled: %v", err)
		} else {
			defer logFile.Close()
			logOut = io.MultiWriter(os.Stdout, logFile)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Ensure schema and verify the search indexes exist; a store that cannot
	// serve ranked search is not allowed to start
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	if err := postgres.CheckSearchIndexes(ctx, pool); err != nil {
		log.Fatalf("Search index check failed: %v", err)
	}
	logger.Info("schema ready")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	articleRepo := postgres.NewArticleRepository(repoConfig)

	// Create services
	articleService := service.NewArticleService(articleRepo, logger)
	reviewWorkflow := review.NewWorkflow(articleRepo, logger)

	contentService, err := serviceAI.NewContentService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create content service: %v", err)
	}
	imageService, err := serviceAI.NewImageService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create image service: %v", err)
	}

	// Create handlers
	articleHandler := handler.NewArticleHandler(articleService, logger)
	reviewHandler := handler.NewReviewHandler(reviewWorkflow, logger)
	aiHandler := handler.NewAIHandler(contentService, imageService, articleService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", articleHandler.HealthCheck)

	// Article routes
	mux.HandleFunc("POST /api/articles", articleHandler.CreateArticle)
	mux.HandleFunc("GET /api/articles", articleHandler.ListArticles)
	mux.HandleFunc("GET /api/articles/search", articleHandler.SearchArticles) // Must come before {id} route
	mux.HandleFunc("GET /api/articles/stats", articleHandler.Stats)
	mux.HandleFunc("POST /api/articles/metadata", articleHandler.Metadata)
	mux.HandleFunc("GET /api/articles/{id}", articleHandler.GetArticle)
	mux.HandleFunc("PATCH /api/articles/{id}", articleHandler.UpdateArticle)
	mux.HandleFunc("DELETE /api/articles/{id}", articleHandler.DeleteArticle)

	// Review workflow routes
	mux.HandleFunc("GET /api/review/queue", reviewHandler.Queue)
	mux.HandleFunc("POST /api/articles/{id}/review", reviewHandler.Decide)

	// AI collaboration routes
	mux.HandleFunc("POST /api/ai/generate", aiHandler.Generate)
	mux.HandleFunc("POST /api/ai/enhance", aiHandler.Enhance)
	mux.HandleFunc("POST /api/ai/quality-check", aiHandler.QualityCheck)
	mux.HandleFunc("POST /api/ai/seo-metadata", aiHandler.SEOMetadata)
	mux.HandleFunc("POST /api/ai/image", aiHandler.GenerateImage)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	verifier := setupVerifier(cfg, logger)
	if verifier != nil {
		defer verifier.Close()
		httpHandler = middleware.Auth(verifier)(httpHandler)
	} else {
		logger.Warn("auth disabled: no AUTH_SECRET or AUTH_JWKS_URL configured")
	}
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second, // AI generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupVerifier picks the token verifier from configuration: JWKS when an
// endpoint is configured, shared secret otherwise, nil when auth is off.
func setupVerifier(cfg *config.Config, logger *slog.Logger) auth.Verifier {
	switch {
	case cfg.AuthJWKSURL != "":
		verifier, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
		return verifier
	case cfg.AuthSecret != "":
		verifier, err := auth.NewHMACVerifier(cfg.AuthSecret, logger)
		if err != nil {
			log.Fatalf("Failed to create token verifier: %v", err)
		}
		return verifier
	default:
		return nil
	}
}
