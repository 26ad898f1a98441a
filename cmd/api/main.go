package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/background"
	"github.com/precure-app/precure-api/internal/config"
	"github.com/precure-app/precure-api/internal/database"
	"github.com/precure-app/precure-api/internal/handlers"
	middlewareCustom "github.com/precure-app/precure-api/internal/middleware"
	"github.com/precure-app/precure-api/internal/repositories"
	"github.com/precure-app/precure-api/internal/routes"
	"github.com/precure-app/precure-api/internal/services"
	"github.com/precure-app/precure-api/internal/storage"
	pkgauth "github.com/precure-app/precure-api/pkg/auth"
	pkglogger "github.com/precure-app/precure-api/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		pkglogger.RedactedAttr("from_address", cfg.Email.FromAddress, cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	revokeRepo := repositories.NewRevokedTokenRepository(db)

	// Initialize auth primitives
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	resetCodes := auth.NewResetCodeManager(cfg.Auth.ResetCodeTTL)
	hasher := pkgauth.NewHasher(cfg.Auth.BcryptCost)

	// Profile image storage
	imageStore, err := storage.NewDiskImageStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		logger.Error("failed to initialize image store", slog.Any("error", err))
		os.Exit(1)
	}

	// AWS SES email service
	emailService, err := services.NewAWSSESEmailService(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		cfg.Email.FromName,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	authService := services.NewAuthService(accountRepo, revokeRepo, tokenManager, hasher, logger)
	passwordService := services.NewPasswordService(accountRepo, resetCodes, hasher, emailService, logger)
	profileService := services.NewProfileService(accountRepo, imageStore, logger)
	revocationChecker := services.NewTokenRevocationChecker(revokeRepo, accountRepo, cfg.Auth.RevokeOnPasswordChange, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	profileHandler := handlers.NewProfileHandler(profileService)

	// Blacklist cleanup
	cleanupManager := background.NewCleanupManager(revokeRepo, logger, cfg.Auth.CleanupInterval, cfg.Auth.TokenExpiry)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, passwordHandler, profileHandler, tokenManager, revocationChecker)

	// Serve uploaded profile images
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Upload.Dir)))
	router.Get("/uploads/*", fileServer.ServeHTTP)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
