package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/api"
	"github.com/Ayash-Bera/mentor/backend/internal/api/handlers"
	"github.com/Ayash-Bera/mentor/backend/internal/auth"
	"github.com/Ayash-Bera/mentor/backend/internal/config"
	"github.com/Ayash-Bera/mentor/backend/internal/database"
	"github.com/Ayash-Bera/mentor/backend/internal/health"
	"github.com/Ayash-Bera/mentor/backend/internal/llm"
	"github.com/Ayash-Bera/mentor/backend/internal/middleware"
	"github.com/Ayash-Bera/mentor/backend/internal/migration"
	"github.com/Ayash-Bera/mentor/backend/internal/repository"
	"github.com/Ayash-Bera/mentor/backend/internal/services"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().Bool("migrate", true, "Run database migrations before serving")
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAuth(); err != nil {
		return err
	}
	if err := cfg.ValidateLLM(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbManager, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := migration.NewRunner(dbManager, logger).RunMigrations(cfg.Database.MigrationsDir); err != nil {
			return err
		}
	}

	provider, err := llm.NewProvider(ctx, llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,

		// Chat requests set their own limits; these cover the rest.
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Retry: llm.RetryConfig{
			MaxAttempts: cfg.LLM.Retry.MaxAttempts,
			InitialWait: cfg.LLM.Retry.InitialWait,
			MaxWait:     cfg.LLM.Retry.MaxWait,
			Multiplier:  cfg.LLM.Retry.Multiplier,
		},
	}, logger)
	if err != nil {
		return err
	}

	repos := repository.NewRepositoryManager(dbManager.DB)

	var progressCache services.ProgressCache
	var statusCache health.StatusCache
	if dbManager.CacheEnabled() {
		cache := database.NewCache(dbManager.Redis, logger)
		progressCache = cache
		statusCache = cache
	}

	topics := tutor.NewTopicExtractor()
	progress := services.NewProgressService(
		repos.Interaction,
		tutor.NewAnalyzer(cfg.Tutor.HistoryWindow, topics),
		progressCache,
		cfg.Tutor.CacheTTL,
		logger,
	)
	chat := services.NewChatService(
		repos.Interaction,
		progress,
		topics,
		tutor.NewSimilarityFinder(cfg.Tutor.SimilarityThreshold),
		provider,
		services.ChatConfig{
			SimilarLimit:      cfg.Tutor.SimilarLimit,
			SimilarCandidates: cfg.Tutor.SimilarCandidates,
			Temperature:       cfg.LLM.Temperature,
			MaxTokens:         cfg.LLM.MaxTokens,
			Timeout:           cfg.LLM.Timeout,
		},
		logger,
	)

	checker := health.NewHealthChecker(dbManager, statusCache, repos.SystemHealth, provider, cfg.Health.ProbeLLM, logger)
	go checker.PeriodicHealthCheck(ctx, cfg.Health.Interval)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.PerMinute > 0 {
		limiter = middleware.NewRateLimiter(ctx, cfg.RateLimit.PerMinute)
	}

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.RouterConfig{
		ChatHandler: handlers.NewChatHandler(
			chat,
			services.NewFeedbackService(repos.Interaction, progress, logger),
			services.NewHistoryService(repos.Interaction),
			cfg.Tutor.MaxAttachmentBytes,
			logger,
		),
		ProfileHandler: handlers.NewProfileHandler(
			services.NewProfileService(repos.User, repos.Questionnaire, logger),
			progress,
			logger,
		),
		HealthHandler:  handlers.NewHealthHandler(checker),
		AuthMiddleware: middleware.NewAuthMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), repos.User, logger),
		RateLimiter:    limiter,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.LLM.Timeout + 15*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":     cfg.Server.Port,
			"provider": cfg.LLM.Provider,
			"model":    provider.ModelID(),
			"cache":    dbManager.CacheEnabled(),
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func openDatabase(cfg *config.Config, logger *logrus.Logger) (*database.Manager, error) {
	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    cfg.Database.LogLevel,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database manager: %w", err)
	}
	return dbManager, nil
}
