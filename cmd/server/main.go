package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/wakatake-dev/faqbot/internal/api/handlers"
	"github.com/wakatake-dev/faqbot/internal/config"
	"github.com/wakatake-dev/faqbot/internal/database"
	"github.com/wakatake-dev/faqbot/internal/docs"
	"github.com/wakatake-dev/faqbot/internal/faq"
	"github.com/wakatake-dev/faqbot/internal/health"
	"github.com/wakatake-dev/faqbot/internal/middleware"
	"github.com/wakatake-dev/faqbot/internal/models"
	"github.com/wakatake-dev/faqbot/internal/repository"
	"github.com/wakatake-dev/faqbot/internal/services"
	"github.com/wakatake-dev/faqbot/internal/textmatch"
	"github.com/wakatake-dev/faqbot/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine in production; env vars come from the host.
		logrus.WithError(err).Debug("No .env file loaded")
	}

	logger := utils.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	var dbManager *database.Manager
	var repoManager *repository.Manager
	var cache *database.Cache

	if cfg.Database.URL != "" {
		dbManager, err = database.NewManager(&database.Config{
			DatabaseURL: cfg.Database.URL,
			RedisURL:    cfg.Redis.URL,
			Debug:       os.Getenv("LOG_LEVEL") == "debug",
		}, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize database manager")
		}
		defer dbManager.Close()

		if err := dbManager.Migrate(); err != nil {
			logger.WithError(err).Fatal("Database migration failed")
		}

		repoManager = repository.NewManager(dbManager.DB)
		cache = database.NewCache(dbManager.Redis, logger)
	} else {
		logger.Warn("No database configured; analytics and caching disabled")
	}

	scorer := textmatch.ForStrategy(cfg.Matching.Strategy)

	groups := textmatch.DefaultGroups
	if parsed := textmatch.ParseGroups(cfg.Matching.Synonyms); len(parsed) > 0 {
		groups = parsed
	}
	expander := textmatch.NewExpander(groups)

	// Typed nils must not leak into the cache interfaces.
	var faqCache faq.BodyCache
	var docCache docs.BodyCache
	if cache != nil {
		faqCache = cache
		docCache = cache
	}

	loader := faq.NewLoader(cfg.FAQ.TableURL, cfg.Fetch.Timeout, cfg.Fetch.UserAgent, faqCache, cfg.FAQ.CacheTTL, logger)
	fetcher := docs.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, docCache, cfg.Docs.CacheTTL, logger)

	resolver := services.NewResolver(
		loader,
		fetcher,
		cfg.AllowListURLs(),
		expander,
		scorer,
		cfg.Matching.FAQThreshold,
		cfg.Matching.DocThreshold,
		logger,
	)

	checker := health.NewChecker(dbManager, healthRepo(repoManager), logger, cfg.FAQ.TableURL)

	router := setupRouter(cfg, resolver, repoManager, cache, checker, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
}

func healthRepo(repoManager *repository.Manager) models.SystemHealthRepository {
	if repoManager == nil {
		return nil
	}
	return repoManager.SystemHealth
}

func setupRouter(
	cfg *config.Config,
	resolver *services.Resolver,
	repoManager *repository.Manager,
	cache *database.Cache,
	checker *health.Checker,
	logger *logrus.Logger,
) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.NewRateLimiter(60, 10).Middleware())

	askHandler := handlers.NewAskHandler(resolver, repoManager, cache, logger)
	healthHandler := handlers.NewHealthHandler(checker)

	router.GET("/health", healthHandler.HandleHealth)
	router.POST("/api/ask", askHandler.HandleAsk)
	router.GET("/api/popular", askHandler.HandlePopular)

	if err := cfg.ValidateLine(); err == nil {
		webhookHandler, whErr := handlers.NewWebhookHandler(cfg.Line.ChannelSecret, cfg.Line.ChannelToken, resolver, logger)
		if whErr != nil {
			logger.WithError(whErr).Fatal("Failed to initialize LINE webhook")
		}
		router.POST("/callback", webhookHandler.HandleCallback)
		logger.Info("LINE webhook enabled at /callback")
	} else {
		logger.Info("LINE credentials not set; webhook disabled")
	}

	return router
}
