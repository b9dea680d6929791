package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"

	"civicsync-dashboard/clock"
	"civicsync-dashboard/config"
	"civicsync-dashboard/controllers"
	"civicsync-dashboard/middlewares"
	"civicsync-dashboard/models"
	"civicsync-dashboard/query"
	"civicsync-dashboard/repository"
	"civicsync-dashboard/routes"
	"civicsync-dashboard/services"
	"civicsync-dashboard/session"
	authUtils "civicsync-dashboard/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	clk := clock.Real()

	var (
		issues []models.Issue
		writer services.IssueWriter
		events services.EventLog
		users  services.UserDirectory
	)
	if cfg.MongoURI != "" {
		db, err := config.ConnectDB(ctx, cfg)
		if err != nil {
			return err
		}
		logger.Info("MongoDB connection established", "database", cfg.MongoDatabase)

		issueRepo := repository.NewIssueRepository(db)
		seeded, err := issueRepo.SeedIfEmpty(ctx, models.SeedIssues())
		if err != nil {
			return err
		}
		if seeded {
			logger.Info("seeded issues collection")
		}
		if issues, err = issueRepo.LoadAll(ctx); err != nil {
			return err
		}

		eventRepo := repository.NewEventRepository(db)
		if err := eventRepo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("create event indexes: %w", err)
		}
		writer, events, users = issueRepo, eventRepo, repository.NewUserRepository(db)
	} else {
		logger.Warn("MONGODB_URI not set, serving built-in issues from memory")
		issues = models.SeedIssues()
		events = repository.NewMemoryEventLog()
	}

	var (
		sessionStore session.Store
		counter      middlewares.Counter
	)
	if cfg.RedisAddress != "" {
		client, err := config.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		logger.Info("Connected to Redis", "address", cfg.RedisAddress)
		sessionStore = session.NewRedisStore(client)
		counter = middlewares.NewRedisCounter(client)
	} else {
		logger.Warn("REDIS_ADDRESS not set, keeping sessions and rate limits in memory")
		sessionStore = session.NewMemoryStore(clk)
		counter = middlewares.NewMemoryCounter(clk)
	}

	store, err := query.NewStore(issues)
	if err != nil {
		return err
	}
	policy, err := query.ParsePolicy(cfg.TransitionPolicy)
	if err != nil {
		return err
	}
	issueService := services.NewIssueService(store, writer, events, services.IssueServiceConfig{
		Policy:          policy,
		StampResolvedAt: cfg.StampResolvedAt,
		RecentLimit:     cfg.RecentLimit,
	}, clk, logger)

	authenticator, err := services.NewAuthenticator(cfg.AuthMode, users)
	if err != nil {
		return err
	}
	tokens, err := authUtils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clk)
	if err != nil {
		return err
	}
	sessions := session.NewManager(sessionStore, cfg.SessionTTL, clk)
	authService := services.NewAuthService(authenticator, sessions, tokens, logger)

	r, err := routes.NewRouter(routes.Deps{
		Logger: logger,
		Auth:   authService,
		Issues: issueService,
		Cookie: controllers.CookieConfig{
			Domain:     cfg.Domain,
			Production: cfg.IsProduction(),
			MaxAge:     cfg.TokenTTL,
		},
		AllowedOrigins: cfg.Origins(),
		RateCounter:    counter,
		RateQueue:      cfg.IssueLimitQueue,
		RateLimit:      cfg.IssueUpdateLimit,
		RateWindow:     cfg.IssueLimitWindow,
	})
	if err != nil {
		return err
	}

	logger.Info("starting server",
		"port", cfg.Port,
		"issues", store.Len(),
		"policy", policy.Name,
		"auth_mode", cfg.AuthMode,
	)
	return r.Run(fmt.Sprintf(":%d", cfg.Port))
}
