package main

import (
	"context"
	"os"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/talent-registration-api/internal/catalog"
	"github.com/yukikurage/talent-registration-api/internal/config"
	"github.com/yukikurage/talent-registration-api/internal/constants"
	"github.com/yukikurage/talent-registration-api/internal/database"
	"github.com/yukikurage/talent-registration-api/internal/handlers"
	"github.com/yukikurage/talent-registration-api/internal/logging"
	"github.com/yukikurage/talent-registration-api/internal/metrics"
	"github.com/yukikurage/talent-registration-api/internal/middleware"
	"github.com/yukikurage/talent-registration-api/internal/registration"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"github.com/yukikurage/talent-registration-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.IsProduction())

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	planRepo := repository.NewDevelopmentPlanRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	// Services
	store := catalog.NewStore(catalogRepo, log, m)
	provisioning := services.NewProvisioningService(userRepo, log)
	registrationService := services.NewRegistrationService(
		registration.NewValidator(), provisioning, userRepo, catalogRepo, teamRepo, store, m, log,
	)
	catalogService := services.NewCatalogService(catalogRepo, func(ctx context.Context) { store.Reload(ctx) })
	planService := services.NewDevelopmentPlanService(planRepo, userRepo)
	evaluationService := services.NewEvaluationService(evaluationRepo, userRepo, catalogRepo, m)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	ctx := context.Background()
	if _, err := provisioning.EnsureBootstrapDirector(ctx, cfg.BootstrapEmail, cfg.BootstrapPassword, cfg.BootstrapName); err != nil {
		log.Fatalf("Failed to create bootstrap director: %v", err)
	}
	if data := store.Reload(ctx); len(data.LoadErrors) > 0 {
		log.WithField("errors", data.LoadErrors).Warn("Reference data partially loaded")
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":          "ok",
			"message":         "Talent Registration API is running",
			"reference_ready": store.Ready(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.Routes{
		Auth:             handlers.NewAuthHandler(provisioning),
		Registration:     handlers.NewRegistrationHandler(store, registrationService, userRepo, log),
		Catalog:          handlers.NewCatalogHandler(catalogService, log),
		Evaluation:       handlers.NewEvaluationHandler(evaluationService, log),
		DevelopmentPlans: handlers.NewDevelopmentPlanHandler(planService, aiService, log),
		Users:            provisioning,
	}.Register(r)

	// Start server
	log.WithField("addr", cfg.ServerAddr).Info("Server starting")
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
