package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/courtkeeper/scheduling-api/internal/handler"
	"github.com/courtkeeper/scheduling-api/internal/middleware"
	"github.com/courtkeeper/scheduling-api/internal/repository"
	"github.com/courtkeeper/scheduling-api/internal/service"
	"github.com/courtkeeper/scheduling-api/pkg/cache"
	"github.com/courtkeeper/scheduling-api/pkg/config"
	"github.com/courtkeeper/scheduling-api/pkg/database"
	"github.com/courtkeeper/scheduling-api/pkg/logger"
	corsmiddleware "github.com/courtkeeper/scheduling-api/pkg/middleware/cors"
	reqidmiddleware "github.com/courtkeeper/scheduling-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var tournamentRepo *repository.TournamentRepository
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
		}
		defer db.Close() //nolint:errcheck
		tournamentRepo = repository.NewTournamentRepository(db)
	}

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(client, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	store := service.NewTournamentRegistry(nil, logr)
	profileSvc := service.NewProfileService(store, nil, validate, logr)
	requestsSvc := service.NewRequestsService(store, nil, validate, logr)
	if tournamentRepo != nil {
		store = service.NewTournamentRegistry(tournamentRepo, logr)
		profileSvc = service.NewProfileService(store, tournamentRepo, validate, logr)
		requestsSvc = service.NewRequestsService(store, tournamentRepo, validate, logr)
	}

	schedulingSvc := service.NewSchedulingService(store, metrics, logr, cfg.Scheduler)
	venuesSvc := service.NewVenuesService(store, cacheRepo, cfg.Cache.TTL, metrics, validate, logr)
	matchUpsSvc := service.NewMatchUpsService(store, validate, logr)
	authSvc := service.NewAuthService(validate, logr, cfg.JWT)

	tournamentHandler := handler.NewTournamentHandler(store)
	schedulingHandler := handler.NewSchedulingHandler(schedulingSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	requestsHandler := handler.NewRequestsHandler(requestsSvc)
	venuesHandler := handler.NewVenuesHandler(venuesSvc)
	matchUpsHandler := handler.NewMatchUpsHandler(matchUpsSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/tournaments", tournamentHandler.List)
	api.GET("/tournaments/:id", tournamentHandler.Get)
	api.GET("/tournaments/:id/scheduling/profile", profileHandler.Get)
	api.GET("/tournaments/:id/scheduling/profile/issues", profileHandler.Issues)
	api.GET("/tournaments/:id/scheduling/profile/updated", profileHandler.Updated)
	api.GET("/tournaments/:id/matchups/dependencies", schedulingHandler.Dependencies)
	api.GET("/tournaments/:id/venues", venuesHandler.List)
	api.GET("/tournaments/:id/person-requests", requestsHandler.Get)

	protected := api.Group("", middleware.JWT(authSvc))
	protected.POST("/tournaments", tournamentHandler.Create)
	protected.DELETE("/tournaments/:id", tournamentHandler.Delete)
	protected.POST("/tournaments/:id/scheduling/run", schedulingHandler.Run)
	protected.POST("/tournaments/:id/scheduling/clear", schedulingHandler.Clear)
	protected.POST("/tournaments/:id/scheduling/bookings", schedulingHandler.Bookings)
	protected.PUT("/tournaments/:id/scheduling/profile", profileHandler.Set)
	protected.POST("/tournaments/:id/scheduling/profile/rounds", profileHandler.AddRound)
	protected.PUT("/tournaments/:id/scheduling/daily-limits", requestsHandler.SetDailyLimits)
	protected.POST("/tournaments/:id/person-requests", requestsHandler.Add)
	protected.PUT("/tournaments/:id/person-requests", requestsHandler.Modify)
	protected.DELETE("/tournaments/:id/person-requests", requestsHandler.Remove)
	protected.POST("/tournaments/:id/matchups/schedule", matchUpsHandler.BulkSchedule)
	protected.PUT("/tournaments/:id/matchups/status", matchUpsHandler.UpdateStatus)
	protected.PUT("/tournaments/:id/matchups/winning-side", matchUpsHandler.SetWinningSide)
	protected.POST("/tournaments/:id/courts/assignments", venuesHandler.CourtAssignments)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
