package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naamyuvraj/opensource-study-materials/internal/cache"
	"github.com/naamyuvraj/opensource-study-materials/internal/config"
	"github.com/naamyuvraj/opensource-study-materials/internal/database"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/handler"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/middleware"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/repository"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/service"
	"github.com/naamyuvraj/opensource-study-materials/internal/realtime"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Redis is an optimization, not a dependency. A nil store disables
	// caching and everything still serves from Postgres.
	cacheStore, err := cache.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
		cacheStore = nil
	}
	defer cacheStore.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(logger)

	// Repositories
	materialRepo := repository.NewMaterialRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	eventRepo := repository.NewEventRepo(db)
	ratingRepo := repository.NewRatingRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	catalogSvc := service.NewCatalogService(materialRepo, categoryRepo, cacheStore, hub, logger)
	categorySvc := service.NewCategoryService(categoryRepo, cacheStore, hub, logger)
	statsSvc := service.NewStatsService(materialRepo, profileRepo, cacheStore, logger)
	interactionSvc := service.NewInteractionService(materialRepo, eventRepo, cacheStore, hub, logger)
	ratingSvc := service.NewRatingService(ratingRepo, materialRepo, hub, logger)
	authSvc := service.NewAuthService(profileRepo, refreshTokenRepo, cfg)

	registerRefreshers(hub, statsSvc, categorySvc, logger)
	go hub.Run(ctx)

	interactionLimiter := middleware.NewRateLimiter(cfg.InteractionRate, cfg.InteractionBurst)
	defer interactionLimiter.Stop()

	router := buildRouter(cfg, catalogSvc, categorySvc, statsSvc, interactionSvc, ratingSvc, authSvc, hub, interactionLimiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("api server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// registerRefreshers re-warms the derived caches whenever a change event is
// published. Each refresher discards results superseded by a newer change.
func registerRefreshers(hub *realtime.Hub, statsSvc service.StatsService, categorySvc service.CategoryService, logger *slog.Logger) {
	statsRefresher := realtime.NewRefresher(
		func(ctx context.Context) (interface{}, error) {
			stats, _, err := statsSvc.GetStats(ctx)
			return stats, err
		},
		func(v interface{}) {
			logger.Debug("stats cache refreshed")
		},
	)
	categoriesRefresher := realtime.NewRefresher(
		func(ctx context.Context) (interface{}, error) {
			list, _, err := categorySvc.GetCategories(ctx)
			return list, err
		},
		func(v interface{}) {
			logger.Debug("categories cache refreshed")
		},
	)

	hub.OnChange(func(ev *realtime.ChangeEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		switch ev.Table {
		case realtime.TableMaterials:
			if _, err := statsRefresher.Refresh(ctx); err != nil {
				logger.Warn("stats refresh failed", "error", err)
			}
		case realtime.TableCategories:
			if _, err := categoriesRefresher.Refresh(ctx); err != nil {
				logger.Warn("categories refresh failed", "error", err)
			}
		}
	})
}

func buildRouter(
	cfg *config.Config,
	catalogSvc service.CatalogService,
	categorySvc service.CategoryService,
	statsSvc service.StatsService,
	interactionSvc service.InteractionService,
	ratingSvc service.RatingService,
	authSvc service.AuthService,
	hub *realtime.Hub,
	interactionLimiter *middleware.RateLimiter,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/check-conn", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	materialHandler := handler.NewMaterialHandler(catalogSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	interactionHandler := handler.NewInteractionHandler(interactionSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	authMW := middleware.AuthMiddleware(authSvc)
	optionalAuthMW := middleware.OptionalAuthMiddleware(authSvc)

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api.Group("/auth"))

		materials := api.Group("/materials")
		materialHandler.RegisterPublicRoutes(materials)
		ratingHandler.RegisterRoutes(materials, authMW)

		interactions := materials.Group("")
		interactions.Use(interactionLimiter.Middleware(), optionalAuthMW)
		interactionHandler.RegisterRoutes(interactions)

		categoryHandler.RegisterPublicRoutes(api.Group("/categories"))
		statsHandler.RegisterRoutes(api.Group("/stats"))

		admin := api.Group("/admin")
		admin.Use(authMW)
		adminMaterials := admin.Group("/materials")
		materialHandler.RegisterAdminRoutes(adminMaterials)
		interactionHandler.RegisterAdminRoutes(adminMaterials)
		categoryHandler.RegisterAdminRoutes(admin.Group("/categories"))
	}

	r.GET("/ws", realtime.ServeWS(hub))

	return r
}
