package main

import (
	"context"
	"fmt"
	"time"

	"taskboard/backend/internal/config"
	"taskboard/backend/internal/database"
	"taskboard/backend/internal/handlers"
	"taskboard/backend/internal/logger"
	"taskboard/backend/internal/middleware"
	"taskboard/backend/internal/monitoring"
	"taskboard/backend/internal/repositories"
	"taskboard/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gormlogger "gorm.io/gorm/logger"
)

type application struct {
	pool   *database.DatabasePool
	router *gin.Engine
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	poolConfig := &database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        gormlogger.Warn,
	}
	pool, err := database.NewDatabasePool(poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seedAdmin(ctx, newUserRepo(pool, cfg), cfg.Seed); err != nil {
		_ = pool.Close()
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &application{pool: pool, router: buildRouter(cfg, pool)}, nil
}

func (a *application) close() {
	if err := a.pool.Close(); err != nil {
		logger.Warningf("failed to close database: %v", err)
	}
}

func buildRouter(cfg *config.Config, pool *database.DatabasePool) *gin.Engine {
	users := newUserRepo(pool, cfg)
	tasks := repositories.NewTaskRepository(pool.DB)

	sessions := services.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.Auth.RefreshAfter, cfg.Auth.Issuer)
	cookie := middleware.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure}

	monitor := monitoring.NewRegistry()
	monitor.RegisterHealthCheck("database", pool.HealthContext)

	router := gin.New()
	router.Use(
		middleware.RecoveryWithLog(),
		middleware.RequestID(),
		middleware.AccessLog(),
		monitor.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RouteGate(sessions, cookie),
	)

	monitor.Register(router)

	var loginLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		loginLimit = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMin,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   cfg.RateLimit.CleanupInterval,
		}).Middleware()
	}

	handlers.RegisterRoutes(router,
		handlers.NewAuthHandler(services.NewAuthService(users, cfg.Auth.BCryptCost), sessions, cookie),
		handlers.NewTaskHandler(services.NewTaskService(tasks)),
		handlers.NewUserHandler(services.NewUserService(users)),
		loginLimit,
	)
	return router
}
