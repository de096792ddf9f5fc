// Package main runs the digital-menu platform HTTP server: one deployment
// serving the marketing domain, the backoffice app domain, and every tenant
// subdomain.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/viw-carta/backend/config"
	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/authz"
	"github.com/viw-carta/backend/internal/categories"
	"github.com/viw-carta/backend/internal/edge"
	"github.com/viw-carta/backend/internal/invitations"
	"github.com/viw-carta/backend/internal/meals"
	"github.com/viw-carta/backend/internal/menu"
	"github.com/viw-carta/backend/internal/messages"
	"github.com/viw-carta/backend/internal/middleware"
	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/internal/orders"
	"github.com/viw-carta/backend/internal/qr"
	"github.com/viw-carta/backend/internal/tenanthost"
	"github.com/viw-carta/backend/internal/tenants"
	"github.com/viw-carta/backend/pkg/database"
	"github.com/viw-carta/backend/pkg/metrics"
	"github.com/viw-carta/backend/pkg/redis"
	"github.com/viw-carta/backend/pkg/response"
	"github.com/viw-carta/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Client, err = storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			AssetsBucket:         cfg.AWS.AssetsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	sessions := auth.NewSessionService(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpireHours)*time.Hour,
		auth.CookieConfig{
			Name:   cfg.App.CookieName,
			Domain: cfg.App.CookieDomain,
			Secure: cfg.App.CookieSecure,
		},
	)

	// Repositories
	userRepo := auth.NewRepository(pool)
	tenantRepo := tenants.NewRepository(pool)
	invitationRepo := invitations.NewRepository(pool)
	categoryRepo := categories.NewRepository(pool)
	mealRepo := meals.NewRepository(pool)
	messageRepo := messages.NewRepository(pool)
	orderRepo := orders.NewRepository(pool)

	menuCache := menu.NewCache(rdb.Client, logger)

	// Handlers
	verifier := auth.NewVerifier(userRepo)
	authHandler := auth.NewHandler(verifier, userRepo, tenantRepo, sessions, logger)
	tenantHandler := tenants.NewHandler(tenantRepo)
	invitationHandler := invitations.NewHandler(invitationRepo,
		[]string{cfg.App.AppSubdomain, "www"}, logger)
	categoryHandler := categories.NewHandler(categoryRepo, menuCache)
	mealHandler := meals.NewHandler(mealRepo, menuCache)
	messageHandler := messages.NewHandler(messageRepo, menuCache)
	orderHandler := orders.NewHandler(orderRepo)
	menuHandler := menu.NewHandler(tenantRepo, categoryRepo, mealRepo, messageRepo, menuCache)
	qrHandler := qr.NewHandler(tenantRepo, s3Client, cfg.App.BaseDomain, logger)

	httpMetrics := metrics.NewHTTPMetrics("carta-backend")
	rateStore := middleware.NewRedisRateLimitStore(rdb.Client)
	loginLimit := middleware.RateLimit(rateStore, "login",
		cfg.App.LoginRateLimit, time.Duration(cfg.App.LoginRateWindowSec)*time.Second)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(httpMetrics.Middleware())

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public menu, reached through the edge router's tenant-slug rewrite.
	router.GET("/:tenant", menuHandler.Get)
	router.GET("/:tenant/menu", menuHandler.Get)

	api := router.Group("/api")

	// Auth (public)
	api.POST("/auth/login", loginLimit, authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Invitation redemption and lookup (public onboarding flow)
	api.POST("/invitations/redeem", invitationHandler.Redeem)
	api.GET("/invitations/:code", invitationHandler.Lookup)

	// Protected API (valid session required)
	protected := api.Group("")
	protected.Use(middleware.Session(sessions))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/categories", categoryHandler.List)
		protected.POST("/categories", middleware.RequireRole(models.RoleAdmin), categoryHandler.Create)
		protected.PUT("/categories/:id", middleware.RequireRole(models.RoleAdmin), categoryHandler.Update)
		protected.DELETE("/categories/:id", middleware.RequireRole(models.RoleAdmin), categoryHandler.Delete)

		protected.GET("/meals/master", mealHandler.List)
		protected.GET("/meals/master/:id", mealHandler.Get)
		protected.POST("/meals/master", middleware.RequireRole(models.RoleAdmin), mealHandler.Create)
		protected.PUT("/meals/master/:id", middleware.RequireRole(models.RoleAdmin), mealHandler.Update)
		protected.DELETE("/meals/master/:id", middleware.RequireRole(models.RoleAdmin), mealHandler.Delete)

		protected.GET("/messages", middleware.RequireRole(models.RoleStaff), messageHandler.List)
		protected.POST("/messages", middleware.RequireRole(models.RoleStaff),
			middleware.RequireFeature(authz.FeatureSystemMessages), messageHandler.Create)
		protected.PUT("/messages/:id", middleware.RequireRole(models.RoleStaff),
			middleware.RequireFeature(authz.FeatureSystemMessages), messageHandler.Update)
		protected.DELETE("/messages/:id", middleware.RequireRole(models.RoleStaff),
			middleware.RequireFeature(authz.FeatureSystemMessages), messageHandler.Delete)

		protected.POST("/orders", middleware.RequireRole(models.RoleStaff),
			middleware.RequireFeature(authz.FeatureCreateOrders), orderHandler.Create)
		protected.GET("/orders", middleware.RequireRole(models.RoleStaff),
			middleware.RequireFeature(authz.FeatureOrderDashboard), orderHandler.List)
		protected.GET("/orders/:id", middleware.RequireRole(models.RoleStaff),
			middleware.RequireFeature(authz.FeatureOrderDashboard), orderHandler.Get)
		protected.PATCH("/orders/:id/status", middleware.RequireRole(models.RoleStaff),
			middleware.RequireFeature(authz.FeatureOrderDashboard), orderHandler.UpdateStatus)

		protected.GET("/settings", middleware.RequireRole(models.RoleAdmin), tenantHandler.GetSettings)
		protected.PUT("/settings", middleware.RequireRole(models.RoleAdmin), tenantHandler.UpdateSettings)

		protected.POST("/qr", middleware.RequireRole(models.RoleAdmin), qrHandler.Generate)

		// Tenant-scoped user management
		protected.GET("/admin/users", middleware.RequireRole(models.RoleAdmin), authHandler.ListUsers)
		protected.PATCH("/admin/users/:id/role", middleware.RequireRole(models.RoleAdmin), authHandler.UpdateUserRole)
		protected.PATCH("/admin/users/:id/active", middleware.RequireRole(models.RoleAdmin), authHandler.SetUserActive)

		// Platform administration (exact superadmin)
		protected.GET("/admin/tenants", middleware.RequireSuperadmin(), tenantHandler.List)
		protected.PATCH("/admin/tenants/:id/subscription", middleware.RequireSuperadmin(), tenantHandler.UpdateSubscription)
		protected.GET("/admin/stats", middleware.RequireSuperadmin(), tenantHandler.Stats)

		protected.GET("/invitations", middleware.RequireSuperadmin(), invitationHandler.List)
		protected.POST("/invitations", middleware.RequireSuperadmin(), invitationHandler.Create)
	}

	// The edge router classifies the host and rewrites or redirects before
	// any route matching happens.
	resolver := tenanthost.NewResolver(cfg.App.BaseDomain, cfg.App.AppSubdomain)
	handler := edge.NewRouter(resolver, sessions, edge.Config{
		BackofficePath: cfg.App.BackofficePath,
	}, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
