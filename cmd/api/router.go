package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"owltrack/internal/config"
	"owltrack/internal/database"
	"owltrack/internal/domain/application"
	"owltrack/internal/domain/auth"
	"owltrack/internal/domain/notification"
	"owltrack/internal/domain/opportunity"
	"owltrack/internal/domain/upload"
	"owltrack/internal/middleware"
	jwtsvc "owltrack/internal/pkg/jwt"
	"owltrack/internal/pkg/logger"
	"owltrack/internal/pkg/response"
	"owltrack/internal/storage"
)

type routerDeps struct {
	db      *gorm.DB
	blobs   storage.BlobStore
	limiter middleware.Limiter
	log     *slog.Logger
}

func migrate(db *gorm.DB) error {
	return database.Migrate(
		auth.NewUserRepository(db),
		opportunity.NewRepository(db),
		application.NewRepository(db),
		notification.NewRepository(db),
	)
}

func newRouter(cfg *config.Config, d routerDeps) *gin.Engine {
	j := jwtsvc.New(cfg.JWT.Secret, cfg.JWT.TTL)

	hub := notification.NewHub(logger.New("ws"))
	notificationService := notification.NewService(notification.NewRepository(d.db), hub, logger.New("notification"))
	opportunityService := opportunity.NewService(opportunity.NewRepository(d.db), logger.New("opportunity"))
	authService := auth.NewService(auth.NewUserRepository(d.db), j, logger.New("auth"))
	applicationService := application.NewService(
		application.NewRepository(d.db),
		d.blobs,
		opportunityService,
		notificationService,
		logger.New("application"),
	)

	authHandler := auth.NewHandler(authService, logger.New("auth"))
	opportunityHandler := opportunity.NewHandler(opportunityService, logger.New("opportunity"))
	applicationHandler := application.NewHandler(
		applicationService,
		cfg.Storage.PublicBase,
		cfg.Storage.MaxSizeMB<<20,
		logger.New("application"),
	)
	notificationHandler := notification.NewHandler(notificationService)
	wsHandler := notification.NewWSHandler(hub, j, cfg.CORS.AllowedOrigins, logger.New("ws"))
	uploadHandler := upload.NewHandler(d.blobs, logger.New("upload"))

	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxSizeMB << 20
	r.Use(
		middleware.ErrorLogger(d.log),
		middleware.RequestLogger(d.log),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.InternalTokenAuth(cfg.Metrics.Token, d.log), gin.WrapH(promhttp.Handler()))

	uploadHandler.RegisterRoutes(r)
	wsHandler.RegisterWSRoutes(r)
	authHandler.RegisterPublicRoutes(r,
		middleware.RateLimit(d.limiter, cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow),
	)

	api := r.Group("/api")
	api.Use(middleware.JWTAuth(j), middleware.Identity(authService))
	{
		applicationHandler.RegisterRoutes(api)
		opportunityHandler.RegisterRoutes(api, middleware.AdminOnly())
		notificationHandler.RegisterRoutes(api)

		admin := api.Group("")
		admin.Use(middleware.AdminOnly())
		authHandler.RegisterAdminRoutes(admin)
	}

	return r
}
