// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"localpro_backend/internal/auth"
	"localpro_backend/internal/catalog"
	"localpro_backend/internal/config"
	"localpro_backend/internal/customer"
	"localpro_backend/internal/jobs"
	"localpro_backend/internal/middleware"
	"localpro_backend/internal/provider"
	"localpro_backend/internal/shared"

	platformElasticsearch "localpro_backend/internal/platform/elasticsearch"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Exposed for startup tasks that run before Start.
	ESClient  *platformElasticsearch.ESClientWrapper
	AppLogger *zap.Logger

	// Handlers
	authHandler     *auth.Handler
	providerHandler *provider.Handler
	catalogHandler  *catalog.Handler
	customerHandler *customer.Handler

	// Jobs
	tokenCleanupJob *jobs.TokenCleanupJob

	// Middleware instances
	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	providerHandler *provider.Handler,
	catalogHandler *catalog.Handler,
	customerHandler *customer.Handler,
	tokenCleanupJob *jobs.TokenCleanupJob,
	tokenService shared.TokenService,
	versionChecker shared.TokenVersionChecker,
	esClient *platformElasticsearch.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "x-auth-token", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = false
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, versionChecker, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "LocalPro API is healthy!"})
	})

	// Uploaded provider photos are served directly off disk.
	router.Static(cfg.UploadPublicBaseURL, cfg.UploadStoragePath)

	api := router.Group("/api")

	authHandler.RegisterRoutes(api, authMW)
	providerHandler.RegisterRoutes(api, authMW)
	catalogHandler.RegisterRoutes(api, authMW)
	customerHandler.RegisterRoutes(api, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		logger:          logger,
		ESClient:        esClient,
		AppLogger:       logger,
		authHandler:     authHandler,
		providerHandler: providerHandler,
		catalogHandler:  catalogHandler,
		customerHandler: customerHandler,
		tokenCleanupJob: tokenCleanupJob,
		authMW:          authMW,
	}, nil
}

func (s *Server) Start() error {
	if s.tokenCleanupJob != nil {
		err := s.tokenCleanupJob.SetupAndStart()
		if err != nil {
			s.logger.Error("Failed to setup and start token cleanup job", zap.Error(err))
		}
	} else {
		s.logger.Info("Token cleanup job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.tokenCleanupJob != nil {
		s.tokenCleanupJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
