// Package server is the reference ElectroShop storefront API used for local
// development and end-to-end tests of the client.
//
// @title ElectroShop API
// @version 1.0
// @host localhost:8080
// @BasePath /api
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/raflibima25/go-electroshop/internal/auth"
	"github.com/raflibima25/go-electroshop/internal/config"
	"github.com/raflibima25/go-electroshop/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	db     *gorm.DB
	config config.ServerConfig
	logger zerolog.Logger
}

// New opens the database at cfg.DatabaseURL and creates a server
func New(cfg config.ServerConfig, zlog zerolog.Logger) (*Server, error) {
	db, err := initDatabase(cfg.DatabaseURL, zlog)
	if err != nil {
		return nil, err
	}

	return NewWithDB(db, cfg, zlog)
}

// NewWithDB creates a server on an already opened database. It migrates
// and seeds the schema.
func NewWithDB(db *gorm.DB, cfg config.ServerConfig, zlog zerolog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		zlog.Warn().Msg("JWT_SECRET is the built-in development secret; set it before exposing the API")
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	auth.InitializeJWT(cfg.JWTSecret, cfg.JWTTTL)

	server := &Server{
		db:     db,
		config: cfg,
		logger: zlog,
	}

	if err := server.seed(); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	server.setupRouter()

	return server, nil
}

// initDatabase initializes the database connection
func initDatabase(dsn string, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 4
		maxIdleConns    = 2
		connMaxLifetime = 300 // 5 minutes
		busyTimeout     = 5000
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stderr, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL must be set first
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=1",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	origins := s.config.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := s.router.Group("/api")
	{
		api.GET("/health-check", s.healthCheck)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", s.register)
			authRoutes.POST("/login", s.login)
			authRoutes.GET("/me", requireUser(s.db, s.logger), s.getCurrentUser)
		}

		// Public catalog
		productRoutes := api.Group("/product")
		{
			productRoutes.GET("", s.listProducts)
			productRoutes.GET("/categories", s.listCategories)
			productRoutes.GET("/:id", s.getProduct)
		}

		cartRoutes := api.Group("/cart")
		cartRoutes.Use(requireUser(s.db, s.logger))
		{
			cartRoutes.GET("", s.getCart)
			cartRoutes.POST("", s.addToCart)
			cartRoutes.PUT("/:id", s.updateCartItem)
			cartRoutes.DELETE("/:id", s.removeCartItem)
			cartRoutes.DELETE("", s.clearCart)
		}

		// Product management (admin only)
		managementRoutes := api.Group("/product-management")
		managementRoutes.Use(requireUser(s.db, s.logger), requireAdmin(s.logger))
		{
			managementRoutes.POST("", s.createProduct)
			managementRoutes.PUT("/:id", s.updateProduct)
			managementRoutes.DELETE("/:id", s.deleteProduct)
		}
	}

	s.router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Endpoint not found")
	})
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Msg("HTTP request")
	}
}

// @Router /health-check [get]
// @Success 200 {object} envelope
func (s *Server) healthCheck(c *gin.Context) {
	respond(c, http.StatusOK, "ok", nil)
}

// Handler returns the HTTP handler, for in-process use
func (s *Server) Handler() http.Handler {
	return s.router
}

// GetDB returns the database connection
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start serves on the configured address until SIGINT or SIGTERM
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %w", err)
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")

	return nil
}
