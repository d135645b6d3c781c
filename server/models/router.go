package models

import (
	"time"

	"filebin/server/env"
	"filebin/server/logger"
	custommiddleware "filebin/server/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures and starts the HTTP server
func (m *Models) SetupRoutes() {
	e := echo.New()
	e.HideBanner = true

	e.Use(custommiddleware.RequestLoggerWithSkipper(func(c echo.Context) bool {
		return c.Request().URL.Path == "/health"
	}))
	e.Use(custommiddleware.RecoverWithLogger())
	e.Use(middleware.CORS())

	// Rate limit middleware for auth endpoints
	authRateLimit := custommiddleware.RateLimitByIP(m.redisClient, 10, time.Minute)

	// Public routes
	e.GET("/health", m.authHandler.HealthCheck)
	if env.E.Features.EnableRegistration {
		e.POST("/register", m.authHandler.Register, authRateLimit)
	}
	e.POST("/login", m.authHandler.Login, authRateLimit)

	// Protected routes (require authentication)
	protected := e.Group("/api")
	protected.Use(custommiddleware.JWTMiddleware(func(token string) (interface{}, error) {
		return m.jwtService.ValidateToken(token)
	}))
	{
		if env.E.Features.EnableTokenRevoke {
			protected.POST("/revoke", m.authHandler.RevokeToken)
		}
		protected.GET("/me", m.authHandler.Me)

		protected.POST("/files", m.fileHandler.Upload)
		protected.POST("/files/batch", m.fileHandler.UploadBatch)
		protected.GET("/files", m.fileHandler.List)
		protected.GET("/files/stats", m.fileHandler.Stats)
		protected.GET("/files/:id", m.fileHandler.GetByID)
		protected.GET("/files/:id/raw", m.fileHandler.Raw)
	}

	serverAddr := ":" + env.E.GetServerPort()
	logger.Infof("Server starting on %s...", serverAddr)
	logger.Info("Available endpoints:")
	logger.Info("  POST /register            - Register a new user")
	logger.Info("  POST /login               - Login and get JWT token")
	logger.Info("  POST /api/revoke          - Revoke tokens (requires auth)")
	logger.Info("  GET  /api/me              - Authenticated identity (requires auth)")
	logger.Info("  POST /api/files           - Upload a file (requires auth, max 8MB)")
	logger.Info("  POST /api/files/batch     - Upload several files (requires auth)")
	logger.Info("  GET  /api/files           - List all files for user (requires auth)")
	logger.Info("  GET  /api/files/stats     - File counts (requires auth)")
	logger.Info("  GET  /api/files/:id       - Get a file record (requires auth)")
	logger.Info("  GET  /api/files/:id/raw   - Download decoded content (requires auth)")
	logger.Info("  GET  /health              - Health check")

	go func() {
		if err := e.Start(serverAddr); err != nil {
			logger.Errorf("Server stopped: %v", err)
		}
	}()
}
