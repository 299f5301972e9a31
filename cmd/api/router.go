package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"oneshot-backend/internal/shared/middleware"
	"oneshot-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.FrontendURL),
		middleware.Metrics(c.Metrics),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	// Generated pages and uploaded media
	router.Static("/profiles", c.Config.Paths.ProfilesDir)
	router.Static("/uploads", c.Config.Paths.UploadDir)

	api := router.Group("/api")
	{
		setupProfileRoutes(api, c)
		setupVCardRoutes(api, c)
		setupUploadRoutes(api, c)
		setupContactRoutes(api, c)
		setupAuthRoutes(api, c)
	}

	router.NoRoute(notFoundHandler)

	return router
}

// ========================================
// PROFILE ROUTES
// ========================================
func setupProfileRoutes(api *gin.RouterGroup, c *container.Container) {
	c.ProfileHandler.RegisterRoutes(api.Group("/profiles"), middleware.OptionalAuth(c.JWTManager))
}

// ========================================
// VCARD ROUTES
// ========================================
func setupVCardRoutes(api *gin.RouterGroup, c *container.Container) {
	c.VCardHandler.RegisterRoutes(api.Group("/vcard"))
}

// ========================================
// UPLOAD ROUTES
// ========================================
func setupUploadRoutes(api *gin.RouterGroup, c *container.Container) {
	c.UploadHandler.RegisterRoutes(api.Group("/upload"))
}

// ========================================
// CONTACT ROUTES
// ========================================
func setupContactRoutes(api *gin.RouterGroup, c *container.Container) {
	c.ContactHandler.RegisterRoutes(api.Group("/contact"))
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	c.AuthHandler.RegisterRoutes(api.Group("/auth"), middleware.AuthMiddleware(c.JWTManager))
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"port":      appCtx.Config.App.Port,
		}

		// memory driver has nothing to ping
		dbStatus := "memory"
		statusCode := http.StatusOK
		if appCtx.Config.App.StorageDriver == "postgres" {
			dbStatus = "ok"
			if appCtx.DB == nil {
				dbStatus = "disconnected"
			} else {
				ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
				defer cancel()
				if err := appCtx.DB.Ping(ctx); err != nil {
					dbStatus = fmt.Sprintf("error: %v", err)
				}
			}
			if dbStatus != "ok" {
				health["status"] = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := appCtx.Redis.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		c.JSON(statusCode, health)
	}
}

func notFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":     "Not Found",
		"message":   fmt.Sprintf("Route %s not found", c.Request.URL.Path),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
