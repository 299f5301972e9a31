// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"oneshot-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/rs/zerolog/log"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	redisClient *redis.Client
	container   *container.Container
}

// startServices checks dependencies and starts the health endpoint
func startServices(c *container.Container) error {
	log.Info().Str("env", c.Config.App.Environment).Msg("OneShot worker starting")

	cfg := c.Config.Redis
	checker := &HealthChecker{
		redisClient: redis.NewClient(&redis.Options{
			Addr:     cfg.Host,
			Password: cfg.Password,
			DB:       cfg.DB,
			MaintNotificationsConfig: &maintnotifications.Config{
				Mode: maintnotifications.ModeDisabled,
			},
		}),
		container: c,
	}
	defer checker.redisClient.Close()

	if err := checker.checkAll(); err != nil {
		return err
	}

	go startHealthCheckServer(c)

	return nil
}

// checkAll runs all health checks
func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"Redis Connection", h.checkRedis},
		{"Database", h.checkDatabase},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}

	return nil
}

// checkRedis verifies the queue backend is reachable
func (h *HealthChecker) checkRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return h.redisClient.Ping(ctx).Err()
}

// checkDatabase pings Postgres when the postgres driver is configured
func (h *HealthChecker) checkDatabase() error {
	if h.container.DB == nil {
		return nil
	}
	return h.container.DB.Ping(context.Background())
}

// startHealthCheckServer serves /health, /ready and the worker's /metrics
func startHealthCheckServer(c *container.Container) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", healthCheckHandler)
	router.GET("/ready", readyCheckHandler)
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	addr := ":" + c.Config.Worker.HealthPort
	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}

func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "oneshot-worker"})
}

// readyCheckHandler handles /ready (Kubernetes readiness probe)
func readyCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "READY"})
}
