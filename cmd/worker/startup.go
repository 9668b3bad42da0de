package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"happy-thoughts/pkg/container"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	checks map[string]func(context.Context) error
}

// startServices runs the health checks and exposes /health and /ready
func startServices(c *container.Container, cfg *Config) error {
	log.Info().Msg("Happy Thoughts worker starting")

	checker := &HealthChecker{checks: c.HealthChecks()}
	if c.Redis == nil {
		return fmt.Errorf("redis is required by the worker")
	}

	if err := checker.checkAll(context.Background()); err != nil {
		return err
	}

	go startHealthCheckServer(checker, cfg.HealthPort)
	return nil
}

// checkAll runs every check with a 5s timeout each
func (h *HealthChecker) checkAll(ctx context.Context) error {
	for name, check := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(checkCtx)
		cancel()

		if err != nil {
			log.Error().Err(err).Str("check", name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", name, err)
		}
		log.Info().Str("check", name).Msg("Health check OK")
	}
	return nil
}

// startHealthCheckServer serves liveness and readiness probes
func startHealthCheckServer(checker *HealthChecker, port string) {
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "happy-thoughts-worker"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := checker.checkAll(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("port", port).Msg("[Health] Starting health check server")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
