package main

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"happy-thoughts/internal/shared/middleware"
	"happy-thoughts/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
	)

	router.GET("/", endpointsHandler(router))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupThoughtRoutes(v1, c)
		setupTagRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.RefreshToken)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.GET("/me/thoughts", c.ThoughtHandler.ListMyThoughts)
	}
}

// ========================================
// THOUGHT ROUTES
// ========================================
func setupThoughtRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	thoughts := v1.Group("/thoughts")
	thoughts.Use(middleware.OptionalAuthMiddleware(c.JWTManager))
	{
		// Public, the token only personalizes "liked"
		thoughts.GET("", c.ThoughtHandler.ListThoughts)
		thoughts.GET("/trending", c.ThoughtHandler.GetTrending)
		thoughts.GET("/tags/:tag", c.ThoughtHandler.GetByTag)
		thoughts.GET("/:id", c.ThoughtHandler.GetThought)

		// Anonymous allowed
		thoughts.POST("", c.ThoughtHandler.CreateThought)
		thoughts.POST("/:id/like", c.ThoughtHandler.LikeThought)

		// Owner only
		thoughts.PATCH("/:id", auth, c.ThoughtHandler.UpdateThought)
		thoughts.DELETE("/:id", auth, c.ThoughtHandler.DeleteThought)
	}
}

// ========================================
// TAG ROUTES
// ========================================
func setupTagRoutes(v1 *gin.RouterGroup, c *container.Container) {
	tags := v1.Group("/tags")
	{
		tags.GET("", c.ThoughtHandler.ListTags)
		tags.GET("/categories", c.ThoughtHandler.ListCategories)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.POST("/thoughts/backfill-tags", c.ThoughtHandler.BackfillTags)
	}
}

// ========================================
// SYSTEM HANDLERS
// ========================================

// endpointsHandler lists every registered route
func endpointsHandler(router *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := router.Routes()
		endpoints := make([]gin.H, 0, len(routes))
		for _, r := range routes {
			endpoints = append(endpoints, gin.H{"method": r.Method, "path": r.Path})
		}
		sort.Slice(endpoints, func(i, j int) bool {
			pi, pj := endpoints[i]["path"].(string), endpoints[j]["path"].(string)
			if pi != pj {
				return pi < pj
			}
			return endpoints[i]["method"].(string) < endpoints[j]["method"].(string)
		})

		c.JSON(http.StatusOK, gin.H{
			"name":      "Happy Thoughts API",
			"endpoints": endpoints,
		})
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		services := gin.H{}

		for name, check := range appCtx.HealthChecks() {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := check(ctx)
			cancel()

			if err != nil {
				services[name] = "error: " + err.Error()
				status = "degraded"
				continue
			}
			services[name] = "ok"
		}

		if appCtx.DB != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				services["database_pool"] = stats
			}
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"storage":   appCtx.Config.Storage.Driver,
			"services":  services,
		})
	}
}
