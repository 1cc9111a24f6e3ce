package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares. Authenticate never rejects; guards are per route.
	router.Use(
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Metrics(c.Metrics),
		middleware.Authenticate(c.Resolver),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("", apiRootHandler)
		v1.GET("/health", healthCheckHandler(c))
		v1.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

		setupAuthRoutes(v1, c)
		setupPostRoutes(v1, c)
		setupCommentRoutes(v1, c)
		setupCategoryRoutes(v1, c)
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
		auth.GET("/login", c.UserHandler.LoginPage)
		auth.POST("/login", c.UserHandler.Login)
		// anonymous logout is answered with NOT_AUTHENTICATED by the handler
		auth.POST("/logout", c.UserHandler.Logout)
		auth.GET("/me", c.UserHandler.Me)
	}
}

// ========================================
// POST ROUTES
// ========================================
func setupPostRoutes(v1 *gin.RouterGroup, c *container.Container) {
	posts := v1.Group("/posts")
	{
		posts.GET("", c.PostHandler.List)
		posts.POST("", middleware.RequireAuth(), c.PostHandler.Create)
		posts.GET("/:post", c.PostHandler.Get)
		posts.PUT("/:post", middleware.RequireAuth(), c.PostHandler.Update)
		posts.PATCH("/:post", middleware.RequireAuth(), c.PostHandler.Patch)
		posts.DELETE("/:post", middleware.RequireAuth(), c.PostHandler.Delete)

		posts.POST("/:post/like", middleware.RequireAuth(), c.PostHandler.Like)
		posts.DELETE("/:post/like", middleware.RequireAuth(), c.PostHandler.Unlike)

		// :post is the post id here
		posts.GET("/:post/comments", c.CommentHandler.ListByPost)
		posts.POST("/:post/comments", middleware.RequireAuth(), c.CommentHandler.Create)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	comments := v1.Group("/comments")
	{
		comments.GET("/:id", c.CommentHandler.Get)
		comments.PUT("/:id", middleware.RequireAuth(), c.CommentHandler.Update)
		comments.PATCH("/:id", middleware.RequireAuth(), c.CommentHandler.Update)
		comments.DELETE("/:id", middleware.RequireAuth(), c.CommentHandler.Delete)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	category := v1.Group("/categories")
	{
		category.GET("", c.CategoryHandler.List)
		category.POST("", middleware.RequireAuth(), middleware.RequireStaff(), c.CategoryHandler.Create)
		category.GET("/:id", c.CategoryHandler.GetByID)
		category.DELETE("/:id", middleware.RequireAuth(), middleware.RequireStaff(), c.CategoryHandler.Delete)
		category.GET("/:id/posts", c.PostHandler.ListByCategory)
	}
}

// ========================================
// OPS
// ========================================

// apiRootHandler lists the top-level resources, mostly for the browsable view
func apiRootHandler(c *gin.Context) {
	base := response.RequestURL(c)
	base.RawQuery = ""
	link := func(path string) string {
		u := *base
		u.Path = "/api/v1" + path
		return u.String()
	}

	response.Success(c, http.StatusOK, gin.H{
		"posts":      link("/posts"),
		"categories": link("/categories"),
		"login":      link("/auth/login"),
		"register":   link("/auth/register"),
		"me":         link("/auth/me"),
	})
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
			if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = stats
			}
		}

		// Check redis. Sessions live there, so a failure degrades login.
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
			health["status"] = "degraded"
		} else if err := appCtx.Redis.HealthCheck(c.Request.Context()); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
