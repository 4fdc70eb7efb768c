package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(api, c)
		setupBookRoutes(api, c)
		setupReviewRoutes(api, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	api.POST("/signup", c.UserHandler.Signup)
	api.POST("/login", c.UserHandler.Login)
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	api.GET("/search", c.BookHandler.SearchBooks)

	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBookDetail)
		books.POST("", auth, c.BookHandler.AddBook)
		books.POST("/:id/reviews", auth, c.ReviewHandler.AddReview)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(api *gin.RouterGroup, c *container.Container) {
	reviews := api.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		reviews.PUT("/:id", c.ReviewHandler.UpdateReview)
		reviews.DELETE("/:id", c.ReviewHandler.DeleteReview)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"store":     appCtx.Config.Store.Driver,
		}

		if appCtx.DB != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = stats
			}
		}

		if err := appCtx.HealthCheck(ctx); err != nil {
			health["status"] = "degraded"
			health["error"] = err.Error()
			response.Success(c, http.StatusServiceUnavailable, health)
			return
		}

		response.Success(c, http.StatusOK, health)
	}
}
