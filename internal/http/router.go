package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/material-inventory-backend/internal/http/handlers"
	"github.com/yungbote/material-inventory-backend/internal/http/middleware"
)

type RouterConfig struct {
	ServiceName      string
	AllowOrigins     []string
	UploadDir        string
	ServeUploads     bool
	HealthHandler    *handlers.HealthHandler
	AuthHandler      *handlers.AuthHandler
	DropdownHandler  *handlers.DropdownHandler
	MaterialHandler  *handlers.MaterialHandler
	DashboardHandler *handlers.DashboardHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Material Inventory API is running"})
	})
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	if cfg.ServeUploads {
		router.Static("/uploads", cfg.UploadDir)
	}

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/logout", cfg.AuthHandler.Logout)
		auth.GET("/check", cfg.AuthHandler.Check)
	}

	protected := api.Group("")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	dropdowns := protected.Group("/dropdowns")
	{
		dropdowns.GET("/:type", cfg.DropdownHandler.ListByType)
		dropdowns.GET("/:type/options", cfg.DropdownHandler.ListAllOptions)
		dropdowns.POST("", cfg.DropdownHandler.Create)
		dropdowns.PUT("/:id", cfg.DropdownHandler.Update)
		dropdowns.DELETE("/:id", cfg.DropdownHandler.Delete)
	}

	materials := protected.Group("/materials")
	{
		materials.GET("", cfg.MaterialHandler.List)
		materials.POST("", cfg.MaterialHandler.Create)
		materials.GET("/:id", cfg.MaterialHandler.Get)
		materials.PUT("/:id", cfg.MaterialHandler.Update)
		materials.PATCH("/:id/toggle-status", cfg.MaterialHandler.ToggleStatus)
		materials.DELETE("/:id", cfg.MaterialHandler.Delete)
		materials.POST("/:id/images", cfg.MaterialHandler.UploadImages)
		materials.DELETE("/:id/images/:imageId", cfg.MaterialHandler.DeleteImage)
		materials.PUT("/:id/images/:imageId/primary", cfg.MaterialHandler.SetPrimaryImage)
	}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/stats", cfg.DashboardHandler.Stats)
	}

	return router
}
