package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/outfitplanner/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Server.UploadDir != "" {
		router.Static(uploadURLPrefix, cfg.Server.UploadDir)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/products/search", handler.SearchProducts)
		v1.GET("/recommend", handler.Recommend)

		wardrobe := v1.Group("/wardrobe")
		{
			wardrobe.GET("", handler.ListWardrobe)
			wardrobe.POST("", handler.AddWardrobeItem)
			wardrobe.DELETE("", handler.ClearWardrobe)
			wardrobe.GET("/:id", handler.GetWardrobeItem)
			wardrobe.PUT("/:id", handler.UpdateWardrobeItem)
			wardrobe.DELETE("/:id", handler.DeleteWardrobeItem)
			wardrobe.POST("/embeddings/refresh", handler.RefreshEmbeddings)
		}

		users := v1.Group("/users/:user")
		{
			users.GET("/cart", handler.ListCart)
			users.POST("/cart", handler.AddToCart)
			users.DELETE("/cart/:id", handler.RemoveFromCart)
			users.POST("/outfits/build", handler.BuildOutfits)
			users.GET("/outfits", handler.ListOutfits)
			users.POST("/outfits", handler.SaveOutfit)
		}
	}

	return router
}
