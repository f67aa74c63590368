package handlers

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"pod-design-backend/internal/middleware"
)

type RouterConfig struct {
	Health   *HealthHandler
	Catalog  *CatalogHandler
	Designs  *DesignsHandler
	Uploads  *UploadsHandler
	Products *ProductsHandler

	Logger         zerolog.Logger
	AllowedOrigins []string
	// ArtifactDir is served under /artifacts when set.
	ArtifactDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET("/health", cfg.Health.Health)
	if cfg.ArtifactDir != "" {
		router.Static("/artifacts", cfg.ArtifactDir)
	}

	api := router.Group("/api/v1")

	// Catalog
	api.GET("/shops", cfg.Catalog.GetShops)
	api.GET("/blueprints", cfg.Catalog.GetBlueprints)
	api.GET("/blueprints/:id", cfg.Catalog.GetBlueprint)
	api.GET("/blueprints/:id/providers", cfg.Catalog.GetPrintProviders)
	api.GET("/blueprints/:id/providers/:pid/variants", cfg.Catalog.GetVariants)
	api.GET("/blueprints/:id/providers/:pid/print-areas", cfg.Catalog.GetPrintAreas)

	// Designs and uploads
	api.POST("/designs/generate", cfg.Designs.Generate)
	api.POST("/uploads", cfg.Uploads.Upload)

	// Products
	api.POST("/shops/:shop_id/products", cfg.Products.CreateProduct)
	api.PUT("/shops/:shop_id/products/:product_id", cfg.Products.UpdateProduct)
	api.POST("/shops/:shop_id/products/:product_id/publish", cfg.Products.PublishProduct)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
