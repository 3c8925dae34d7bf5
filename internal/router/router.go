// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-backend/internal/config"
	"github.com/javajoker/catalog-backend/internal/handlers"
	"github.com/javajoker/catalog-backend/internal/metrics"
	"github.com/javajoker/catalog-backend/internal/middleware"
	"github.com/javajoker/catalog-backend/internal/services"
)

type Services struct {
	Product *services.ProductService
	Storage *services.StorageService
	HiDrive *services.HiDriveService
}

func Initialize(cfg *config.Config, svc Services) *gin.Engine {
	maxUploadSize, _ := cfg.Upload.MaxSizeBytes()

	// Initialize handlers
	productHandler := handlers.NewProductHandler(svc.Product, handlers.ProductHandlerOptions{
		FileFields:    cfg.Upload.FileFields,
		MaxUploadSize: maxUploadSize,
		MaxPageSize:   cfg.Pagination.MaxLimit,
	})
	hidriveHandler := handlers.NewHiDriveHandler(svc.HiDrive)
	systemHandler := handlers.NewSystemHandler()

	limits := middleware.NewRateLimits(cfg.RateLimit)

	// Initialize Gin router
	r := gin.New()
	if maxUploadSize > 0 {
		r.MaxMultipartMemory = maxUploadSize
	}

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(limits.General())

	r.GET("/health", systemHandler.Health)
	r.GET("/system/memory", systemHandler.Memory)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	products := r.Group("/products")
	{
		products.POST("", limits.Upload(), productHandler.UpsertProduct)
		products.GET("", productHandler.GetProducts)
		products.GET("/stats", productHandler.GetStats)
		products.GET("/:articleNumber", productHandler.GetProduct)
		products.DELETE("/:articleNumber", productHandler.DeleteProduct)
	}

	hidrive := r.Group("/hidrive")
	{
		hidrive.GET("/authorize", hidriveHandler.Authorize)
		hidrive.GET("/callback", hidriveHandler.Callback)
	}

	// Documents stored on local disk are served by the API itself
	if svc.Storage != nil && svc.Storage.IsLocal() {
		r.Static("/uploads", cfg.Upload.LocalDir)
	}

	return r
}
