package routes

import (
	"franchise-api/handlers"
	"franchise-api/middleware"
	"franchise-api/utils"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the franchise API. metrics and limiter are optional.
func SetupRoutes(r *gin.Engine, franchiseHandler *handlers.FranchiseHandler, metrics *middleware.Metrics, limiter *middleware.RateLimiter) {
	utils.MustRegisterValidators()

	api := r.Group("/api")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}

	franchises := api.Group("/franchises")
	{
		franchises.POST("", franchiseHandler.CreateFranchise)
		franchises.GET("", franchiseHandler.ListFranchises)
		franchises.GET("/:franchiseId", franchiseHandler.GetFranchise)
		franchises.PATCH("/:franchiseId/name", franchiseHandler.UpdateFranchiseName)
		franchises.GET("/:franchiseId/top-products", franchiseHandler.GetTopProducts)

		// Branches
		franchises.POST("/:franchiseId/branches", franchiseHandler.AddBranch)
		franchises.PATCH("/:franchiseId/branches/:branchId/name", franchiseHandler.UpdateBranchName)

		// Products
		franchises.POST("/:franchiseId/branches/:branchId/products", franchiseHandler.AddProduct)
		franchises.DELETE("/:franchiseId/branches/:branchId/products/:productId", franchiseHandler.DeleteProduct)
		franchises.PUT("/:franchiseId/branches/:branchId/products/:productId/stock", franchiseHandler.UpdateProductStock)
		franchises.PATCH("/:franchiseId/branches/:branchId/products/:productId/name", franchiseHandler.UpdateProductName)
	}

	if metrics != nil {
		r.GET("/metrics", metrics.Handler())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
