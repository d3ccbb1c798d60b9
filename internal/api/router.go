package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mkovacs/citation-judge/internal/api/run"
)

// SetupRouter configures all routes
func SetupRouter(r *gin.Engine) {
	r.Use(CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "citation-judge",
		})
	})

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Citation accuracy run storage is running",
			"version": "1.0.0",
		})
	})

	// Run storage routes
	v1 := r.Group("/api")
	{
		runs := v1.Group("/runs")
		{
			runs.POST("", run.CreateRun)
			runs.GET("", run.ListRuns)
			runs.GET("/:run_id", run.GetRun)
			runs.PUT("/:run_id", run.UpdateRun)
			runs.POST("/:run_id/complete", run.CompleteRun)
			runs.DELETE("/:run_id", run.DeleteRun)
		}
	}
}

// CORSMiddleware provides CORS support
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
