package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the health check and every /api endpoint on r
func RegisterRoutes(r *gin.Engine, cases *CaseHandler, files *FileHandler, batch *BatchHandler, atlasHandler *AtlasHandler) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		// Case document endpoints
		api.GET("/files", cases.ListFiles)
		api.POST("/files/upload", files.UploadFile)
		api.GET("/html/:filename", cases.GetHTML)
		api.GET("/output/exists/:filename", cases.OutputExists)
		api.GET("/output/:filename", cases.GetOutput)
		api.POST("/analyze/:filename", cases.Analyze)
		api.GET("/records/:id", cases.GetRecord)

		// Job endpoints
		api.GET("/jobs/:id", cases.GetJobStatus)

		// Batch endpoints
		api.GET("/batch/status", batch.Status)
		api.POST("/batch/run", batch.Run)

		// Atlas endpoints
		api.GET("/atlas/fields", atlasHandler.ListFields)
		api.GET("/atlas/available", atlasHandler.AvailableFields)
		api.GET("/atlas/groups", atlasHandler.Groups)
		api.POST("/atlas/groups", atlasHandler.Groups)
	}
}
