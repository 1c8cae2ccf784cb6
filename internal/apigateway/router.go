package apigateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transcript-eval-platform/backend/internal/auth"
	"transcript-eval-platform/backend/internal/datamanagement"
	"transcript-eval-platform/backend/internal/jobmanagement"
)

// SetupRouter initializes the main Gin router: public auth routes, a health
// probe, and the authenticated evaluation API.
func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes (login/logout).
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", auth.LoginHandler)
		authRoutes.POST("/logout", auth.LogoutHandler)
	}

	// Authenticated evaluation API.
	api := router.Group("/api/evals")
	api.Use(auth.Middleware())
	{
		datasetRoutes := api.Group("/datasets")
		{
			datasetRoutes.POST("/upload", datamanagement.UploadWorkbookHandler)
			datasetRoutes.POST("/text-entries", datamanagement.SubmitTextFieldsHandler)
			datasetRoutes.GET("/documents", datamanagement.ListDocumentsHandler)
			datasetRoutes.GET("/documents/:id", datamanagement.GetDocumentHandler)
			datasetRoutes.GET("/universal", datamanagement.GetUniversalDatasetHandler)
		}

		jobRoutes := api.Group("/jobs")
		{
			jobRoutes.POST("", jobmanagement.CreateEvalJobHandler)
			jobRoutes.POST("/upload-and-process", jobmanagement.UploadAndProcessHandler)
			jobRoutes.GET("", jobmanagement.ListJobsHandler)
			jobRoutes.GET("/:id", jobmanagement.GetJobHandler)
		}

		outputRoutes := api.Group("/outputs")
		{
			outputRoutes.GET("", jobmanagement.ListOutputsHandler)
			outputRoutes.GET("/:id", jobmanagement.GetOutputHandler)
			outputRoutes.GET("/:id/download", jobmanagement.DownloadOutputHandler)
		}
	}

	return router
}
