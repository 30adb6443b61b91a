package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/studyshare/extraction-service/api/handlers"
	"github.com/studyshare/extraction-service/api/middleware"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	extractions := v1.Group("/extractions")
	{
		extractions.POST("", h.Extraction.Create)
		extractions.POST("/sync", h.Extraction.ExtractSync)
		extractions.GET("/:jobId", h.Extraction.GetJob)
		extractions.DELETE("/:jobId", h.Extraction.Cancel)
	}
}
