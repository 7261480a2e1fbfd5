// Package apigateway assembles the HTTP routes of the evaluation service.
package apigateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-speaking-eval/backend/internal/answermanagement"
)

// SetupRouter builds the Gin router with the answer management routes.
func SetupRouter(handlers *answermanagement.Handlers) *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		answerRoutes := api.Group("/answers")
		{
			answerRoutes.POST("", handlers.CreateAnswerHandler)
			answerRoutes.GET("/:id", handlers.GetAnswerHandler)
			answerRoutes.POST("/:id/audio", handlers.UploadAudioHandler)
			answerRoutes.GET("/:id/logs", handlers.ListAnswerLogsHandler)
		}

		sessionRoutes := api.Group("/sessions")
		{
			sessionRoutes.GET("/:id/answers", handlers.ListSessionAnswersHandler)
			sessionRoutes.GET("/:id/stats", handlers.GetSessionStatsHandler)
		}

		api.POST("/score", handlers.ScoreTranscriptHandler)
	}

	return router
}
