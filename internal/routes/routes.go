package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/speakpost/speakpost-backend/internal/handler"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	pipelineHandler *handler.PipelineHandler,
	draftHandler *handler.DraftHandler,
	publishHandler *handler.PublishHandler,
	mediaHandler *handler.MediaHandler,
	platformHandler *handler.PlatformHandler,
	wsHandler *handler.WSHandler,
) {
	api := router.Group("/api/v1")

	// Voice pipeline lifecycle
	pipeline := api.Group("/pipeline")
	{
		pipeline.POST("/recording/start", pipelineHandler.StartRecording)
		pipeline.POST("/recording/amplitude", pipelineHandler.Amplitude)
		pipeline.POST("/recording/stop", pipelineHandler.StopRecording)
		pipeline.POST("/transcript", pipelineHandler.Transcript)
		pipeline.GET("/status", pipelineHandler.Status)
		pipeline.GET("/buckets", pipelineHandler.Buckets)
		pipeline.POST("/reset", pipelineHandler.Reset)
	}

	// Draft history and editing
	drafts := api.Group("/drafts")
	{
		drafts.GET("", draftHandler.List)
		drafts.POST("/:id/load", draftHandler.Load)
		drafts.DELETE("/:id", draftHandler.Delete)
		drafts.GET("/errors", draftHandler.ErrorLog)

		drafts.PUT("/current/media", draftHandler.SelectMedia)

		// Editing sessions on the active draft
		drafts.POST("/current/text/edit", draftHandler.BeginTextEdit)
		drafts.PUT("/current/text", draftHandler.CommitTextEdit)
		drafts.DELETE("/current/text/edit", draftHandler.CancelTextEdit)
		drafts.POST("/current/hashtags/edit", draftHandler.BeginHashtagEdit)
		drafts.PUT("/current/hashtags", draftHandler.CommitHashtagEdit)
		drafts.DELETE("/current/hashtags/edit", draftHandler.CancelHashtagEdit)
	}

	// Publishing
	api.POST("/publish", publishHandler.Publish)

	// Media library search
	api.GET("/media/search", mediaHandler.Search)

	// Platform catalog and sub-accounts
	platforms := api.Group("/platforms")
	{
		platforms.GET("", platformHandler.List)
		platforms.GET("/:platform/subaccounts", platformHandler.SubAccounts)
		platforms.PUT("/:platform/subaccount", platformHandler.SelectSubAccount)
	}

	// Live coordinator event stream
	router.GET("/ws/events", wsHandler.Connect)
}
