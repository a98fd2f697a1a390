package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/coordinator"
)

// PipelineHandler exposes the recording/processing lifecycle
type PipelineHandler struct {
	coord *coordinator.Coordinator
}

// NewPipelineHandler creates a new PipelineHandler
func NewPipelineHandler(coord *coordinator.Coordinator) *PipelineHandler {
	return &PipelineHandler{coord: coord}
}

// StartRecording begins a new recording
func (h *PipelineHandler) StartRecording(c *gin.Context) {
	if err := h.coord.StartRecording(); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// amplitudeRequest is one amplitude sample from the recorder
type amplitudeRequest struct {
	Level float64 `json:"level" binding:"required"`
}

// Amplitude ingests an amplitude sample during recording
func (h *PipelineHandler) Amplitude(c *gin.Context) {
	var req amplitudeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid amplitude sample", err)
		return
	}
	h.coord.UpdateAmplitude(req.Level)
	c.Status(http.StatusNoContent)
}

// StopRecording ends the recording; silence is reported as a warning,
// not a server error
func (h *PipelineHandler) StopRecording(c *gin.Context) {
	err := h.coord.StopRecording()
	if errors.Is(err, common.ErrNoSpeech) {
		common.SuccessResponse(c, h.coord.Snapshot(), nil)
		return
	}
	if err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// transcriptRequest carries the speech-to-text result
type transcriptRequest struct {
	Text string `json:"text" binding:"required"`
}

// Transcript runs the pipeline for a transcript
func (h *PipelineHandler) Transcript(c *gin.Context) {
	var req transcriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid transcript", err)
		return
	}

	if err := h.coord.ProcessTranscription(c.Request.Context(), req.Text); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// Status returns the current coordinator snapshot
func (h *PipelineHandler) Status(c *gin.Context) {
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// Buckets returns the current automated/manual partition
func (h *PipelineHandler) Buckets(c *gin.Context) {
	common.SuccessResponse(c, h.coord.ComputeBuckets(), nil)
}

// Reset discards the current draft
func (h *PipelineHandler) Reset(c *gin.Context) {
	if err := h.coord.Reset(); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// respondCoordinatorError maps coordinator errors onto HTTP statuses
func respondCoordinatorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrBusy):
		common.ErrorResponse(c, http.StatusConflict, "Another operation is in progress, retry shortly", err)
	case errors.Is(err, common.ErrInvalidState):
		common.ErrorResponse(c, http.StatusConflict, "Operation not allowed in current state", err)
	case errors.Is(err, common.ErrDisposed):
		common.ErrorResponse(c, http.StatusGone, "Coordinator has been shut down", err)
	case errors.Is(err, common.ErrDraftNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Draft not found", err)
	case errors.Is(err, common.ErrEmptyDraft):
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "Draft has no text or media", err)
	case errors.Is(err, common.ErrNoTargets):
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "No target platforms selected", err)
	case errors.Is(err, common.ErrProcessingExpired):
		common.ErrorResponse(c, http.StatusGatewayTimeout, "Processing timed out", err)
	case errors.Is(err, common.ErrSessionOpen), errors.Is(err, common.ErrNoSession):
		common.ErrorResponse(c, http.StatusConflict, "Editing session state conflict", err)
	case errors.Is(err, common.ErrUnknownPlatform):
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown platform", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal error", err)
	}
}
