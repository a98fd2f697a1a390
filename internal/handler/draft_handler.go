package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/coordinator"
	"github.com/speakpost/speakpost-backend/internal/domain"
	"github.com/speakpost/speakpost-backend/internal/repository"
	"github.com/speakpost/speakpost-backend/pkg/ginutil"
)

// DraftHandler exposes draft history and draft editing operations
type DraftHandler struct {
	coord *coordinator.Coordinator
	repo  repository.DraftRepository
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(coord *coordinator.Coordinator, repo repository.DraftRepository) *DraftHandler {
	return &DraftHandler{coord: coord, repo: repo}
}

// requireRepo rejects history operations when no database is configured
func (h *DraftHandler) requireRepo(c *gin.Context) bool {
	if h.repo == nil {
		common.ErrorResponse(c, http.StatusServiceUnavailable, "Draft history unavailable", nil)
		return false
	}
	return true
}

// List returns draft history, newest first
func (h *DraftHandler) List(c *gin.Context) {
	if !h.requireRepo(c) {
		return
	}
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	records, total, err := h.repo.List(page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list drafts", err)
		return
	}

	common.SuccessResponse(c, records, &common.Meta{Page: page, Limit: limit, Total: total})
}

// Load replaces the working draft with a historical one
func (h *DraftHandler) Load(c *gin.Context) {
	id := c.Param("id")

	if err := h.coord.LoadDraft(c.Request.Context(), id); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// Delete removes a draft from history
func (h *DraftHandler) Delete(c *gin.Context) {
	if !h.requireRepo(c) {
		return
	}
	if err := h.repo.Delete(c.Param("id")); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete draft", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// ErrorLog returns the append-only publish error log for a draft
func (h *DraftHandler) ErrorLog(c *gin.Context) {
	if !h.requireRepo(c) {
		return
	}
	entries, err := h.repo.ErrorLog(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load error log", err)
		return
	}
	common.SuccessResponse(c, entries, nil)
}

// selectMediaRequest carries user-chosen media references
type selectMediaRequest struct {
	Media []domain.MediaReference `json:"media" binding:"required"`
}

// SelectMedia attaches media to the working draft
func (h *DraftHandler) SelectMedia(c *gin.Context) {
	var req selectMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid media selection", err)
		return
	}

	if err := h.coord.SelectMedia(req.Media); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// BeginTextEdit opens the text editing session
func (h *DraftHandler) BeginTextEdit(c *gin.Context) {
	buffer, err := h.coord.BeginTextEdit()
	if err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"text": buffer}, nil)
}

type commitTextRequest struct {
	Text string `json:"text"`
}

// CommitTextEdit commits the edited text back into the draft
func (h *DraftHandler) CommitTextEdit(c *gin.Context) {
	var req commitTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid text", err)
		return
	}

	if err := h.coord.CommitTextEdit(req.Text); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// CancelTextEdit discards the text editing session
func (h *DraftHandler) CancelTextEdit(c *gin.Context) {
	if err := h.coord.CancelTextEdit(); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"canceled": true}, nil)
}

// BeginHashtagEdit opens the hashtag editing session
func (h *DraftHandler) BeginHashtagEdit(c *gin.Context) {
	buffer, err := h.coord.BeginHashtagEdit()
	if err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"hashtags": buffer}, nil)
}

type commitHashtagsRequest struct {
	Hashtags []string `json:"hashtags"`
}

// CommitHashtagEdit commits the edited hashtag list back into the draft
func (h *DraftHandler) CommitHashtagEdit(c *gin.Context) {
	var req commitHashtagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid hashtags", err)
		return
	}

	if err := h.coord.CommitHashtagEdit(req.Hashtags); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, h.coord.Snapshot(), nil)
}

// CancelHashtagEdit discards the hashtag editing session
func (h *DraftHandler) CancelHashtagEdit(c *gin.Context) {
	if err := h.coord.CancelHashtagEdit(); err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"canceled": true}, nil)
}
