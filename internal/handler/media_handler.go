package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/domain"
	"github.com/speakpost/speakpost-backend/internal/media"
)

// MediaHandler exposes media library search
type MediaHandler struct {
	resolver media.Resolver
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(resolver media.Resolver) *MediaHandler {
	return &MediaHandler{resolver: resolver}
}

// Search returns candidate media for a query, optionally filtered by kind
func (h *MediaHandler) Search(c *gin.Context) {
	query := c.Query("q")

	var kinds []domain.MediaKind
	switch c.Query("kind") {
	case "image":
		kinds = []domain.MediaKind{domain.MediaKindImage}
	case "video":
		kinds = []domain.MediaKind{domain.MediaKindVideo}
	case "", "any":
		// no filter
	default:
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown media kind", nil)
		return
	}

	refs, err := h.resolver.Search(c.Request.Context(), query, kinds)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Media search failed", err)
		return
	}
	common.SuccessResponse(c, refs, nil)
}
