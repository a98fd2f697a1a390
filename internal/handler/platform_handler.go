package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speakpost/speakpost-backend/internal/auth"
	"github.com/speakpost/speakpost-backend/internal/catalog"
	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/coordinator"
	"github.com/speakpost/speakpost-backend/internal/domain"
)

// PlatformHandler exposes the capability catalog and sub-account selection
type PlatformHandler struct {
	coord *coordinator.Coordinator
	auth  auth.Provider
}

// NewPlatformHandler creates a new PlatformHandler
func NewPlatformHandler(coord *coordinator.Coordinator, authState auth.Provider) *PlatformHandler {
	return &PlatformHandler{coord: coord, auth: authState}
}

// platformInfo merges static capability with live auth state
type platformInfo struct {
	Platform                 domain.Platform `json:"platform"`
	DisplayName              string          `json:"display_name"`
	RequiresMedia            bool            `json:"requires_media"`
	SupportsAutomatedPosting bool            `json:"supports_automated_posting"`
	RequiresBusinessAccount  bool            `json:"requires_business_account"`
	Authenticated            bool            `json:"authenticated"`
}

// List returns every platform's capability profile with live auth state
func (h *PlatformHandler) List(c *gin.Context) {
	caps := catalog.All()
	out := make([]platformInfo, 0, len(caps))
	for _, cap := range caps {
		out = append(out, platformInfo{
			Platform:                 cap.Platform,
			DisplayName:              cap.DisplayName,
			RequiresMedia:            cap.RequiresMedia,
			SupportsAutomatedPosting: cap.SupportsAutomatedPosting,
			RequiresBusinessAccount:  cap.RequiresBusinessAccount,
			Authenticated:            h.auth.IsAuthenticated(cap.Platform),
		})
	}
	common.SuccessResponse(c, out, nil)
}

// SubAccounts lists the sub-accounts available for a platform
func (h *PlatformHandler) SubAccounts(c *gin.Context) {
	p := domain.Platform(c.Param("platform"))
	if !p.IsValid() {
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown platform", nil)
		return
	}
	common.SuccessResponse(c, h.auth.SubAccountsFor(p), nil)
}

// selectSubAccountRequest chooses a sub-account by ID
type selectSubAccountRequest struct {
	SubAccountID string `json:"sub_account_id" binding:"required"`
}

// SelectSubAccount chooses the sub-account used for a platform
func (h *PlatformHandler) SelectSubAccount(c *gin.Context) {
	p := domain.Platform(c.Param("platform"))
	if !p.IsValid() {
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown platform", nil)
		return
	}

	var req selectSubAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid sub-account selection", err)
		return
	}

	for _, sub := range h.auth.SubAccountsFor(p) {
		if sub.ID == req.SubAccountID {
			if err := h.coord.SelectSubAccount(p, sub); err != nil {
				respondCoordinatorError(c, err)
				return
			}
			common.SuccessResponse(c, gin.H{"selected": sub.ID}, nil)
			return
		}
	}
	common.ErrorResponse(c, http.StatusNotFound, "Sub-account not found", nil)
}
