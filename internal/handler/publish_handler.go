package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/coordinator"
	"github.com/speakpost/speakpost-backend/pkg/ginutil"
)

// PublishHandler triggers publish dispatch
type PublishHandler struct {
	coord *coordinator.Coordinator
}

// NewPublishHandler creates a new PublishHandler
func NewPublishHandler(coord *coordinator.Coordinator) *PublishHandler {
	return &PublishHandler{coord: coord}
}

// Publish fans the working draft out to its automated targets.
// With ?stream=true, per-target progress events are pushed over the
// WebSocket subscription while the final map is still returned here.
func (h *PublishHandler) Publish(c *gin.Context) {
	stream := ginutil.QueryBool(c, "stream", false)

	var result interface{}
	var err error
	if stream {
		result, err = h.coord.PublishStream(c.Request.Context())
	} else {
		result, err = h.coord.Publish(c.Request.Context())
	}

	if err != nil {
		respondCoordinatorError(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}
