package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Live notification stream
// @Description Websocket carrying ticket change events for the caller. The access token may be passed as the token query parameter.
// @Tags notifications
// @Param token query string false "access token"
// @Success 101
// @Router /api/ws [get]
func (h *Handler) LiveStream(c *gin.Context) {
	if h.Live == nil {
		writeError(c, http.StatusServiceUnavailable, "LIVE_DISABLED", "Live channel is not configured", nil)
		return
	}
	h.Live.Serve(c.Writer, c.Request, mustActor(c).UserID)
}
