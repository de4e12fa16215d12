package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Dashboard statistics
// @Tags stats
// @Produce json
// @Success 200 {object} models.Stats
// @Security BearerAuth
// @Router /api/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Stats.Get(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
