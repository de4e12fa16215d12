package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary List own notifications
// @Tags notifications
// @Produce json
// @Success 200 {array} models.Notification
// @Security BearerAuth
// @Router /api/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	items, err := h.Notifications.List(c.Request.Context(), mustActor(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path int true "notification id"
// @Success 200 {object} models.Notification
// @Security BearerAuth
// @Router /api/notifications/{id}/read [put]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := h.Notifications.MarkRead(c.Request.Context(), mustActor(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// @Summary Delete a notification
// @Tags notifications
// @Param id path int true "notification id"
// @Success 204
// @Security BearerAuth
// @Router /api/notifications/{id} [delete]
func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Notifications.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
