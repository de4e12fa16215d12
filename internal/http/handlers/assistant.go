package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssistantMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// @Summary Ask the AI assistant
// @Tags ai
// @Accept json
// @Produce json
// @Param body body AssistantMessageRequest true "message"
// @Success 200 {object} map[string]string
// @Failure 429 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Failure 504 {object} map[string]any
// @Security BearerAuth
// @Router /api/ai/message [post]
func (h *Handler) AssistantMessage(c *gin.Context) {
	var req AssistantMessageRequest
	if !h.bind(c, &req) {
		return
	}
	reply, err := h.Assistant.Send(c.Request.Context(), mustActor(c), req.Message)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply.Message})
}

// @Summary Conversation history
// @Tags ai
// @Produce json
// @Success 200 {array} models.AIConversation
// @Security BearerAuth
// @Router /api/ai/history [get]
func (h *Handler) AssistantHistory(c *gin.Context) {
	items, err := h.Assistant.History(c.Request.Context(), mustActor(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
