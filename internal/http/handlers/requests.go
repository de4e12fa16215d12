package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/request-tracker/backend/internal/models"
	"github.com/request-tracker/backend/internal/service"
)

type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"max=100"`
}

type UpdateTicketRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
}

type UpdateStatusRequest struct {
	Status       *string `json:"status"`
	AdminComment *string `json:"admin_comment"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// @Summary List own requests
// @Description Anonymous callers receive an empty list.
// @Tags requests
// @Produce json
// @Success 200 {array} models.Ticket
// @Router /api/requests [get]
func (h *Handler) ListRequests(c *gin.Context) {
	var actor *service.Actor
	if a, ok := actorFrom(c); ok {
		actor = &a
	}
	items, err := h.Tickets.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary List every request
// @Tags requests
// @Produce json
// @Success 200 {array} models.Ticket
// @Security BearerAuth
// @Router /api/requests/all [get]
func (h *Handler) ListAllRequests(c *gin.Context) {
	items, err := h.Tickets.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Create a request
// @Tags requests
// @Accept json
// @Produce json
// @Param body body CreateTicketRequest true "request"
// @Success 201 {object} models.Ticket
// @Security BearerAuth
// @Router /api/requests [post]
func (h *Handler) CreateRequest(c *gin.Context) {
	var req CreateTicketRequest
	if !h.bind(c, &req) {
		return
	}
	t, err := h.Tickets.Create(c.Request.Context(), mustActor(c), service.TicketInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// @Summary Get a request
// @Tags requests
// @Produce json
// @Param id path int true "request id"
// @Success 200 {object} models.Ticket
// @Failure 404 {object} map[string]any
// @Security BearerAuth
// @Router /api/requests/{id} [get]
func (h *Handler) GetRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.Tickets.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary Edit own request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path int true "request id"
// @Param body body UpdateTicketRequest true "fields"
// @Success 200 {object} models.Ticket
// @Security BearerAuth
// @Router /api/requests/{id} [put]
func (h *Handler) UpdateRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateTicketRequest
	if !h.bind(c, &req) {
		return
	}
	t, err := h.Tickets.UpdateContent(c.Request.Context(), mustActor(c), id, service.TicketContentUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary Change request status or admin comment
// @Tags requests
// @Accept json
// @Produce json
// @Param id path int true "request id"
// @Param body body UpdateStatusRequest true "status"
// @Success 200 {object} models.Ticket
// @Failure 400 {object} map[string]any
// @Security BearerAuth
// @Router /api/requests/{id}/status [put]
func (h *Handler) UpdateRequestStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Status == nil && req.AdminComment == nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", map[string]string{"status": "required"})
		return
	}
	update := service.TicketStatusUpdate{AdminComment: req.AdminComment}
	if req.Status != nil {
		st, err := models.ParseStatus(*req.Status)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", map[string]string{"status": "oneof"})
			return
		}
		update.Status = &st
	}
	t, err := h.Tickets.UpdateStatus(c.Request.Context(), mustActor(c), id, update)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// @Summary Delete a request
// @Tags requests
// @Param id path int true "request id"
// @Success 204
// @Security BearerAuth
// @Router /api/requests/{id} [delete]
func (h *Handler) DeleteRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Tickets.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Rate a resolved request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path int true "request id"
// @Param body body FeedbackRequest true "feedback"
// @Success 201 {object} models.Ticket
// @Failure 400 {object} map[string]any
// @Security BearerAuth
// @Router /api/requests/{id}/feedback [post]
func (h *Handler) AddFeedback(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req FeedbackRequest
	if !h.bind(c, &req) {
		return
	}
	t, err := h.Feedback.Add(c.Request.Context(), mustActor(c), id, service.FeedbackInput{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// @Summary List all feedback
// @Tags requests
// @Produce json
// @Success 200 {array} models.Feedback
// @Security BearerAuth
// @Router /api/feedbacks [get]
func (h *Handler) ListFeedback(c *gin.Context) {
	items, err := h.Feedback.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
