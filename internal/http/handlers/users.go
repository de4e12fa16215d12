package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/request-tracker/backend/internal/service"
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin client"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=150"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=admin client"`
}

// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	items, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "user"
// @Success 201 {object} models.User
// @Security BearerAuth
// @Router /api/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Users.Create(c.Request.Context(), service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "user id"
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /api/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "user id"
// @Param body body UpdateUserRequest true "fields"
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /api/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Users.Update(c.Request.Context(), id, service.UserUpdate{Name: req.Name, Email: req.Email, Role: req.Role})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Delete a user
// @Tags users
// @Param id path int true "user id"
// @Success 204
// @Security BearerAuth
// @Router /api/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
