package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/request-tracker/backend/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type ProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=150"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// @Summary Register a client account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "account"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]any
// @Router /api/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]any
// @Router /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Access:   res.Tokens.AccessToken,
		Refresh:  res.Tokens.RefreshToken,
		Username: res.User.Name,
		Role:     res.User.Role,
	})
}

// @Summary Obtain a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} TokenPairResponse
// @Router /api/token [post]
func (h *Handler) Token(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenPairResponse{Access: res.Tokens.AccessToken, Refresh: res.Tokens.RefreshToken})
}

// @Summary Refresh an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "refresh token"
// @Success 200 {object} map[string]string
// @Router /api/token/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !h.bind(c, &req) {
		return
	}
	access, err := h.Auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param body body RefreshRequest true "refresh token"
// @Success 205
// @Security BearerAuth
// @Router /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req RefreshRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), req.Refresh); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusResetContent)
}

// @Summary Change own password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ChangePasswordRequest true "passwords"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /api/change-password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), mustActor(c), req.CurrentPassword, req.NewPassword); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Password updated"})
}

// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /api/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, err := h.Auth.GetMe(c.Request.Context(), mustActor(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Update current user profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body ProfileRequest true "profile"
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /api/users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	var req ProfileRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.Auth.UpdateMe(c.Request.Context(), mustActor(c), service.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
