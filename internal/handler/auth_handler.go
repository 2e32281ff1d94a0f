package handler

import (
	"net/http"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles session and profile endpoints
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Create a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.RegisterRequest true "Registration request"
// @Success 201 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.LoginRequest true "Login request"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out: publish offline presence and revoke the token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	token := c.MustGet("token").(string)

	if err := h.authService.Logout(userID, token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Logged out"})
}

// ChangePassword godoc
// @Summary Change password (requires the current password)
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ChangePasswordRequest true "Password change request"
// @Success 200 {object} model.SuccessResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.authService.ChangePassword(userID, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Password updated"})
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserResponse
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update display name and/or avatar
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.UpdateProfileRequest true "Profile update"
// @Success 200 {object} model.UserResponse
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	profile, err := h.authService.UpdateProfile(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SearchUsers godoc
// @Summary Search users by username
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {array} model.UserResponse
// @Router /users/search [get]
func (h *AuthHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Search query is required"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	users, err := h.authService.SearchUsers(query, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// RegisterDevice godoc
// @Summary Register a device token for push notifications
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.RegisterDeviceRequest true "Device registration"
// @Success 200 {object} model.SuccessResponse
// @Router /auth/devices [post]
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	var req model.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.authService.RegisterDevice(userID, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Device registered"})
}
