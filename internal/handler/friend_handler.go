package handler

import (
	"net/http"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FriendHandler handles the relationship graph endpoints
type FriendHandler struct {
	friendService *service.FriendService
}

func NewFriendHandler(friendService *service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// SendRequest godoc
// @Summary Send a friend request by username
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.SendFriendRequestRequest true "Target username"
// @Success 201 {object} model.FriendRequest
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /friends/requests [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req model.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	fr, err := h.friendService.SendFriendRequest(userID, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fr)
}

// ListRequests godoc
// @Summary List incoming pending friend requests
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.FriendRequest
// @Router /friends/requests [get]
func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	reqs, err := h.friendService.PendingRequests(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reqs)
}

// AcceptRequest godoc
// @Summary Accept a friend request
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.SuccessResponse
// @Router /friends/requests/{id}/accept [post]
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request ID"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.friendService.AcceptFriendRequest(userID, requestID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Friend request accepted"})
}

// RejectRequest godoc
// @Summary Reject (delete) a friend request
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.SuccessResponse
// @Router /friends/requests/{id} [delete]
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request ID"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.friendService.RejectFriendRequest(userID, requestID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Friend request rejected"})
}

// ListFriends godoc
// @Summary List the current user's friends
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserResponse
// @Router /friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	friends, err := h.friendService.Friends(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, friends)
}

// BlockUser godoc
// @Summary Block a user
// @Description Blocks the target, removes the friendship on both sides, and deletes pending requests between the pair.
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.BlockUserRequest true "Target user"
// @Success 200 {object} model.SuccessResponse
// @Router /friends/blocks [post]
func (h *FriendHandler) BlockUser(c *gin.Context) {
	var req model.BlockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.friendService.BlockUser(userID, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "User blocked"})
}

// UnblockUser godoc
// @Summary Unblock a user (does not restore any prior friendship)
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blocked user ID"
// @Success 200 {object} model.SuccessResponse
// @Router /friends/blocks/{id} [delete]
func (h *FriendHandler) UnblockUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.friendService.UnblockUser(userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "User unblocked"})
}

// ListBlocks godoc
// @Summary List the users blocked by the current user
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserResponse
// @Router /friends/blocks [get]
func (h *FriendHandler) ListBlocks(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	blocks, err := h.friendService.Blocks(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, blocks)
}
