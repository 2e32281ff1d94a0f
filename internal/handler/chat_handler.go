package handler

import (
	"net/http"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles the room directory and message endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListRooms godoc
// @Summary List all room names
// @Description Fetched once by clients at startup; not live-updated.
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /rooms [get]
func (h *ChatHandler) ListRooms(c *gin.Context) {
	rooms, err := h.chatService.ListRooms()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// CreateRoom godoc
// @Summary Create a room by name (idempotent)
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateRoomRequest true "Room name"
// @Success 201 {object} model.Room
// @Router /rooms [post]
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	var req model.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	room, err := h.chatService.CreateRoom(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// SetLastRoom godoc
// @Summary Remember the user's last-selected room for the next session
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.SetLastRoomRequest true "Room name"
// @Success 200 {object} model.SuccessResponse
// @Router /rooms/last [put]
func (h *ChatHandler) SetLastRoom(c *gin.Context) {
	var req model.SetLastRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.chatService.SetLastRoom(userID, req.Name); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Last room saved"})
}

// GetConversationScope godoc
// @Summary Derive the canonical conversation scope for a pair of users
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Other participant's ID"
// @Success 200 {object} model.ConversationScopeResponse
// @Router /conversations/{user_id} [get]
func (h *ChatHandler) GetConversationScope(c *gin.Context) {
	otherID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	scope, err := h.chatService.ConversationWith(userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ConversationScopeResponse{Scope: scope})
}

// GetMessages godoc
// @Summary Get the current message window for a scope
// @Description Returns the full ordered window: most recent 100 for conversations, everything for rooms.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param scope path string true "Room name or canonical conversation ID"
// @Success 200 {array} model.Message
// @Router /scopes/{scope}/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	scope := c.Param("scope")

	messages, err := h.chatService.Snapshot(scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary Send a message to a scope
// @Description Rejects empty or whitespace-only text without a write. Clears the sender's typing flag.
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scope path string true "Room name or canonical conversation ID"
// @Param body body model.SendMessageRequest true "Message body"
// @Success 201 {object} model.Message
// @Failure 400 {object} model.ErrorResponse
// @Router /scopes/{scope}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	scope := c.Param("scope")

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	msg, err := h.chatService.SendMessage(userID, scope, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// DeleteMessage godoc
// @Summary Delete a message (sender only, idempotent)
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param scope path string true "Room name or canonical conversation ID"
// @Param id path string true "Message ID"
// @Success 200 {object} model.SuccessResponse
// @Router /scopes/{scope}/messages/{id} [delete]
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	msgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid message ID"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	if err := h.chatService.DeleteMessage(userID, msgID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Message deleted"})
}
