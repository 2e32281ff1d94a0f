package handler

import (
	"net/http"
	"time"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PresenceHandler exposes the visible online-user set
type PresenceHandler struct {
	presence *service.PresenceTracker
}

func NewPresenceHandler(presence *service.PresenceTracker) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

// OnlineUsers godoc
// @Summary List users currently online
// @Tags Presence
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserResponse
// @Router /presence/online [get]
func (h *PresenceHandler) OnlineUsers(c *gin.Context) {
	users, err := h.presence.OnlineUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetPresence godoc
// @Summary Get a single user's presence record
// @Description Reads the ephemeral presence record. An expired or missing record reads as offline.
// @Tags Presence
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Success 200 {object} model.PresenceRecord
// @Router /presence/{user_id} [get]
func (h *PresenceHandler) GetPresence(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	record, err := h.presence.Record(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if record == nil {
		record = &model.PresenceRecord{UserID: userID, Status: model.PresenceOffline, ChangedAt: time.Time{}}
	}

	c.JSON(http.StatusOK, record)
}
