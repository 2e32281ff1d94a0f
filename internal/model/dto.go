package model

import "github.com/google/uuid"

// ========== Auth DTOs ==========

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,min=6"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"max=50"`
	Avatar   string `json:"avatar" binding:"max=500"`
}

type RegisterDeviceRequest struct {
	FCMToken   string `json:"fcm_token" binding:"required"`
	DeviceType string `json:"device_type" binding:"required"`
}

// ========== Relationship DTOs ==========

type SendFriendRequestRequest struct {
	Username string `json:"username" binding:"required"`
}

type BlockUserRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// ========== Room / Message DTOs ==========

type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type SetLastRoomRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type ConversationScopeResponse struct {
	Scope string `json:"scope"`
}

// ========== WebSocket Event DTOs ==========

type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket event types
const (
	WSEventSubscribe       = "subscribe"
	WSEventUnsubscribe     = "unsubscribe"
	WSEventMessageSnapshot = "message_snapshot"
	WSEventTyping          = "typing"
	WSEventTypingSnapshot  = "typing_snapshot"
	WSEventOnline          = "online"
	WSEventOffline         = "offline"
	WSEventFriendRequests  = "friend_requests"
	WSEventFriends         = "friends"
	WSEventBlocks          = "blocks"
)

// SubscribeEvent opens (or switches) a client's live message scope
type SubscribeEvent struct {
	Scope string `json:"scope"`
}

// TypingEvent is a keystroke report from a client. DraftEmpty clears the
// flag immediately instead of waiting for the debounce timer.
type TypingEvent struct {
	Scope      string `json:"scope"`
	DraftEmpty bool   `json:"draft_empty"`
}

// MessageSnapshotEvent delivers the full current ordered window, not a diff
type MessageSnapshotEvent struct {
	Scope    string    `json:"scope"`
	Messages []Message `json:"messages"`
}

// TypingSnapshotEvent carries every typing flag in scope; clients filter
// out their own id.
type TypingSnapshotEvent struct {
	Scope  string          `json:"scope"`
	Typing map[string]bool `json:"typing"`
}

type OnlineEvent struct {
	UserID   uuid.UUID `json:"user_id"`
	IsOnline bool      `json:"is_online"`
}

type UploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
