package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/internal/service"
	"github.com/flintchat/flint/internal/ws"
	"github.com/flintchat/flint/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, validate origin
	},
}

// WSHandler handles WebSocket connections: scope subscriptions and typing
type WSHandler struct {
	hub         *ws.Hub
	chatService *service.ChatService
	typing      *service.TypingTracker
	jwtManager  *auth.JWTManager
}

func NewWSHandler(hub *ws.Hub, chatService *service.ChatService, typing *service.TypingTracker, jwtManager *auth.JWTManager) *WSHandler {
	return &WSHandler{
		hub:         hub,
		chatService: chatService,
		typing:      typing,
		jwtManager:  jwtManager,
	}
}

// HandleWebSocket upgrades HTTP to WebSocket and manages the connection.
// Client connects with: ws://host/ws?token=<jwt_token>
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	// Authenticate via query parameter (WebSocket can't use Authorization header)
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.jwtManager.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID, claims.Username)
	h.hub.Register(client)

	log.Printf("✅ WS Connected: UserID=%s Username=%s", claims.UserID, claims.Username)

	go client.WritePump()
	go client.ReadPump(h.handleWSMessage)
}

// handleWSMessage processes incoming WebSocket messages from clients
func (h *WSHandler) handleWSMessage(client *ws.Client, event model.WSEvent) {
	switch event.Type {
	case model.WSEventSubscribe:
		h.handleSubscribe(client, event)

	case model.WSEventUnsubscribe:
		h.hub.Unsubscribe(client)

	case model.WSEventTyping:
		h.handleTyping(client, event)

	default:
		log.Printf("Unknown WebSocket event type: %s", event.Type)
	}
}

// handleSubscribe switches the client's live message subscription to a new
// scope and immediately delivers the scope's full current window. The
// previous scope's subscription is released so no stale callbacks leak.
func (h *WSHandler) handleSubscribe(client *ws.Client, event model.WSEvent) {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payload model.SubscribeEvent
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.Scope == "" {
		return
	}

	h.hub.Subscribe(client, payload.Scope)

	messages, err := h.chatService.Snapshot(payload.Scope)
	if err != nil {
		log.Printf("Error loading snapshot for scope %s: %v", payload.Scope, err)
		return
	}
	client.Send(&model.WSEvent{
		Type:    model.WSEventMessageSnapshot,
		Payload: model.MessageSnapshotEvent{Scope: payload.Scope, Messages: messages},
	})

	// New subscribers also see who is mid-keystroke
	client.Send(&model.WSEvent{
		Type:    model.WSEventTypingSnapshot,
		Payload: model.TypingSnapshotEvent{Scope: payload.Scope, Typing: h.typing.Snapshot(payload.Scope)},
	})
}

// handleTyping feeds a keystroke report into the debounce tracker
func (h *WSHandler) handleTyping(client *ws.Client, event model.WSEvent) {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payload model.TypingEvent
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.Scope == "" {
		return
	}

	h.typing.Keystroke(payload.Scope, client.UserID, payload.DraftEmpty)
}
