package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "flint:events"

// Hub manages all WebSocket connections, per-scope snapshot subscriptions,
// and event delivery. Redis Pub/Sub carries events across instances.
type Hub struct {
	// Map of userID -> set of client connections (one user can have multiple tabs)
	clients map[uuid.UUID]map[*Client]bool
	mu      sync.RWMutex

	// Live message-scope subscriptions
	subs *subscriptions

	// Channels for registering/unregistering clients
	register   chan *Client
	unregister chan *Client

	// Redis client for Pub/Sub
	rdb *redis.Client

	// Callback when user comes online/offline (first connection / last disconnect)
	onStatusChange func(userID uuid.UUID, online bool)
}

// NewHub creates a new WebSocket Hub
func NewHub(rdb *redis.Client, onStatusChange func(userID uuid.UUID, online bool)) *Hub {
	return &Hub{
		clients:        make(map[uuid.UUID]map[*Client]bool),
		subs:           newSubscriptions(),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rdb:            rdb,
		onStatusChange: onStatusChange,
	}
}

// Run starts the Hub's main event loop
func (h *Hub) Run(ctx context.Context) {
	go h.subscribeRedis(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register queues a client for registration with the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Subscribe switches a client's live message subscription to scope.
// The previous subscription, if any, is released first.
func (h *Hub) Subscribe(client *Client, scope string) {
	h.subs.set(client, scope)
}

// Unsubscribe releases a client's live message subscription
func (h *Hub) Unsubscribe(client *Client) {
	h.subs.drop(client)
}

// addClient registers a new client connection
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
		// First connection: the user just came online
		if h.onStatusChange != nil {
			go h.onStatusChange(client.UserID, true)
		}
		h.publishToRedis(&TargetedEvent{
			Event: &model.WSEvent{
				Type:    model.WSEventOnline,
				Payload: model.OnlineEvent{UserID: client.UserID, IsOnline: true},
			},
		})
	}
	h.clients[client.UserID][client] = true
	log.Printf("✅ Client connected: %s (connections: %d)", client.UserID, len(h.clients[client.UserID]))
}

// removeClient unregisters a client connection and releases its subscription
func (h *Hub) removeClient(client *Client) {
	h.subs.drop(client)

	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.UserID]; ok {
		// Close only while the client is still a member: a connection must
		// never have its send channel closed twice.
		if _, active := clients[client]; active {
			delete(clients, client)
			close(client.send)
		}

		if len(clients) == 0 {
			// Last connection gone: the user is offline
			delete(h.clients, client.UserID)
			if h.onStatusChange != nil {
				go h.onStatusChange(client.UserID, false)
			}
			h.publishToRedis(&TargetedEvent{
				Event: &model.WSEvent{
					Type:    model.WSEventOffline,
					Payload: model.OnlineEvent{UserID: client.UserID, IsOnline: false},
				},
			})
		}
	}
	log.Printf("❌ Client disconnected: %s", client.UserID)
}

// SendToUser sends an event to a specific user (all their connections, any instance)
func (h *Hub) SendToUser(userID uuid.UUID, event *model.WSEvent) {
	h.publishToRedis(&TargetedEvent{TargetUserID: userID, Event: event})
}

// SendToScope sends an event to every client subscribed to scope, on any instance
func (h *Hub) SendToScope(scope string, event *model.WSEvent) {
	h.publishToRedis(&TargetedEvent{TargetScope: scope, Event: event})
}

// sendToLocalUser sends an event to a user on this instance only
func (h *Hub) sendToLocalUser(userID uuid.UUID, event *model.WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[userID]
	if !ok {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Buffer full: drop. Connection teardown belongs to the pumps
			// and removeClient, not the delivery path.
		}
	}
}

// sendToLocalScope sends an event to this instance's subscribers of scope
func (h *Hub) sendToLocalScope(scope string, event *model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling scope event: %v", err)
		return
	}
	for _, client := range h.subs.clientsFor(scope) {
		select {
		case client.send <- data:
		default:
		}
	}
}

// broadcastToLocal sends an event to all connected local clients
func (h *Hub) broadcastToLocal(event *model.WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling broadcast event: %v", err)
		return
	}
	for _, clients := range h.clients {
		for client := range clients {
			select {
			case client.send <- data:
			default:
			}
		}
	}
}

// ========== Redis Pub/Sub ==========

// TargetedEvent wraps an event with its delivery target for Redis Pub/Sub.
// Exactly one of TargetUserID / TargetScope is set for targeted delivery;
// neither means broadcast to everyone.
type TargetedEvent struct {
	TargetUserID uuid.UUID      `json:"target_user_id,omitempty"`
	TargetScope  string         `json:"target_scope,omitempty"`
	Event        *model.WSEvent `json:"event"`
}

// publishToRedis publishes an event for cross-instance delivery
func (h *Hub) publishToRedis(data *TargetedEvent) {
	if h.rdb == nil {
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling for Redis: %v", err)
		return
	}
	if err := h.rdb.Publish(context.Background(), redisChannel, jsonData).Err(); err != nil {
		log.Printf("Error publishing to Redis: %v", err)
	}
}

// subscribeRedis subscribes to Redis and delivers events to local clients
func (h *Hub) subscribeRedis(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Println("📡 Redis Pub/Sub subscriber started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			var targeted TargetedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &targeted); err != nil {
				log.Printf("Error unmarshaling Redis message: %v", err)
				continue
			}

			switch {
			case targeted.TargetUserID != uuid.Nil:
				h.sendToLocalUser(targeted.TargetUserID, targeted.Event)
			case targeted.TargetScope != "":
				h.sendToLocalScope(targeted.TargetScope, targeted.Event)
			case targeted.Event != nil:
				h.broadcastToLocal(targeted.Event)
			}
		}
	}
}
