package service

import (
	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
)

// Store interfaces consumed by the services. The gorm repositories satisfy
// them; tests use in-memory fakes. Stores translate their driver's
// not-found into model.ErrNotFound so services never see storage errors.

// UserStore is the identity lookup surface shared by the services
type UserStore interface {
	Create(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	SearchUsers(query string, excludeUserID uuid.UUID, limit int) ([]model.User, error)
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateProfile(userID uuid.UUID, username, avatar string) error
	UpdateLastRoom(userID uuid.UUID, room string) error
	AddDevice(userID uuid.UUID, token string, deviceType string) error
}

// RelationshipStore persists friend requests, friendships and blocks
type RelationshipStore interface {
	CreateRequest(req *model.FriendRequest) error
	FindRequestByID(id uuid.UUID) (*model.FriendRequest, error)
	FindPendingRequest(senderID, recipientID uuid.UUID) (*model.FriendRequest, error)
	PendingRequestsFor(recipientID uuid.UUID) ([]model.FriendRequest, error)
	MarkRequestAccepted(id uuid.UUID) error
	DeleteRequest(id uuid.UUID) error
	DeleteRequestsBetween(a, b uuid.UUID) error
	AddFriendship(userID, friendID uuid.UUID) error
	RemoveFriendship(userID, friendID uuid.UUID) error
	FriendsOf(userID uuid.UUID) ([]model.User, error)
	AreFriends(userID, friendID uuid.UUID) (bool, error)
	CreateBlock(blockerID, blockedID uuid.UUID) error
	DeleteBlock(blockerID, blockedID uuid.UUID) error
	BlocksOf(blockerID uuid.UUID) ([]model.User, error)
	IsBlocked(blockerID, blockedID uuid.UUID) (bool, error)
}

// MessageStore persists scope-bound messages
type MessageStore interface {
	Create(msg *model.Message) error
	FindByID(id uuid.UUID) (*model.Message, error)
	ScopeWindow(scope string, limit int) ([]model.Message, error)
	Delete(id uuid.UUID) error
}

// RoomStore persists the open-ended room directory
type RoomStore interface {
	CreateIfAbsent(name string) (*model.Room, error)
	List() ([]string, error)
}

// Notifier delivers an event to all of a user's connections
type Notifier interface {
	SendToUser(userID uuid.UUID, event *model.WSEvent)
}

// ScopeNotifier delivers an event to every subscriber of a scope
type ScopeNotifier interface {
	SendToScope(scope string, event *model.WSEvent)
}
