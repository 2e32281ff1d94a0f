package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus defines the lifecycle of a friend request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
)

// FriendRequest represents a pending or accepted friend request.
// At most one pending request may exist per (sender, recipient) ordered pair.
type FriendRequest struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SenderID    uuid.UUID     `json:"sender_id" gorm:"type:uuid;index;not null"`
	RecipientID uuid.UUID     `json:"recipient_id" gorm:"type:uuid;index;not null"`
	Status      RequestStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt   time.Time     `json:"created_at"`

	// Relations
	Sender    User `json:"sender" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// Friendship is one direction of a symmetric friend relation.
// Accepting a request inserts two rows, one per direction; the writes are
// independent and there is no cross-row transaction. Inserts are upserts so
// a retry completes a half-applied pair instead of erroring.
type Friendship struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_user_friend;not null"`
	FriendID  uuid.UUID `json:"friend_id" gorm:"type:uuid;uniqueIndex:idx_user_friend;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Friend User `json:"friend" gorm:"foreignKey:FriendID"`
}

// Block records that blocker has blocked blocked. Only the blocker's side
// carries the record; the effect on friendships and requests is bidirectional.
type Block struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BlockerID uuid.UUID `json:"blocker_id" gorm:"type:uuid;uniqueIndex:idx_blocker_blocked;not null"`
	BlockedID uuid.UUID `json:"blocked_id" gorm:"type:uuid;uniqueIndex:idx_blocker_blocked;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Blocked User `json:"blocked" gorm:"foreignKey:BlockedID"`
}
