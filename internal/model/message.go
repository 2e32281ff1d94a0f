package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message belongs to exactly one scope (room name or conversation id).
// The sender's name and avatar are snapshotted at send time so deleting or
// renaming a user does not rewrite history.
type Message struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Scope        string         `json:"scope" gorm:"index;not null;size:200"`
	SenderID     uuid.UUID      `json:"sender_id" gorm:"type:uuid;index;not null"`
	SenderName   string         `json:"sender_name" gorm:"size:50;not null"`
	SenderAvatar string         `json:"sender_avatar,omitempty" gorm:"size:500"`
	Body         string         `json:"body" gorm:"type:text;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// Pending reports whether the message has not yet received its
// server-assigned timestamp.
func (m *Message) Pending() bool {
	return m.CreatedAt.IsZero()
}

// SortMessages orders a snapshot by non-decreasing timestamp. Messages still
// waiting for a server-assigned timestamp sort last, in their original
// relative order, so out-of-order acknowledgments never reorder settled
// history.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].Pending() {
			return false
		}
		if msgs[j].Pending() {
			return true
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}
