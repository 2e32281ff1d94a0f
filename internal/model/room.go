package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Room is a named broadcast scope. Creation is idempotent and membership is
// implicit: anyone who knows the name can join.
type Room struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
}

const conversationScopeSep = "_"

// ConversationScope derives the canonical scope for an unordered pair of
// users: the lexicographically smaller id, the separator, the larger id.
// Both participants compute the same scope without a lookup.
func ConversationScope(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return x + conversationScopeSep + y
}

// IsConversationScope reports whether scope is a canonical pair id rather
// than a room name. UUID strings never contain the separator, so a room
// named after two joined UUIDs cannot collide by accident.
func IsConversationScope(scope string) bool {
	parts := strings.SplitN(scope, conversationScopeSep, 2)
	if len(parts) != 2 {
		return false
	}
	if _, err := uuid.Parse(parts[0]); err != nil {
		return false
	}
	_, err := uuid.Parse(parts[1])
	return err == nil
}

// ConversationMembers returns the two participant ids of a conversation
// scope, or false if the scope is a room name.
func ConversationMembers(scope string) (uuid.UUID, uuid.UUID, bool) {
	parts := strings.SplitN(scope, conversationScopeSep, 2)
	if len(parts) != 2 {
		return uuid.Nil, uuid.Nil, false
	}
	a, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	b, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return a, b, true
}
