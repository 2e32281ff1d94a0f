package model

import (
	"time"

	"github.com/google/uuid"
)

// PresenceStatus is the short-lived online/offline state of a user
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
)

// PresenceRecord is one ephemeral presence entry, kept in Redis and
// mirrored to users.is_online. Best effort only.
type PresenceRecord struct {
	UserID    uuid.UUID      `json:"user_id"`
	Status    PresenceStatus `json:"status"`
	ChangedAt time.Time      `json:"changed_at"`
}
