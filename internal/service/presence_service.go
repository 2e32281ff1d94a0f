package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	presenceKeyPrefix = "flint:presence:"

	// A presence record that was never flipped offline (crash, lost
	// page-unload signal) expires on its own.
	presenceTTL = 24 * time.Hour
)

// PresenceUserStore is the slice of the user store presence needs
type PresenceUserStore interface {
	UpdateOnlineStatus(id uuid.UUID, isOnline bool) error
	ListOnline() ([]model.User, error)
}

// PresenceTracker writes the ephemeral online/offline records. Each record
// lives in Redis and is mirrored to users.is_online for querying. Best
// effort: a failed write is logged, never retried.
type PresenceTracker struct {
	users PresenceUserStore
	rdb   *redis.Client
}

func NewPresenceTracker(users PresenceUserStore, rdb *redis.Client) *PresenceTracker {
	return &PresenceTracker{users: users, rdb: rdb}
}

// SetOnline publishes online presence for a user
func (p *PresenceTracker) SetOnline(userID uuid.UUID) error {
	return p.set(userID, model.PresenceOnline)
}

// SetOffline publishes offline presence for a user
func (p *PresenceTracker) SetOffline(userID uuid.UUID) error {
	return p.set(userID, model.PresenceOffline)
}

func (p *PresenceTracker) set(userID uuid.UUID, status model.PresenceStatus) error {
	record := model.PresenceRecord{
		UserID:    userID,
		Status:    status,
		ChangedAt: time.Now(),
	}

	if p.rdb != nil {
		data, err := json.Marshal(record)
		if err == nil {
			if err := p.rdb.Set(context.Background(), presenceKeyPrefix+userID.String(), data, presenceTTL).Err(); err != nil {
				log.Printf("⚠️ Presence write failed for %s: %v", userID, err)
			}
		}
	}

	return p.users.UpdateOnlineStatus(userID, status == model.PresenceOnline)
}

// OnlineUsers returns the visible online-user set
func (p *PresenceTracker) OnlineUsers() ([]model.UserResponse, error) {
	users, err := p.users.ListOnline()
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

// Record reads a user's presence record from Redis; nil when absent
func (p *PresenceTracker) Record(ctx context.Context, userID uuid.UUID) (*model.PresenceRecord, error) {
	if p.rdb == nil {
		return nil, nil
	}
	data, err := p.rdb.Get(ctx, presenceKeyPrefix+userID.String()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record model.PresenceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
