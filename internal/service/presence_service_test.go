package service

import (
	"context"
	"sync"
	"testing"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
)

type fakePresenceUserStore struct {
	mu     sync.Mutex
	online map[uuid.UUID]bool
	users  map[uuid.UUID]*model.User
}

func newFakePresenceUserStore(users ...*model.User) *fakePresenceUserStore {
	s := &fakePresenceUserStore{
		online: make(map[uuid.UUID]bool),
		users:  make(map[uuid.UUID]*model.User),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakePresenceUserStore) UpdateOnlineStatus(id uuid.UUID, isOnline bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[id] = isOnline
	if u, ok := s.users[id]; ok {
		u.IsOnline = isOnline
	}
	return nil
}

func (s *fakePresenceUserStore) ListOnline() ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for id, on := range s.online {
		if on {
			if u, ok := s.users[id]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func TestPresenceMirroredToUserStore(t *testing.T) {
	alice := &model.User{ID: uuid.New(), Username: "alice"}
	store := newFakePresenceUserStore(alice)
	tracker := NewPresenceTracker(store, nil)

	if err := tracker.SetOnline(alice.ID); err != nil {
		t.Fatalf("SetOnline: %v", err)
	}
	online, _ := tracker.OnlineUsers()
	if len(online) != 1 || online[0].ID != alice.ID {
		t.Errorf("online = %v, want [alice]", online)
	}

	if err := tracker.SetOffline(alice.ID); err != nil {
		t.Fatalf("SetOffline: %v", err)
	}
	online, _ = tracker.OnlineUsers()
	if len(online) != 0 {
		t.Errorf("online after offline = %v, want empty", online)
	}
}

func TestPresenceRecordAbsentReadsAsNil(t *testing.T) {
	store := newFakePresenceUserStore()
	tracker := NewPresenceTracker(store, nil)

	// No backing record store: absent record, no error. The handler turns
	// this into an offline default.
	record, err := tracker.Record(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if record != nil {
		t.Errorf("record = %v, want nil", record)
	}
}
