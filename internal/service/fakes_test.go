package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
)

// In-memory stores mirroring the repository semantics: idempotent upserts,
// model.ErrNotFound on misses.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, model.ErrNotFound
}

func (s *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *fakeUserStore) FindByUsername(username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *fakeUserStore) SearchUsers(query string, excludeUserID uuid.UUID, limit int) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, u := range s.users {
		if u.ID == excludeUserID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	u.Password = hashedPassword
	return nil
}

func (s *fakeUserStore) UpdateProfile(userID uuid.UUID, username, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	if username != "" {
		u.Username = username
	}
	if avatar != "" {
		u.Avatar = avatar
	}
	return nil
}

func (s *fakeUserStore) UpdateLastRoom(userID uuid.UUID, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	u.LastRoom = room
	return nil
}

func (s *fakeUserStore) AddDevice(userID uuid.UUID, token, deviceType string) error {
	return nil
}

type pairKey struct{ a, b uuid.UUID }

type fakeRelStore struct {
	mu          sync.Mutex
	users       *fakeUserStore
	requests    map[uuid.UUID]*model.FriendRequest
	friendships map[pairKey]bool
	blocks      map[pairKey]bool
}

func newFakeRelStore(users *fakeUserStore) *fakeRelStore {
	return &fakeRelStore{
		users:       users,
		requests:    make(map[uuid.UUID]*model.FriendRequest),
		friendships: make(map[pairKey]bool),
		blocks:      make(map[pairKey]bool),
	}
}

func (s *fakeRelStore) CreateRequest(req *model.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// One pending request per ordered pair, enforced at the store like the
	// partial unique index.
	for _, r := range s.requests {
		if r.SenderID == req.SenderID && r.RecipientID == req.RecipientID && r.Status == model.RequestStatusPending {
			return model.ErrDuplicateRequest
		}
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *fakeRelStore) FindRequestByID(id uuid.UUID) (*model.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, model.ErrNotFound
}

func (s *fakeRelStore) FindPendingRequest(senderID, recipientID uuid.UUID) (*model.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.SenderID == senderID && r.RecipientID == recipientID && r.Status == model.RequestStatusPending {
			copied := *r
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *fakeRelStore) PendingRequestsFor(recipientID uuid.UUID) ([]model.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.FriendRequest
	for _, r := range s.requests {
		if r.RecipientID == recipientID && r.Status == model.RequestStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRelStore) MarkRequestAccepted(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return model.ErrNotFound
	}
	r.Status = model.RequestStatusAccepted
	return nil
}

func (s *fakeRelStore) DeleteRequest(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requests, id)
	return nil
}

func (s *fakeRelStore) DeleteRequestsBetween(a, b uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.requests {
		if r.Status != model.RequestStatusPending {
			continue
		}
		if (r.SenderID == a && r.RecipientID == b) || (r.SenderID == b && r.RecipientID == a) {
			delete(s.requests, id)
		}
	}
	return nil
}

func (s *fakeRelStore) AddFriendship(userID, friendID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friendships[pairKey{userID, friendID}] = true
	return nil
}

func (s *fakeRelStore) RemoveFriendship(userID, friendID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.friendships, pairKey{userID, friendID})
	return nil
}

func (s *fakeRelStore) FriendsOf(userID uuid.UUID) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for k := range s.friendships {
		if k.a == userID {
			if u, err := s.users.FindByID(k.b); err == nil {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (s *fakeRelStore) AreFriends(userID, friendID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.friendships[pairKey{userID, friendID}], nil
}

func (s *fakeRelStore) CreateBlock(blockerID, blockedID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[pairKey{blockerID, blockedID}] = true
	return nil
}

func (s *fakeRelStore) DeleteBlock(blockerID, blockedID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks, pairKey{blockerID, blockedID})
	return nil
}

func (s *fakeRelStore) BlocksOf(blockerID uuid.UUID) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for k := range s.blocks {
		if k.a == blockerID {
			if u, err := s.users.FindByID(k.b); err == nil {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (s *fakeRelStore) IsBlocked(blockerID, blockedID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks[pairKey{blockerID, blockedID}], nil
}

type fakeMessageStore struct {
	mu   sync.Mutex
	msgs map[uuid.UUID]*model.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{msgs: make(map[uuid.UUID]*model.Message)}
}

func (s *fakeMessageStore) Create(msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	copied := *msg
	s.msgs[msg.ID] = &copied
	return nil
}

func (s *fakeMessageStore) FindByID(id uuid.UUID) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.msgs[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, model.ErrNotFound
}

func (s *fakeMessageStore) ScopeWindow(scope string, limit int) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Message
	for _, m := range s.msgs {
		if m.Scope == scope {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *fakeMessageStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.msgs, id)
	return nil
}

type fakeRoomStore struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]*model.Room)}
}

func (s *fakeRoomStore) CreateIfAbsent(name string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[name]; ok {
		copied := *r
		return &copied, nil
	}
	r := &model.Room{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	s.rooms[name] = r
	copied := *r
	return &copied, nil
}

func (s *fakeRoomStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.rooms))
	for name := range s.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// recordingNotifier captures per-user pushes
type recordingNotifier struct {
	mu     sync.Mutex
	events map[uuid.UUID][]*model.WSEvent
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[uuid.UUID][]*model.WSEvent)}
}

func (n *recordingNotifier) SendToUser(userID uuid.UUID, event *model.WSEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[userID] = append(n.events[userID], event)
}

func (n *recordingNotifier) eventsFor(userID uuid.UUID) []*model.WSEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*model.WSEvent(nil), n.events[userID]...)
}

// recordingScopeNotifier captures per-scope pushes
type recordingScopeNotifier struct {
	mu     sync.Mutex
	events map[string][]*model.WSEvent
}

func newRecordingScopeNotifier() *recordingScopeNotifier {
	return &recordingScopeNotifier{events: make(map[string][]*model.WSEvent)}
}

func (n *recordingScopeNotifier) SendToScope(scope string, event *model.WSEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[scope] = append(n.events[scope], event)
}

func (n *recordingScopeNotifier) eventsFor(scope string) []*model.WSEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*model.WSEvent(nil), n.events[scope]...)
}

// recordingTypingClearer records Clear calls
type recordingTypingClearer struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingTypingClearer) Clear(scope string, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, scope)
}

func (r *recordingTypingClearer) cleared(scope string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.calls {
		if s == scope {
			return true
		}
	}
	return false
}
