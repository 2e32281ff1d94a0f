package service

import (
	"context"
	"log"
	"strings"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/pkg/notification"
	"github.com/google/uuid"
)

// conversationWindow bounds pairwise scopes to the most recent N messages.
// Room scopes are unbounded.
const conversationWindow = 100

// TypingClearer clears a user's typing flag in a scope
type TypingClearer interface {
	Clear(scope string, userID uuid.UUID)
}

// ChatService handles the message channel and the room directory
type ChatService struct {
	users  UserStore
	msgs   MessageStore
	rooms  RoomStore
	typing TypingClearer
	notify ScopeNotifier
	push   *notification.NotificationService
}

func NewChatService(
	users UserStore,
	msgs MessageStore,
	rooms RoomStore,
	typing TypingClearer,
	notify ScopeNotifier,
	push *notification.NotificationService,
) *ChatService {
	return &ChatService{
		users:  users,
		msgs:   msgs,
		rooms:  rooms,
		typing: typing,
		notify: notify,
		push:   push,
	}
}

// SendMessage persists a message in scope and re-delivers the scope's
// snapshot to all subscribers. Empty or whitespace-only text is rejected
// before any write. Sending clears the sender's typing flag.
func (s *ChatService) SendMessage(senderID uuid.UUID, scope, body string) (*model.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, model.ErrValidation
	}

	sender, err := s.users.FindByID(senderID)
	if err != nil {
		return nil, err
	}

	if a, b, ok := model.ConversationMembers(scope); ok {
		if senderID != a && senderID != b {
			return nil, model.ErrForbidden
		}
	} else {
		// Rooms are created on demand: writing to an unknown room names it
		if _, err := s.rooms.CreateIfAbsent(scope); err != nil {
			return nil, err
		}
	}

	msg := &model.Message{
		Scope:        scope,
		SenderID:     sender.ID,
		SenderName:   sender.Username,
		SenderAvatar: sender.Avatar,
		Body:         body,
	}
	if err := s.msgs.Create(msg); err != nil {
		return nil, err
	}

	if s.typing != nil {
		s.typing.Clear(scope, senderID)
	}
	s.pushSnapshot(scope)
	s.notifyOfflineRecipient(sender, msg)

	return msg, nil
}

// DeleteMessage removes a message. Only the sender may delete; deleting a
// message that is already gone succeeds.
func (s *ChatService) DeleteMessage(userID, msgID uuid.UUID) error {
	msg, err := s.msgs.FindByID(msgID)
	if err != nil {
		if err == model.ErrNotFound {
			return nil
		}
		return err
	}
	if msg.SenderID != userID {
		return model.ErrForbidden
	}

	if err := s.msgs.Delete(msg.ID); err != nil {
		return err
	}
	s.pushSnapshot(msg.Scope)
	return nil
}

// Snapshot returns the full current ordered window for a scope
func (s *ChatService) Snapshot(scope string) ([]model.Message, error) {
	limit := 0
	if model.IsConversationScope(scope) {
		limit = conversationWindow
	}
	messages, err := s.msgs.ScopeWindow(scope, limit)
	if err != nil {
		return nil, err
	}
	model.SortMessages(messages)
	return messages, nil
}

// CreateRoom creates a room by name if absent. Idempotent.
func (s *ChatService) CreateRoom(name string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrValidation
	}
	return s.rooms.CreateIfAbsent(name)
}

// ListRooms returns all room names. Fetched once by clients at startup,
// not live-updated.
func (s *ChatService) ListRooms() ([]string, error) {
	return s.rooms.List()
}

// SetLastRoom persists the user's last-selected room for the next session
func (s *ChatService) SetLastRoom(userID uuid.UUID, room string) error {
	return s.users.UpdateLastRoom(userID, room)
}

// ConversationWith derives the canonical conversation scope for the pair
// (self, other). Both participants compute the same scope.
func (s *ChatService) ConversationWith(selfID, otherID uuid.UUID) (string, error) {
	if selfID == otherID {
		return "", model.ErrSelfReferential
	}
	if _, err := s.users.FindByID(otherID); err != nil {
		return "", err
	}
	return model.ConversationScope(selfID, otherID), nil
}

// pushSnapshot re-delivers the whole current window to scope subscribers
func (s *ChatService) pushSnapshot(scope string) {
	if s.notify == nil {
		return
	}
	messages, err := s.Snapshot(scope)
	if err != nil {
		log.Printf("Error loading snapshot for scope %s: %v", scope, err)
		return
	}
	s.notify.SendToScope(scope, &model.WSEvent{
		Type:    model.WSEventMessageSnapshot,
		Payload: model.MessageSnapshotEvent{Scope: scope, Messages: messages},
	})
}

// notifyOfflineRecipient sends a push notification when the other half of
// a conversation is offline. Rooms get no pushes.
func (s *ChatService) notifyOfflineRecipient(sender *model.User, msg *model.Message) {
	if s.push == nil {
		return
	}
	a, b, ok := model.ConversationMembers(msg.Scope)
	if !ok {
		return
	}
	otherID := a
	if otherID == sender.ID {
		otherID = b
	}

	go func() {
		other, err := s.users.FindByID(otherID)
		if err != nil || other.IsOnline {
			return
		}
		if err := s.push.SendMessageNotification(context.Background(), otherID, sender.Username, msg.Body, msg.Scope); err != nil {
			log.Printf("⚠️ Push notification failed for %s: %v", otherID, err)
		}
	}()
}
