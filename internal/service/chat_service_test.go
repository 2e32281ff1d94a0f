package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
)

func newChatFixture(t *testing.T) (*ChatService, *fakeMessageStore, *fakeRoomStore, *recordingScopeNotifier, *recordingTypingClearer, *model.User, *model.User) {
	t.Helper()
	alice := &model.User{ID: uuid.New(), Username: "alice", Avatar: "a.png"}
	bob := &model.User{ID: uuid.New(), Username: "bob"}
	users := newFakeUserStore(alice, bob)
	msgs := newFakeMessageStore()
	rooms := newFakeRoomStore()
	notify := newRecordingScopeNotifier()
	typing := &recordingTypingClearer{}
	svc := NewChatService(users, msgs, rooms, typing, notify, nil)
	return svc, msgs, rooms, notify, typing, alice, bob
}

func TestSendMessageRejectsEmptyBody(t *testing.T) {
	svc, msgs, _, _, _, alice, _ := newChatFixture(t)

	for _, body := range []string{"", "   ", "\n\t "} {
		if _, err := svc.SendMessage(alice.ID, "general", body); !errors.Is(err, model.ErrValidation) {
			t.Errorf("body %q: err = %v, want ErrValidation", body, err)
		}
	}

	// Nothing was written
	window, _ := msgs.ScopeWindow("general", 0)
	if len(window) != 0 {
		t.Errorf("messages written = %d, want 0", len(window))
	}
}

func TestSendMessageToRoomCreatesRoom(t *testing.T) {
	svc, _, rooms, notify, typing, alice, _ := newChatFixture(t)

	msg, err := svc.SendMessage(alice.ID, "general", "hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.SenderName != "alice" || msg.SenderAvatar != "a.png" {
		t.Errorf("sender snapshot wrong: name=%q avatar=%q", msg.SenderName, msg.SenderAvatar)
	}

	// Writing to an unknown room names it
	names, _ := rooms.List()
	if len(names) != 1 || names[0] != "general" {
		t.Errorf("rooms = %v, want [general]", names)
	}

	// Sending clears the sender's typing flag
	if !typing.cleared("general") {
		t.Error("typing flag not cleared on send")
	}

	// Subscribers get the full window back, not a diff
	events := notify.eventsFor("general")
	if len(events) != 1 || events[0].Type != model.WSEventMessageSnapshot {
		t.Fatalf("expected one message_snapshot push, got %v", events)
	}
	snap := events[0].Payload.(model.MessageSnapshotEvent)
	if len(snap.Messages) != 1 || snap.Messages[0].Body != "hello" {
		t.Errorf("snapshot = %v", snap.Messages)
	}
}

func TestSendMessageConversationParticipantsOnly(t *testing.T) {
	svc, _, _, _, _, alice, bob := newChatFixture(t)
	scope := model.ConversationScope(alice.ID, bob.ID)

	if _, err := svc.SendMessage(alice.ID, scope, "hi"); err != nil {
		t.Fatalf("participant send: %v", err)
	}

	outsider := &model.User{ID: uuid.New(), Username: "carol"}
	svc.users.Create(outsider)
	if _, err := svc.SendMessage(outsider.ID, scope, "hi"); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("outsider send: err = %v, want ErrForbidden", err)
	}
}

func TestSnapshotConversationWindow(t *testing.T) {
	svc, msgs, _, _, _, alice, bob := newChatFixture(t)
	scope := model.ConversationScope(alice.ID, bob.ID)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < conversationWindow+5; i++ {
		msgs.Create(&model.Message{
			Scope:     scope,
			SenderID:  alice.ID,
			Body:      fmt.Sprintf("msg %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	window, err := svc.Snapshot(scope)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(window) != conversationWindow {
		t.Fatalf("window = %d messages, want %d", len(window), conversationWindow)
	}
	// The newest messages survive, in ascending order
	if window[0].Body != "msg 5" {
		t.Errorf("oldest kept = %q, want msg 5", window[0].Body)
	}
	if window[len(window)-1].Body != fmt.Sprintf("msg %d", conversationWindow+4) {
		t.Errorf("newest = %q", window[len(window)-1].Body)
	}
	for i := 1; i < len(window); i++ {
		if window[i].CreatedAt.Before(window[i-1].CreatedAt) {
			t.Fatalf("window not ascending at %d", i)
		}
	}
}

func TestSnapshotRoomUnbounded(t *testing.T) {
	svc, msgs, _, _, _, alice, _ := newChatFixture(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < conversationWindow+5; i++ {
		msgs.Create(&model.Message{
			Scope:     "general",
			SenderID:  alice.ID,
			Body:      fmt.Sprintf("msg %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	window, err := svc.Snapshot("general")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(window) != conversationWindow+5 {
		t.Errorf("room window = %d messages, want %d", len(window), conversationWindow+5)
	}
}

func TestDeleteMessage(t *testing.T) {
	svc, _, _, _, _, alice, bob := newChatFixture(t)

	msg, err := svc.SendMessage(alice.ID, "general", "oops")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// Only the sender may delete
	if err := svc.DeleteMessage(bob.ID, msg.ID); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("non-sender delete: err = %v, want ErrForbidden", err)
	}

	if err := svc.DeleteMessage(alice.ID, msg.ID); err != nil {
		t.Fatalf("sender delete: %v", err)
	}
	// Deleting a message that is already gone succeeds
	if err := svc.DeleteMessage(alice.ID, msg.ID); err != nil {
		t.Errorf("repeat delete: %v, want nil", err)
	}

	window, _ := svc.Snapshot("general")
	if len(window) != 0 {
		t.Errorf("window after delete = %d messages, want 0", len(window))
	}
}

func TestCreateRoomIdempotent(t *testing.T) {
	svc, _, _, _, _, _, _ := newChatFixture(t)

	first, err := svc.CreateRoom("dev")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	second, err := svc.CreateRoom("dev")
	if err != nil {
		t.Fatalf("repeat CreateRoom: %v", err)
	}
	if first.ID != second.ID {
		t.Error("repeat create returned a different room")
	}

	if _, err := svc.CreateRoom("   "); !errors.Is(err, model.ErrValidation) {
		t.Errorf("blank name: err = %v, want ErrValidation", err)
	}
}

func TestConversationWith(t *testing.T) {
	svc, _, _, _, _, alice, bob := newChatFixture(t)

	scopeA, err := svc.ConversationWith(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("ConversationWith: %v", err)
	}
	scopeB, err := svc.ConversationWith(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("ConversationWith reversed: %v", err)
	}
	// Both participants derive the same scope
	if scopeA != scopeB {
		t.Errorf("scopes differ: %q vs %q", scopeA, scopeB)
	}

	if _, err := svc.ConversationWith(alice.ID, alice.ID); !errors.Is(err, model.ErrSelfReferential) {
		t.Errorf("self: err = %v, want ErrSelfReferential", err)
	}
	if _, err := svc.ConversationWith(alice.ID, uuid.New()); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown other: err = %v, want ErrNotFound", err)
	}
}

func TestSetLastRoom(t *testing.T) {
	svc, _, _, _, _, alice, _ := newChatFixture(t)

	if err := svc.SetLastRoom(alice.ID, "random"); err != nil {
		t.Fatalf("SetLastRoom: %v", err)
	}
	u, _ := svc.users.FindByID(alice.ID)
	if u.LastRoom != "random" {
		t.Errorf("last room = %q, want random", u.LastRoom)
	}
}
