package ws

import (
	"testing"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
)

func TestRemoveClientAfterSaturatedDelivery(t *testing.T) {
	hub := NewHub(nil, nil)
	client := NewClient(hub, nil, uuid.New(), "alice")
	hub.addClient(client)

	// Fill the send buffer so the next delivery has to drop
	for i := 0; i < cap(client.send); i++ {
		client.send <- []byte("x")
	}
	hub.sendToLocalUser(client.UserID, &model.WSEvent{Type: model.WSEventOnline})

	// Unregistering after a saturated delivery must close the channel
	// exactly once, not panic
	hub.removeClient(client)
	hub.removeClient(client)

	for i := 0; i < cap(client.send); i++ {
		<-client.send
	}
	if _, ok := <-client.send; ok {
		t.Error("send channel should be closed after removeClient")
	}
}

func TestRemoveClientReleasesSubscription(t *testing.T) {
	hub := NewHub(nil, nil)
	client := NewClient(hub, nil, uuid.New(), "alice")
	hub.addClient(client)
	hub.Subscribe(client, "general")

	hub.removeClient(client)

	if got := hub.subs.scopeOf(client); got != "" {
		t.Errorf("scope after removal = %q, want empty", got)
	}
	if clients := hub.subs.clientsFor("general"); len(clients) != 0 {
		t.Errorf("general still has %d subscribers", len(clients))
	}
}

func TestSendToLocalScopeDropsWhenSaturated(t *testing.T) {
	hub := NewHub(nil, nil)
	client := NewClient(hub, nil, uuid.New(), "alice")
	hub.addClient(client)
	hub.Subscribe(client, "general")

	for i := 0; i < cap(client.send); i++ {
		client.send <- []byte("x")
	}
	// Dropped, and the connection stays registered
	hub.sendToLocalScope("general", &model.WSEvent{Type: model.WSEventMessageSnapshot})

	if clients := hub.subs.clientsFor("general"); len(clients) != 1 {
		t.Errorf("subscribers after drop = %d, want 1", len(clients))
	}
}
