package ws

import "sync"

// subscriptions tracks which clients hold a live message subscription for
// which scope. A client subscribes to at most one scope at a time: setting
// a new scope releases the previous one, so an abandoned scope can never
// deliver updates into current state.
type subscriptions struct {
	mu       sync.RWMutex
	byScope  map[string]map[*Client]bool
	byClient map[*Client]string
}

func newSubscriptions() *subscriptions {
	return &subscriptions{
		byScope:  make(map[string]map[*Client]bool),
		byClient: make(map[*Client]string),
	}
}

// set subscribes a client to scope, releasing any previous scope.
// Returns the scope that was released, if any.
func (s *subscriptions) set(c *Client, scope string) (prev string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.byClient[c]
	if prev == scope {
		return ""
	}
	if prev != "" {
		s.remove(c, prev)
	}

	if _, ok := s.byScope[scope]; !ok {
		s.byScope[scope] = make(map[*Client]bool)
	}
	s.byScope[scope][c] = true
	s.byClient[c] = scope
	return prev
}

// drop releases the client's subscription, if any
func (s *subscriptions) drop(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope, ok := s.byClient[c]; ok {
		s.remove(c, scope)
	}
}

// remove detaches c from scope. Caller holds the lock.
func (s *subscriptions) remove(c *Client, scope string) {
	delete(s.byClient, c)
	if clients, ok := s.byScope[scope]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(s.byScope, scope)
		}
	}
}

// clientsFor returns the clients currently subscribed to scope
func (s *subscriptions) clientsFor(scope string) []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]*Client, 0, len(s.byScope[scope]))
	for c := range s.byScope[scope] {
		clients = append(clients, c)
	}
	return clients
}

// scopeOf returns the client's current scope, or "" if unsubscribed
func (s *subscriptions) scopeOf(c *Client) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byClient[c]
}
