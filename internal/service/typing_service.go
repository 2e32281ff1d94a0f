package service

import (
	"sync"
	"time"

	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
)

// typingDebounce is how long after the last keystroke a typing flag
// survives before it clears itself.
const typingDebounce = 3000 * time.Millisecond

// TypingTracker keeps the ephemeral per-scope typing flags. Advisory and
// lossy: no retry, no durability; staleness self-heals on the next
// debounce cycle.
type TypingTracker struct {
	mu       sync.Mutex
	debounce time.Duration
	flags    map[string]map[uuid.UUID]bool
	timers   map[string]*time.Timer
	notify   ScopeNotifier
}

// NewTypingTracker creates a tracker. debounce <= 0 uses the default.
func NewTypingTracker(notify ScopeNotifier, debounce time.Duration) *TypingTracker {
	if debounce <= 0 {
		debounce = typingDebounce
	}
	return &TypingTracker{
		debounce: debounce,
		flags:    make(map[string]map[uuid.UUID]bool),
		timers:   make(map[string]*time.Timer),
		notify:   notify,
	}
}

// Keystroke records a draft keystroke in scope. A non-empty draft sets the
// flag and re-arms the debounce timer; an empty draft clears immediately
// rather than waiting for the timer.
func (t *TypingTracker) Keystroke(scope string, userID uuid.UUID, draftEmpty bool) {
	if draftEmpty {
		t.Clear(scope, userID)
		return
	}

	t.mu.Lock()
	changed := !t.flags[scope][userID]
	if changed {
		if t.flags[scope] == nil {
			t.flags[scope] = make(map[uuid.UUID]bool)
		}
		t.flags[scope][userID] = true
	}

	key := timerKey(scope, userID)
	if timer, ok := t.timers[key]; ok {
		timer.Reset(t.debounce)
	} else {
		t.timers[key] = time.AfterFunc(t.debounce, func() {
			t.Clear(scope, userID)
		})
	}
	t.mu.Unlock()

	if changed {
		t.broadcast(scope)
	}
}

// Clear drops the user's typing flag in scope and stops the timer.
// Safe to call when no flag is set.
func (t *TypingTracker) Clear(scope string, userID uuid.UUID) {
	t.mu.Lock()
	key := timerKey(scope, userID)
	if timer, ok := t.timers[key]; ok {
		timer.Stop()
		delete(t.timers, key)
	}

	changed := t.flags[scope][userID]
	if changed {
		delete(t.flags[scope], userID)
		if len(t.flags[scope]) == 0 {
			delete(t.flags, scope)
		}
	}
	t.mu.Unlock()

	if changed {
		t.broadcast(scope)
	}
}

// Snapshot returns every typing flag in scope, keyed by user id. Clients
// filter out their own entry.
func (t *TypingTracker) Snapshot(scope string) map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := make(map[string]bool, len(t.flags[scope]))
	for id, typing := range t.flags[scope] {
		snap[id.String()] = typing
	}
	return snap
}

func (t *TypingTracker) broadcast(scope string) {
	if t.notify == nil {
		return
	}
	t.notify.SendToScope(scope, &model.WSEvent{
		Type:    model.WSEventTypingSnapshot,
		Payload: model.TypingSnapshotEvent{Scope: scope, Typing: t.Snapshot(scope)},
	})
}

func timerKey(scope string, userID uuid.UUID) string {
	return scope + "\x00" + userID.String()
}
