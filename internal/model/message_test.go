package model

import (
	"testing"
	"time"
)

func TestSortMessagesByTimestamp(t *testing.T) {
	base := time.Now()
	msgs := []Message{
		{Body: "third", CreatedAt: base.Add(2 * time.Second)},
		{Body: "first", CreatedAt: base},
		{Body: "second", CreatedAt: base.Add(time.Second)},
	}

	SortMessages(msgs)

	want := []string{"first", "second", "third"}
	for i, w := range want {
		if msgs[i].Body != w {
			t.Errorf("msgs[%d] = %q, want %q", i, msgs[i].Body, w)
		}
	}
}

func TestSortMessagesPendingLast(t *testing.T) {
	base := time.Now()
	msgs := []Message{
		{Body: "pending-a"}, // no server timestamp yet
		{Body: "settled", CreatedAt: base},
		{Body: "pending-b"},
	}

	SortMessages(msgs)

	if msgs[0].Body != "settled" {
		t.Errorf("settled message should sort first, got %q", msgs[0].Body)
	}
	// Pending messages keep their original relative order
	if msgs[1].Body != "pending-a" || msgs[2].Body != "pending-b" {
		t.Errorf("pending order = %q, %q; want pending-a, pending-b", msgs[1].Body, msgs[2].Body)
	}
}

func TestSortMessagesStable(t *testing.T) {
	base := time.Now()
	msgs := []Message{
		{Body: "a", CreatedAt: base},
		{Body: "b", CreatedAt: base},
		{Body: "c", CreatedAt: base},
	}

	SortMessages(msgs)

	for i, w := range []string{"a", "b", "c"} {
		if msgs[i].Body != w {
			t.Errorf("equal timestamps reordered: msgs[%d] = %q, want %q", i, msgs[i].Body, w)
		}
	}
}
