package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindChatArchived, Timestamp: time.Now(), Payload: "chat_1"})

	select {
	case evt := <-ch:
		if evt.Kind != KindChatArchived {
			t.Errorf("got kind %q, want %s", evt.Kind, KindChatArchived)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("message.", 10)
	defer unsub()

	b.Emit(KindChatDeleted, nil)
	b.Emit(KindMessageSent, nil)

	select {
	case evt := <-ch:
		if evt.Kind != KindMessageSent {
			t.Errorf("got kind %q, want %s", evt.Kind, KindMessageSent)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// The chat event must not have been delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEmptyNamespaceReceivesAll(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("", 10)
	defer unsub()

	b.Emit(KindContactBlocked, nil)
	b.Emit(KindSettingsChanged, nil)

	for _, want := range []string{KindContactBlocked, KindSettingsChanged} {
		evt := <-ch
		if evt.Kind != want {
			t.Errorf("got %q, want %q", evt.Kind, want)
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	unsub()
	unsub() // second call is a no-op

	b.Emit(KindChatUpdated, nil)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("received event after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
		t.Fatal("channel not closed after unsubscribe")
	}
	if n := b.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("test.", 1)
	defer unsub()

	b.Publish(Event{Kind: "test.one"})
	// Buffer is full, dropped.
	b.Publish(Event{Kind: "test.two"})

	evt := <-ch
	if evt.Kind != "test.one" {
		t.Errorf("got %q, want test.one", evt.Kind)
	}
}

func TestPublishStampsTimestamp(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("", 1)
	defer unsub()

	b.Publish(Event{Kind: KindChatPinned})
	if evt := <-ch; evt.Timestamp.IsZero() {
		t.Error("Publish left Timestamp zero")
	}
}

func TestNilBusPublishIsNoop(t *testing.T) {
	var b *Bus
	b.Emit(KindChatCreated, nil)
}

func TestEventNamespace(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{KindChatUpdated, "chat."},
		{KindSessionStatusChanged, "session."},
		{"bare", "bare"},
	}
	for _, tt := range tests {
		if got := (Event{Kind: tt.kind}).Namespace(); got != tt.want {
			t.Errorf("Namespace(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
