package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type captureRelay struct {
	published chan []byte
}

func (r *captureRelay) Publish(ctx context.Context, payload []byte) error {
	r.published <- payload
	return nil
}

func newTestClient() *Client {
	return &Client{send: make(chan []byte, sendBuffer)}
}

func recv(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case payload := <-ch:
		return payload
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message")
		return nil
	}
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, zerolog.Nop())
	go hub.Run(ctx)

	c1 := newTestClient()
	c2 := newTestClient()
	hub.register <- c1
	hub.register <- c2

	hub.Broadcast("incident:created", map[string]string{"id": "i1"})

	for _, c := range []*Client{c1, c2} {
		var env message
		if err := json.Unmarshal(recv(t, c.send), &env); err != nil {
			t.Fatalf("invalid envelope: %v", err)
		}
		if env.Event != "incident:created" {
			t.Fatalf("unexpected event: %q", env.Event)
		}
		data, ok := env.Data.(map[string]any)
		if !ok || data["id"] != "i1" {
			t.Fatalf("unexpected data: %+v", env.Data)
		}
	}
}

func TestHub_LateSubscriberMissesEarlierEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, zerolog.Nop())
	go hub.Run(ctx)

	early := newTestClient()
	hub.register <- early
	hub.Broadcast("incident:created", map[string]string{"id": "i1"})
	recv(t, early.send)

	late := newTestClient()
	hub.register <- late
	hub.Broadcast("incident:deleted", map[string]string{"id": "i1"})

	var env message
	if err := json.Unmarshal(recv(t, late.send), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Event != "incident:deleted" {
		t.Fatalf("late subscriber should only see later events, got %q", env.Event)
	}
	select {
	case payload := <-late.send:
		t.Fatalf("late subscriber received replayed event: %s", payload)
	default:
	}
}

func TestHub_SlowSubscriberIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, zerolog.Nop())
	go hub.Run(ctx)

	slow := &Client{send: make(chan []byte)} // unbuffered, never read
	healthy := newTestClient()
	hub.register <- slow
	hub.register <- healthy

	hub.Broadcast("incident:created", map[string]string{"id": "i1"})
	recv(t, healthy.send)

	// The slow client's channel is closed on drop.
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Fatalf("expected closed channel for dropped subscriber")
		}
	case <-time.After(time.Second):
		t.Fatalf("slow subscriber was not dropped")
	}

	hub.Broadcast("incident:deleted", map[string]string{"id": "i1"})
	var env message
	if err := json.Unmarshal(recv(t, healthy.send), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Event != "incident:deleted" {
		t.Fatalf("healthy subscriber should keep receiving, got %q", env.Event)
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, zerolog.Nop())
	go hub.Run(ctx)

	c := newTestClient()
	hub.register <- c
	hub.unregister <- c

	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatalf("expected closed channel after unregister")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after unregister")
	}
}

func TestHub_BroadcastPublishesToRelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := &captureRelay{published: make(chan []byte, 1)}
	hub := NewHub(relay, zerolog.Nop())
	go hub.Run(ctx)

	hub.Broadcast("incident:updated", map[string]string{"id": "i1"})

	var env message
	if err := json.Unmarshal(recv(t, relay.published), &env); err != nil {
		t.Fatalf("invalid relayed envelope: %v", err)
	}
	if env.Event != "incident:updated" {
		t.Fatalf("unexpected relayed event: %q", env.Event)
	}
}

func TestHub_DeliverLocalSkipsRelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := &captureRelay{published: make(chan []byte, 1)}
	hub := NewHub(relay, zerolog.Nop())
	go hub.Run(ctx)

	c := newTestClient()
	hub.register <- c

	raw, _ := json.Marshal(message{Event: "incident:created", Data: map[string]string{"id": "i9"}})
	hub.DeliverLocal(raw)

	recv(t, c.send)
	select {
	case payload := <-relay.published:
		t.Fatalf("relayed events must not be re-published: %s", payload)
	default:
	}
}
