package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/aegis-sentinel/backend/internal/api/metrics"
)

const (
	broadcastBuffer = 256
	relayTimeout    = 2 * time.Second
)

// message is the envelope pushed to every subscriber.
type message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Relay bridges broadcasts to subscribers on other server instances.
type Relay interface {
	Publish(ctx context.Context, payload []byte) error
}

// Hub maintains the set of connected realtime subscribers and fans incident
// lifecycle events out to all of them. Subscribers are not authenticated;
// any connected client receives every event. Delivery is best-effort: a
// subscriber whose buffer is full is dropped, and there is no replay for
// clients that connect after an event was pushed.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	relay      Relay // nil when no relay is configured
	log        zerolog.Logger
}

func NewHub(relay Relay, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		relay:      relay,
		log:        log,
	}
}

// Run owns all mutation of the client set. Stops when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			metrics.RealtimeSubscribers.Set(0)
			return
		case client := <-h.register:
			h.clients[client] = true
			metrics.RealtimeSubscribers.Set(float64(len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.RealtimeSubscribers.Set(float64(len(h.clients)))
			}
		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Slow subscriber: drop it rather than block the fan-out.
					delete(h.clients, client)
					close(client.send)
				}
			}
			metrics.RealtimeSubscribers.Set(float64(len(h.clients)))
		}
	}
}

// Broadcast implements ports.Broadcaster. Fire-and-forget: encoding failures
// and relay errors are logged, never surfaced to the originating request.
func (h *Hub) Broadcast(event string, payload any) {
	raw, err := json.Marshal(message{Event: event, Data: payload})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("broadcast: marshal failed")
		return
	}

	metrics.EventsBroadcastTotal.WithLabelValues(event).Inc()
	h.deliverLocal(raw)

	if h.relay != nil {
		ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
		defer cancel()
		if err := h.relay.Publish(ctx, raw); err != nil {
			h.log.Warn().Err(err).Str("event", event).Msg("broadcast: relay publish failed")
		}
	}
}

// DeliverLocal pushes an already-encoded message to local subscribers only.
// Used by the relay listener for events originating on other instances.
func (h *Hub) DeliverLocal(payload []byte) {
	h.deliverLocal(payload)
}

func (h *Hub) deliverLocal(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn().Msg("broadcast: hub queue full, event dropped")
	}
}
