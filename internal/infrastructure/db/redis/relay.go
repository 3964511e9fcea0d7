package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const relayChannel = "incident_events"

// relayEnvelope is the wire format published on the relay channel. Origin
// identifies the publishing instance so it can skip its own messages.
type relayEnvelope struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

// Relay bridges realtime incident events between server instances over a
// Redis pub/sub channel. Each instance publishes its local broadcasts and
// delivers messages originating from other instances to its own subscribers.
type Relay struct {
	client     *redis.Client
	instanceID string
	log        zerolog.Logger
}

func NewRelay(client *redis.Client, log zerolog.Logger) *Relay {
	return &Relay{
		client:     client,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

// Publish sends an already-encoded broadcast message to the relay channel.
func (r *Relay) Publish(ctx context.Context, payload []byte) error {
	env, err := json.Marshal(relayEnvelope{Origin: r.instanceID, Payload: payload})
	if err != nil {
		return fmt.Errorf("relay marshal: %w", err)
	}
	if err := r.client.Publish(ctx, relayChannel, env).Err(); err != nil {
		return fmt.Errorf("relay publish: %w", err)
	}
	return nil
}

// Listen subscribes to the relay channel and calls deliver for every message
// published by another instance. Blocks until ctx is cancelled.
func (r *Relay) Listen(ctx context.Context, deliver func(payload []byte)) {
	sub := r.client.Subscribe(ctx, relayChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.handle([]byte(msg.Payload), deliver)
		}
	}
}

// handle decodes a relay message and delivers it unless this instance
// published it.
func (r *Relay) handle(raw []byte, deliver func(payload []byte)) {
	var env relayEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.log.Warn().Err(err).Msg("relay: malformed envelope")
		return
	}
	if env.Origin == r.instanceID {
		return
	}
	deliver(env.Payload)
}
