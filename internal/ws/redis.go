package ws

import (
	"context"
	"encoding/json"
	"log"

	keys "github.com/playmatatu/tactics/internal/redis"
	"github.com/redis/go-redis/v9"
)

// Relay mirrors board events between instances over Redis pub/sub, so viewers of one
// board see each other's changes whichever instance they are connected to.
type Relay struct {
	rdb        *redis.Client
	instanceID string
	hub        *Hub
	out        chan relayEnvelope
}

type relayEnvelope struct {
	Origin  string          `json:"origin"`
	BoardID string          `json:"board_id"`
	Message json.RawMessage `json:"message"`
}

// NewRelay creates a relay for hub. Events published by instanceID are not relayed
// back to it.
func NewRelay(rdb *redis.Client, instanceID string, hub *Hub) *Relay {
	return &Relay{
		rdb:        rdb,
		instanceID: instanceID,
		hub:        hub,
		out:        make(chan relayEnvelope, sendBuffer),
	}
}

// Publish queues an encoded event for other instances. It never blocks.
func (r *Relay) Publish(boardID string, message []byte) {
	select {
	case r.out <- relayEnvelope{Origin: r.instanceID, BoardID: boardID, Message: message}:
	default:
		log.Printf("[WS] relay queue full, dropping event for board %s", boardID)
	}
}

// Start subscribes to the board events channel and starts publishing queued events.
// Both stop when ctx is done.
func (r *Relay) Start(ctx context.Context) {
	if r.rdb == nil {
		log.Println("[WS] Redis client not set; board event relay not started")
		return
	}

	pubsub := r.rdb.Subscribe(ctx, keys.BoardEventsChannel)
	ch := pubsub.Channel()
	go func() {
		log.Printf("[WS] %s subscriber started (instance=%s)", keys.BoardEventsChannel, r.instanceID)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.deliver(msg.Payload)
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case env := <-r.out:
				data, err := json.Marshal(env)
				if err != nil {
					continue
				}
				if err := r.rdb.Publish(ctx, keys.BoardEventsChannel, data).Err(); err != nil {
					log.Printf("[WS] publish event for board %s failed: %v", env.BoardID, err)
				}
			}
		}
	}()
}

// deliver broadcasts a relayed event to the local room unless this instance sent it.
func (r *Relay) deliver(payload string) {
	var env relayEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Printf("[WS] invalid relay payload: %v", err)
		return
	}
	if env.Origin == r.instanceID || env.BoardID == "" || len(env.Message) == 0 {
		return
	}
	r.hub.broadcastRaw(env.BoardID, env.Message)
}
