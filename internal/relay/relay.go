// Package relay republishes session events on a Redis channel so spectators
// can follow a game without a second server connection.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gravitas-games/zombies/internal/client"
)

const (
	publishTimeout = 2 * time.Second
	// queueSize bounds the events waiting for Redis; newer events are dropped
	// once it fills.
	queueSize = 64
)

// Publisher is the subset of *redis.Client the relay needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Relay forwards events to "<prefix>:<session id>".
type Relay struct {
	publisher Publisher
	channel   string
	sessionID uuid.UUID
	logger    *zap.Logger

	queue   chan []byte
	dropped atomic.Int64
}

// Options configures a Redis connection for the relay.
type Options struct {
	Address       string
	Password      string
	DB            int
	ChannelPrefix string
}

// Connect dials Redis and checks it answers before returning a Relay.
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (*Relay, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Address, err)
	}

	return New(rdb, opts.ChannelPrefix, logger), rdb, nil
}

// New creates a relay for a fresh session id. Nothing is published until Run
// is started.
func New(publisher Publisher, prefix string, logger *zap.Logger) *Relay {
	id := uuid.New()
	return &Relay{
		publisher: publisher,
		channel:   prefix + ":" + id.String(),
		sessionID: id,
		logger:    logger.Named("relay"),
		queue:     make(chan []byte, queueSize),
	}
}

// Channel returns the Redis channel events are published on.
func (r *Relay) Channel() string { return r.channel }

// SessionID identifies this client session to spectators.
func (r *Relay) SessionID() uuid.UUID { return r.sessionID }

// Attach subscribes the relay to bus.
func (r *Relay) Attach(bus client.EventBus) {
	bus.Subscribe("relay", r.Handle)
}

// Dropped returns how many events were discarded because the queue was full.
func (r *Relay) Dropped() int64 { return r.dropped.Load() }

// Handle queues one event for publishing and returns at once, so a slow
// Redis never stalls the game loop. Events are dropped while the queue is
// full.
func (r *Relay) Handle(e client.Event) {
	payload, err := json.Marshal(envelope{Session: r.sessionID.String(), Event: e})
	if err != nil {
		r.logger.Warn("Failed to encode event", zap.Stringer("type", e.Type), zap.Error(err))
		return
	}

	select {
	case r.queue <- payload:
	default:
		r.dropped.Add(1)
		r.logger.Warn("Relay queue full, dropping event", zap.Stringer("type", e.Type))
	}
}

// Run publishes queued events in order until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-r.queue:
			r.publish(ctx, payload)
		}
	}
}

func (r *Relay) publish(ctx context.Context, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	receivers, err := r.publisher.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		r.logger.Warn("Failed to publish event",
			zap.String("channel", r.channel),
			zap.Error(err))
		return
	}
	r.logger.Debug("Event relayed", zap.Int64("receivers", receivers))
}

type envelope struct {
	Session string `json:"session"`
	client.Event
}
