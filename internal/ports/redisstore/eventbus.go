package redisstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sjavs/internal/ports"
)

// wireEvent is the JSON envelope carried over Redis pub/sub. ports.Event's
// Payload is already a JSON-tagged DTO (see app/events.go), so it is
// embedded as json.RawMessage on decode rather than re-typed.
type wireEvent struct {
	Kind       string          `json:"kind"`
	MatchID    string          `json:"match_id"`
	Timestamp  int64           `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
	Recipients []string        `json:"recipients,omitempty"`
}

// subscription fans one Redis channel out to every local caller of
// Subscribe for the same match; refCount tracks how many callers are
// still listening so Unsubscribe only tears down the pubsub.PubSub once
// the last one leaves.
type subscription struct {
	pubsub   *redis.PubSub
	ch       chan ports.Event
	cancel   context.CancelFunc
	refCount int
}

// EventBus is the Redis pub/sub-backed ports.EventBus (C10), publishing
// and subscribing on channel "pubsub:game:{match_id}" per spec.md §6.2.
type EventBus struct {
	client *redis.Client
	logger *zap.Logger

	mu   sync.Mutex
	subs map[string]*subscription
}

// NewEventBus wraps an already-configured *redis.Client.
func NewEventBus(client *redis.Client, logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{client: client, logger: logger, subs: make(map[string]*subscription)}
}

func (b *EventBus) Publish(ctx context.Context, matchID string, event ports.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(wireEvent{
		Kind:       event.Kind,
		MatchID:    event.MatchID,
		Timestamp:  event.Timestamp,
		Payload:    payload,
		Recipients: event.Recipients,
	})
	if err != nil {
		return err
	}
	return wrapErr(b.client.Publish(ctx, pubsubChannel(matchID), blob).Err())
}

// Subscribe returns a channel of events for matchID. Multiple callers for
// the same match share one underlying Redis subscription; the returned
// channel is buffered so a slow reader cannot stall the shared pump.
func (b *EventBus) Subscribe(ctx context.Context, matchID string) (<-chan ports.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[matchID]; ok {
		sub.refCount++
		return sub.ch, nil
	}

	pubCtx, cancel := context.WithCancel(context.Background())
	pubsub := b.client.Subscribe(pubCtx, pubsubChannel(matchID))
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, wrapErr(err)
	}

	sub := &subscription{
		pubsub:   pubsub,
		ch:       make(chan ports.Event, 64),
		cancel:   cancel,
		refCount: 1,
	}
	b.subs[matchID] = sub

	go b.pump(matchID, sub)

	return sub.ch, nil
}

func (b *EventBus) pump(matchID string, sub *subscription) {
	defer close(sub.ch)
	for msg := range sub.pubsub.Channel() {
		var wire wireEvent
		if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil {
			b.logger.Warn("redisstore: dropping malformed event", zap.String("match_id", matchID), zap.Error(err))
			continue
		}
		event := ports.Event{
			Kind:       wire.Kind,
			MatchID:    wire.MatchID,
			Timestamp:  wire.Timestamp,
			Payload:    wire.Payload,
			Recipients: wire.Recipients,
		}
		select {
		case sub.ch <- event:
		default:
			b.logger.Warn("redisstore: event channel full, dropping event",
				zap.String("match_id", matchID), zap.String("kind", event.Kind))
		}
	}
}

// Unsubscribe drops one caller's interest in matchID; the Redis
// subscription is closed once the last caller unsubscribes.
func (b *EventBus) Unsubscribe(ctx context.Context, matchID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[matchID]
	if !ok {
		return nil
	}
	sub.refCount--
	if sub.refCount > 0 {
		return nil
	}

	delete(b.subs, matchID)
	sub.cancel()
	return wrapErr(sub.pubsub.Close())
}

var _ ports.EventBus = (*EventBus)(nil)
