package wsserver

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"sjavs/internal/ports"
)

// pumpSet runs exactly one EventBus.Subscribe goroutine per match this
// process has at least one connected member of, fanning each received
// event out through the Registry. Matching spec.md §4.12's lifecycle
// hook: the last local subscriber leaving tears the pump down.
type pumpSet struct {
	mu     sync.Mutex
	active map[string]context.CancelFunc
}

func newPumpSet() *pumpSet {
	return &pumpSet{active: make(map[string]context.CancelFunc)}
}

// ensure starts the pump for matchID if one isn't already running. It
// runs for the lifetime of the match, independent of the caller's
// request context, so subscribe uses its own background context.
func (p *pumpSet) ensure(matchID string, bus ports.EventBus, registry *Registry, logger *zap.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.active[matchID]; ok {
		return
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	events, err := bus.Subscribe(pumpCtx, matchID)
	if err != nil {
		cancel()
		logger.Warn("wsserver: subscribe failed", zap.String("match_id", matchID), zap.Error(err))
		return
	}
	p.active[matchID] = cancel

	go func() {
		for event := range events {
			msg := ServerMessage{
				Type:      MessageType(event.Kind),
				MatchID:   event.MatchID,
				Timestamp: event.Timestamp,
				Data:      event.Payload,
			}
			registry.Broadcast(event.MatchID, event.Recipients, msg)
		}
	}()
}

// stop cancels matchID's pump, if any. The caller is responsible for
// also unsubscribing the shared EventBus channel (see ports.EventBus).
func (p *pumpSet) stop(matchID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cancel, ok := p.active[matchID]; ok {
		cancel()
		delete(p.active, matchID)
	}
}
