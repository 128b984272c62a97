package pubsub

import (
	"context"
	"strings"
	"sync"

	"github.com/Billy-Davies-2/draftkit/internal/logger"
)

// Event types published by the draft service
const (
	EventDraftPick        = "draft:pick"
	EventDraftReset       = "draft:reset"
	EventCandidateAdded   = "pool:add"
	EventCandidateUpdated = "pool:update"
	EventCandidateDeleted = "pool:delete"
	EventADPUpdated       = "pool:adp"
	EventADPSynced        = "pool:adp-sync"
	EventTeamAdded        = "teams:add"
	EventTeamsReordered   = "teams:reorder"
)

// Event represents a pubsub event
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ChangesPool reports whether the event changes the candidate pool
func (e Event) ChangesPool() bool {
	return strings.HasPrefix(e.Type, "draft:") || strings.HasPrefix(e.Type, "pool:")
}

// Source hands out event subscriptions
type Source interface {
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// Upstream is an interface for upstream publishers (e.g., NATS)
type Upstream interface {
	Source
	Publish(Event)
}

// PubSub implements a simple publish-subscribe system
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream // Optional upstream publisher (e.g., NATS)
}

// New creates a new PubSub instance
func New() *PubSub {
	return &PubSub{
		subscribers: []chan Event{},
	}
}

// NewWithUpstream creates a PubSub that bridges to an upstream publisher (e.g., NATS).
// Publish goes to the upstream, which broadcasts to all instances, and events from
// the upstream are forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		subscribers: []chan Event{},
		upstream:    upstream,
	}

	ch := upstream.Subscribe()
	go func() {
		logger.Debug("PubSub: Subscribed to upstream, waiting for events")
		for event := range ch {
			logger.Debug("PubSub: Received event from upstream, forwarding to local", "type", event.Type)
			ps.publishLocal(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, 10)
	ps.subscribers = append(ps.subscribers, ch)
	logger.Debug("PubSub: New subscriber added", "totalSubscribers", len(ps.subscribers))
	return ch
}

// Unsubscribe removes a subscriber
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			break
		}
	}
}

// SubscriberCount returns the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers)
}

// Publish sends an event to all subscribers. With an upstream the event is only
// sent upstream and comes back through the upstream subscription.
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		logger.Debug("PubSub: Forwarding to upstream", "type", event.Type)
		ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

// publishLocal sends an event to local subscribers only
func (ps *PubSub) publishLocal(event Event) {
	ps.mu.RLock()
	subs := make([]chan Event, len(ps.subscribers))
	copy(subs, ps.subscribers)
	ps.mu.RUnlock()

	logger.Debug("PubSub: publishLocal", "type", event.Type, "subscriberCount", len(subs))

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Invalidator is anything holding state derived from the candidate pool
type Invalidator interface {
	Invalidate()
}

// InvalidateOnPoolChange invalidates target for every pool-changing event until
// ctx is done. It subscribes before returning so no later event is missed.
func InvalidateOnPoolChange(ctx context.Context, src Source, target Invalidator) {
	ch := src.Subscribe()
	go func() {
		defer src.Unsubscribe(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-ch:
				if !ok {
					return
				}
				if event.ChangesPool() {
					logger.Debug("Invalidating draft snapshot", "type", event.Type)
					target.Invalidate()
				}
			}
		}
	}()
}
