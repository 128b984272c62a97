package pubsub

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/draftkit/internal/logger"
)

// DefaultStreamName is the JetStream stream carrying draft events
const DefaultStreamName = "DRAFT_EVENTS"

// NATSPubSub implements pub/sub using NATS JetStream. Every instance connected to
// the same subject sees every event, including its own.
type NATSPubSub struct {
	nc          *nats.Conn
	js          nats.JetStreamContext
	sub         *nats.Subscription
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
}

// streamOptions shape the JetStream stream created for the subject
type streamOptions struct {
	name    string
	storage nats.StorageType
	maxAge  time.Duration
}

// NewNATSPubSub connects to an external NATS server
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL, nats.Name("draftkit"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	ps, err := newJetStreamPubSub(nc, subject, streamOptions{
		name:    DefaultStreamName,
		storage: nats.FileStorage,
		maxAge:  24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, err
	}
	logger.Info("Connected to NATS", "url", natsURL, "subject", subject)
	return ps, nil
}

func newJetStreamPubSub(nc *nats.Conn, subject string, opts streamOptions) (*NATSPubSub, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Create the stream unless another instance already has
	if _, err := js.StreamInfo(opts.name); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return nil, fmt.Errorf("failed to look up stream: %w", err)
		}
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     opts.name,
			Subjects: []string{subject},
			Storage:  opts.storage,
			MaxAge:   opts.maxAge,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
		logger.Info("JetStream stream created", "stream", opts.name, "subject", subject)
	}

	ps := &NATSPubSub{
		nc:          nc,
		js:          js,
		subject:     subject,
		subscribers: make([]chan Event, 0),
	}

	ps.sub, err = js.Subscribe(subject, ps.handle, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to JetStream: %w", err)
	}
	logger.Debug("Subscribed to JetStream", "subject", subject)

	return ps, nil
}

// handle broadcasts a JetStream message to local subscribers
func (p *NATSPubSub) handle(msg *nats.Msg) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to unmarshal event from JetStream", "error", err)
		_ = msg.Term()
		return
	}

	p.mu.RLock()
	subs := make([]chan Event, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			logger.Warn("NATS: Skipping slow subscriber", "event_type", event.Type)
		}
	}

	_ = msg.Ack()
}

// Publish publishes an event to NATS JetStream
func (p *NATSPubSub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	if _, err := p.js.Publish(p.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", p.subject, "event_type", event.Type)
		return
	}

	logger.Debug("Published event to NATS", "event_type", event.Type, "subject", p.subject)
}

// Subscribe creates a subscription channel for events
func (p *NATSPubSub) Subscribe() chan Event {
	ch := make(chan Event, 100)

	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	subCount := len(p.subscribers)
	p.mu.Unlock()

	logger.Debug("NATS: New subscriber added", "total_subscribers", subCount)
	return ch
}

// Unsubscribe removes a subscription channel
func (p *NATSPubSub) Unsubscribe(ch chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// SubscriberCount returns the number of active local subscribers
func (p *NATSPubSub) SubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}

// Healthy reports whether the NATS connection is up
func (p *NATSPubSub) Healthy() bool {
	return p.nc != nil && p.nc.IsConnected()
}

// Close drains the subscription and closes the NATS connection
func (p *NATSPubSub) Close() {
	if p.sub != nil {
		_ = p.sub.Unsubscribe()
	}

	p.mu.Lock()
	for _, sub := range p.subscribers {
		close(sub)
	}
	p.subscribers = nil
	p.mu.Unlock()

	if p.nc != nil {
		p.nc.Close()
	}
}
