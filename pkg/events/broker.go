package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// subscriptionBuffer bounds the per-subscriber channel. A consumer that falls
// this far behind loses events; durable events remain recoverable from the
// log, chunk loss is acceptable.
const subscriptionBuffer = 256

// listenTimeout bounds how long a LISTEN command may block when the first
// subscriber arrives on a channel.
const listenTimeout = 10 * time.Second

// Subscription is one consumer's feed of a task's events.
type Subscription struct {
	ch      chan Envelope
	channel string
	broker  *Broker
	once    sync.Once
}

// Events returns the subscriber's event feed. Closed on Close.
func (s *Subscription) Events() <-chan Envelope {
	return s.ch
}

// Close tears down the subscription. Idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.unsubscribe(s)
	})
}

// Broker fans NOTIFY payloads out to in-process subscribers. One instance per
// process; the NotifyListener feeds it via Broadcast.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}

	listenerMu sync.RWMutex
	listener   *NotifyListener
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[*Subscription]struct{})}
}

// SetListener wires the LISTEN connection for dynamic channel subscription.
// Called once during startup.
func (b *Broker) SetListener(l *NotifyListener) {
	b.listenerMu.Lock()
	defer b.listenerMu.Unlock()
	b.listener = l
}

// Subscribe registers a consumer for a task's events. LISTEN is established
// synchronously for the first subscriber, so a backfill query issued after
// Subscribe returns cannot miss events.
func (b *Broker) Subscribe(taskID string) (*Subscription, error) {
	channel := TaskChannel(taskID)
	sub := &Subscription{
		ch:      make(chan Envelope, subscriptionBuffer),
		channel: channel,
		broker:  b,
	}

	b.mu.Lock()
	needsListen := false
	if _, exists := b.subs[channel]; !exists {
		b.subs[channel] = make(map[*Subscription]struct{})
		needsListen = true
	}
	b.subs[channel][sub] = struct{}{}
	b.mu.Unlock()

	if needsListen {
		b.listenerMu.RLock()
		l := b.listener
		b.listenerMu.RUnlock()
		if l != nil {
			listenCtx, cancel := context.WithTimeout(context.Background(), listenTimeout)
			defer cancel()
			if err := l.Subscribe(listenCtx, channel); err != nil {
				b.removeSub(sub)
				return nil, fmt.Errorf("LISTEN on channel %s: %w", channel, err)
			}
		}
	}
	return sub, nil
}

// Broadcast decodes a NOTIFY payload and delivers it to every subscriber of
// the channel. Slow subscribers are skipped rather than blocking the receive
// loop.
func (b *Broker) Broadcast(channel string, payload []byte) {
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		slog.Warn("Dropping malformed NOTIFY payload", "channel", channel, "error", err)
		return
	}

	b.mu.Lock()
	targets := make([]*Subscription, 0, len(b.subs[channel]))
	for sub := range b.subs[channel] {
		targets = append(targets, sub)
	}
	b.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- envelope:
		default:
			slog.Warn("Subscriber buffer full, dropping event",
				"channel", channel, "event_type", envelope.EventType)
		}
	}
}

// SubscriberCount returns the number of subscribers on a task's channel.
func (b *Broker) SubscriberCount(taskID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[TaskChannel(taskID)])
}

func (b *Broker) unsubscribe(sub *Subscription) {
	lastOnChannel := b.removeSub(sub)
	close(sub.ch)

	if !lastOnChannel {
		return
	}

	b.listenerMu.RLock()
	l := b.listener
	b.listenerMu.RUnlock()
	if l == nil {
		return
	}

	// UNLISTEN in the background, re-checking for a racing resubscribe so a
	// rapid unsubscribe/resubscribe cycle does not drop the LISTEN.
	channel := sub.channel
	go func() {
		b.mu.Lock()
		_, resubscribed := b.subs[channel]
		b.mu.Unlock()
		if resubscribed {
			return
		}
		if err := l.Unsubscribe(context.Background(), channel); err != nil {
			slog.Error("Failed to UNLISTEN channel", "channel", channel, "error", err)
		}
	}()
}

// removeSub detaches a subscription and reports whether it was the channel's
// last subscriber.
func (b *Broker) removeSub(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, exists := b.subs[sub.channel]
	if !exists {
		return false
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(b.subs, sub.channel)
		return true
	}
	return false
}
