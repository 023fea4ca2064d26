// Package eventbus implements a synchronous in-process publish/subscribe
// dispatcher keyed by the concrete type of each event.
//
// Thread-safety: Bus is NOT safe for concurrent use. The whole application
// drives it from one logical thread; publishing or subscribing from several
// goroutines without external serialization is unsupported.
package eventbus

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
)

// Subscription is the handle returned by Subscribe. It is the identity of a
// registration: Unsubscribe removes exactly this one.
type Subscription struct {
	id        uint64
	eventType reflect.Type
	deliver   func(any) error
}

// EventType returns the concrete event type the subscription listens for.
func (s *Subscription) EventType() reflect.Type {
	return s.eventType
}

// Bus dispatches events to the handlers subscribed for their concrete type.
type Bus struct {
	logger *slog.Logger
	nextID uint64
	subs   map[reflect.Type][]*Subscription
}

// New creates an empty bus. Handler failures are reported through logger;
// a nil logger discards them.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bus{
		logger: logger,
		subs:   make(map[reflect.Type][]*Subscription),
	}
}

// Subscribe registers handler for events of type E on b.
//
// Example:
//
//	sub := eventbus.Subscribe(bus, func(ev eventbus.SearchQueryChanged) error {
//	    return view.Filter(ev.Query)
//	})
//	defer bus.Unsubscribe(sub)
func Subscribe[E any](b *Bus, handler func(E) error) *Subscription {
	t := reflect.TypeOf((*E)(nil)).Elem()
	b.nextID++
	sub := &Subscription{
		id:        b.nextID,
		eventType: t,
		deliver: func(ev any) error {
			return handler(ev.(E))
		},
	}
	b.subs[t] = append(b.subs[t], sub)
	return sub
}

// Unsubscribe removes the registration. It returns false, and does nothing,
// when sub is nil, already removed, or its type has no subscribers.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	list, ok := b.subs[sub.eventType]
	if !ok {
		return false
	}
	for i, s := range list {
		if s != sub {
			continue
		}
		// Build a fresh slice: a Publish in progress still holds the old one.
		next := make([]*Subscription, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(b.subs, sub.eventType)
		} else {
			b.subs[sub.eventType] = next
		}
		return true
	}
	return false
}

// Publish delivers ev synchronously to every handler subscribed for its
// concrete type, in subscription order.
//
// The subscriber list is snapshotted before the first handler runs, so
// handlers added during dispatch do not see ev. A handler that returns an
// error or panics is logged and skipped; the remaining handlers still run.
// Publish with no subscribers is a no-op.
func (b *Bus) Publish(ev any) {
	if ev == nil {
		return
	}
	t := reflect.TypeOf(ev)
	snapshot := append([]*Subscription(nil), b.subs[t]...)

	for _, sub := range snapshot {
		if err := b.deliver(sub, ev); err != nil {
			b.logger.Error("event handler failed",
				"event", t.String(),
				"subscription", sub.id,
				"error", err,
			)
		}
	}
}

// SubscriberCount returns the number of handlers registered for E.
func SubscriberCount[E any](b *Bus) int {
	return len(b.subs[reflect.TypeOf((*E)(nil)).Elem()])
}

func (b *Bus) deliver(sub *Subscription, ev any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return sub.deliver(ev)
}
