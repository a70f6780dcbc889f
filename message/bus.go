// Package message implements MessageBus (spec §2 item 10): an in-process
// publish/handler system. No production code in this module posts or
// subscribes; the Scheduler only calls Deliver each tick (see DESIGN.md's
// "`message/` wiring — scope cut").
// Instantaneous messages are delivered same-tick (spec §5's "after all
// agent updates in the same tick but before the next tick's update phase");
// deferred messages wait N ticks. Grounded on the teacher's pattern of a
// single per-kind handler registered by destination id (task/task.go's
// Context wiring), generalized to arbitrary payload types via an `any`
// Payload field instead of a protobuf Any envelope.
package message

import "sync"

// Envelope is one queued message: an opaque payload plus the tick it
// becomes deliverable on.
type Envelope struct {
	Kind        string
	Destination int64
	Payload     any
	DeliverTick int32
}

// Handler processes one delivered Envelope.
type Handler func(Envelope)

// Bus is a single mailbox keyed by (Kind, Destination); PostMessage is safe
// for concurrent callers (spec §5's "PostMessage is lock-free per
// destination" — approximated here with one mutex per bus since Go's stdlib
// has no ready-made MPMC queue in the teacher's dependency set; see
// DESIGN.md).
type Bus struct {
	mu       sync.Mutex
	handlers map[string]map[int64]Handler
	queue    []Envelope
}

// New constructs an empty Bus.
func New() *Bus {
	return &Bus{handlers: map[string]map[int64]Handler{}}
}

// Subscribe registers h as the handler for every message of kind addressed
// to destination. Only one handler may own a (kind, destination) pair —
// matching the teacher's one-receiver-per-id model.
func (b *Bus) Subscribe(kind string, destination int64, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[kind] == nil {
		b.handlers[kind] = map[int64]Handler{}
	}
	b.handlers[kind][destination] = h
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(kind string, destination int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers[kind], destination)
}

// PostInstantaneous queues a message for delivery at the end of the current
// tick (spec §5's instantaneous-same-tick mode).
func (b *Bus) PostInstantaneous(kind string, destination int64, payload any, currentTick int32) {
	b.post(Envelope{Kind: kind, Destination: destination, Payload: payload, DeliverTick: currentTick})
}

// PostDeferred queues a message for delivery delayTicks after currentTick
// (spec §5's deferred/N-tick mode — e.g. a bus's scheduled next-stop ETA
// recompute).
func (b *Bus) PostDeferred(kind string, destination int64, payload any, currentTick int32, delayTicks int32) {
	b.post(Envelope{Kind: kind, Destination: destination, Payload: payload, DeliverTick: currentTick + delayTicks})
}

func (b *Bus) post(env Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, env)
}

// Deliver dispatches every queued message whose DeliverTick has arrived
// (<=tick), removing them from the queue; undelivered (future-dated)
// messages remain queued. Delivery itself runs single-threaded per Bus,
// matching spec §5's "delivery is single-threaded per handler" — call this
// once per tick from the Scheduler after every driver's Update phase.
func (b *Bus) Deliver(tick int32) {
	b.mu.Lock()
	var due []Envelope
	remaining := b.queue[:0]
	for _, env := range b.queue {
		if env.DeliverTick <= tick {
			due = append(due, env)
		} else {
			remaining = append(remaining, env)
		}
	}
	b.queue = remaining
	handlersByKind := make(map[string]map[int64]Handler, len(b.handlers))
	for k, m := range b.handlers {
		cp := make(map[int64]Handler, len(m))
		for d, h := range m {
			cp[d] = h
		}
		handlersByKind[k] = cp
	}
	b.mu.Unlock()

	for _, env := range due {
		if byDest, ok := handlersByKind[env.Kind]; ok {
			if h, ok := byDest[env.Destination]; ok {
				h(env)
			}
		}
	}
}

// Pending reports how many messages remain queued (diagnostics/tests).
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}
