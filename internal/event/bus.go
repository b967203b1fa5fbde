// Package event provides a small synchronous pub/sub bus for editor
// notifications. Handlers run in the publisher's goroutine; a panicking
// handler is recovered and does not stop delivery to the rest.
package event

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Topic names an event stream using dot notation, e.g. "block.added".
type Topic string

// Topics published by the engine.
const (
	TopicBlockAdded       Topic = "block.added"
	TopicBlockRemoved     Topic = "block.removed"
	TopicBlockChanged     Topic = "block.changed"
	TopicBlockMoved       Topic = "block.moved"
	TopicEditorEmpty      Topic = "editor.empty"
	TopicEditorContent    Topic = "editor.content"
	TopicTransferImported Topic = "editor.transfer"
)

// Matches returns true if the topic matches a pattern. A pattern is
// either an exact topic or a prefix followed by ".*", which matches
// any topic sharing that prefix ("block.*" matches "block.added").
func (t Topic) Matches(pattern Topic) bool {
	if t == pattern {
		return true
	}
	if prefix, ok := strings.CutSuffix(string(pattern), ".*"); ok {
		return strings.HasPrefix(string(t), prefix+".")
	}
	return false
}

// Handler receives a published event payload.
type Handler func(topic Topic, payload any)

// Subscription identifies a registered handler for later removal.
type Subscription uint64

// Bus is a synchronous publish/subscribe bus.
type Bus struct {
	mu     sync.RWMutex
	nextID atomic.Uint64
	subs   map[Subscription]subscription
}

type subscription struct {
	pattern Topic
	handler Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Subscription]subscription)}
}

// Subscribe registers a handler for topics matching the pattern and
// returns a subscription handle.
func (b *Bus) Subscribe(pattern Topic, handler Handler) Subscription {
	id := Subscription(b.nextID.Add(1))
	b.mu.Lock()
	b.subs[id] = subscription{pattern: pattern, handler: handler}
	b.mu.Unlock()
	return id
}

// Unsubscribe removes a handler. Unknown handles are ignored.
func (b *Bus) Unsubscribe(id Subscription) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Publish delivers the payload to every handler whose pattern matches
// the topic, in the caller's goroutine.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, sub := range b.subs {
		if topic.Matches(sub.pattern) {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, topic, payload)
	}
}

func deliver(h Handler, topic Topic, payload any) {
	defer func() {
		_ = recover()
	}()
	h(topic, payload)
}
