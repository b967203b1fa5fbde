package event_test

import (
	"testing"

	"github.com/dshills/blockedit/internal/event"
)

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic    event.Topic
		pattern  event.Topic
		expected bool
	}{
		{event.TopicBlockAdded, event.TopicBlockAdded, true},
		{event.TopicBlockAdded, "block.*", true},
		{event.TopicEditorEmpty, "block.*", false},
		{event.TopicBlockAdded, "block.added.extra", false},
		{"block.added.extra", "block.*", true},
	}

	for _, tc := range tests {
		if got := tc.topic.Matches(tc.pattern); got != tc.expected {
			t.Errorf("%q.Matches(%q) = %v, want %v", tc.topic, tc.pattern, got, tc.expected)
		}
	}
}

func TestBusPublish(t *testing.T) {
	bus := event.NewBus()

	var got []event.Topic
	bus.Subscribe("block.*", func(topic event.Topic, payload any) {
		got = append(got, topic)
	})

	bus.Publish(event.TopicBlockAdded, nil)
	bus.Publish(event.TopicEditorEmpty, nil)
	bus.Publish(event.TopicBlockRemoved, nil)

	if len(got) != 2 {
		t.Fatalf("delivered %d events, want 2", len(got))
	}
	if got[0] != event.TopicBlockAdded || got[1] != event.TopicBlockRemoved {
		t.Errorf("delivered %v", got)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := event.NewBus()

	calls := 0
	id := bus.Subscribe(event.TopicEditorEmpty, func(event.Topic, any) { calls++ })

	bus.Publish(event.TopicEditorEmpty, nil)
	bus.Unsubscribe(id)
	bus.Publish(event.TopicEditorEmpty, nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBusRecoversPanickingHandler(t *testing.T) {
	bus := event.NewBus()

	bus.Subscribe(event.TopicEditorEmpty, func(event.Topic, any) { panic("boom") })
	delivered := false
	bus.Subscribe(event.TopicEditorEmpty, func(event.Topic, any) { delivered = true })

	bus.Publish(event.TopicEditorEmpty, nil)

	if !delivered {
		t.Error("panicking handler stopped delivery")
	}
}
