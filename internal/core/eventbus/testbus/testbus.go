// Package testbus provides test utilities for the event bus.
// It wraps a real EventBus with event recording and assertion helpers.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/steadyhq/stride/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus with event recording for tests.
type Bus struct {
	*eventbus.EventBus
	cancel context.CancelFunc

	mu     sync.Mutex
	events []RecordedEvent
}

// New creates a test bus, starts it in a background goroutine, and
// subscribes to all event types for recording. The bus is stopped
// when the test completes.
func New(t *testing.T) *Bus {
	t.Helper()

	bus := eventbus.New(64)
	ctx, cancel := context.WithCancel(context.Background())

	tb := &Bus{
		EventBus: bus,
		cancel:   cancel,
	}

	// Subscribe to all event types for recording.
	bus.SubscribeGoalScheduled(func(p eventbus.GoalScheduledPayload) {
		tb.record(eventbus.EventGoalScheduled, p)
	})
	bus.SubscribeDeadlineExtended(func(p eventbus.DeadlineExtendedPayload) {
		tb.record(eventbus.EventDeadlineExtended, p)
	})
	bus.SubscribeCadenceAdjusted(func(p eventbus.CadenceAdjustedPayload) {
		tb.record(eventbus.EventCadenceAdjusted, p)
	})
	bus.SubscribeCheckInRecorded(func(p eventbus.CheckInRecordedPayload) {
		tb.record(eventbus.EventCheckInRecorded, p)
	})
	bus.SubscribeMilestoneUpcoming(func(p eventbus.MilestoneUpcomingPayload) {
		tb.record(eventbus.EventMilestoneUpcoming, p)
	})

	go bus.Start(ctx)

	t.Cleanup(func() {
		cancel()
	})

	return tb
}

func (b *Bus) record(event eventbus.Event, payload any) {
	b.mu.Lock()
	b.events = append(b.events, RecordedEvent{Event: event, Payload: payload})
	b.mu.Unlock()
}

// Events returns a copy of all recorded events.
func (b *Bus) Events() []RecordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedEvent, len(b.events))
	copy(out, b.events)
	return out
}

// AssertPublished waits briefly for an event of the given type to be recorded
// and fails the test when none arrives.
func (b *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, rec := range b.Events() {
			if rec.Event == event {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("event %q was not published", event)
}

// AssertNotPublished fails the test if an event of the given type was recorded.
func (b *Bus) AssertNotPublished(t *testing.T, event eventbus.Event) {
	t.Helper()

	// Give the dispatch goroutine a moment to drain.
	time.Sleep(20 * time.Millisecond)
	for _, rec := range b.Events() {
		if rec.Event == event {
			t.Fatalf("event %q was published unexpectedly", event)
		}
	}
}
