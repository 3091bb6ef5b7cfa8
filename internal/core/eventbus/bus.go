package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus is a buffered, typed publish/subscribe bus. Publishing never
// blocks: when the buffer is full the event is dropped and the OnDrop hooks
// fire. Subscribers run on the Start goroutine, one event at a time, with
// panics recovered so a bad subscriber cannot take the bus down.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates an EventBus with the given buffer size.
func New(buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events to subscribers until ctx is cancelled.
// It blocks; run it on its own goroutine.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

// send enqueues an event and fires hooks. Used by the typed Publish methods.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.runOnPublish(event, payload)
	default:
		bus.runOnDrop(event, payload)
	}
}

// subscribe registers a raw handler. Used by the typed Subscribe methods.
func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

// PublishGoalScheduled publishes a goal.scheduled event.
func (bus *EventBus) PublishGoalScheduled(p GoalScheduledPayload) {
	bus.send(EventGoalScheduled, p)
}

// SubscribeGoalScheduled registers a handler for goal.scheduled events.
func (bus *EventBus) SubscribeGoalScheduled(fn func(GoalScheduledPayload)) {
	bus.subscribe(EventGoalScheduled, func(payload any) {
		if p, ok := payload.(GoalScheduledPayload); ok {
			fn(p)
		}
	})
}

// PublishDeadlineExtended publishes a deadline.extended event.
func (bus *EventBus) PublishDeadlineExtended(p DeadlineExtendedPayload) {
	bus.send(EventDeadlineExtended, p)
}

// SubscribeDeadlineExtended registers a handler for deadline.extended events.
func (bus *EventBus) SubscribeDeadlineExtended(fn func(DeadlineExtendedPayload)) {
	bus.subscribe(EventDeadlineExtended, func(payload any) {
		if p, ok := payload.(DeadlineExtendedPayload); ok {
			fn(p)
		}
	})
}

// PublishCadenceAdjusted publishes a cadence.adjusted event.
func (bus *EventBus) PublishCadenceAdjusted(p CadenceAdjustedPayload) {
	bus.send(EventCadenceAdjusted, p)
}

// SubscribeCadenceAdjusted registers a handler for cadence.adjusted events.
func (bus *EventBus) SubscribeCadenceAdjusted(fn func(CadenceAdjustedPayload)) {
	bus.subscribe(EventCadenceAdjusted, func(payload any) {
		if p, ok := payload.(CadenceAdjustedPayload); ok {
			fn(p)
		}
	})
}

// PublishCheckInRecorded publishes a checkin.recorded event.
func (bus *EventBus) PublishCheckInRecorded(p CheckInRecordedPayload) {
	bus.send(EventCheckInRecorded, p)
}

// SubscribeCheckInRecorded registers a handler for checkin.recorded events.
func (bus *EventBus) SubscribeCheckInRecorded(fn func(CheckInRecordedPayload)) {
	bus.subscribe(EventCheckInRecorded, func(payload any) {
		if p, ok := payload.(CheckInRecordedPayload); ok {
			fn(p)
		}
	})
}

// PublishMilestoneUpcoming publishes a milestone.upcoming event.
func (bus *EventBus) PublishMilestoneUpcoming(p MilestoneUpcomingPayload) {
	bus.send(EventMilestoneUpcoming, p)
}

// SubscribeMilestoneUpcoming registers a handler for milestone.upcoming events.
func (bus *EventBus) SubscribeMilestoneUpcoming(fn func(MilestoneUpcomingPayload)) {
	bus.subscribe(EventMilestoneUpcoming, func(payload any) {
		if p, ok := payload.(MilestoneUpcomingPayload); ok {
			fn(p)
		}
	})
}
