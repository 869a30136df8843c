package notify

import (
	"testing"
	"time"
)

func recvEvent(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		if !ok {
			t.Fatalf("subscription closed while waiting for event")
		}
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestPublishReachesSubscriber(t *testing.T) {
	n := New(0, nil)
	n.Start()
	defer n.Stop()

	sub := n.Subscribe(0, nil)
	defer n.Unsubscribe(sub)

	n.Publish(Event{Type: EventWorkUnitClaimed, Path: "src/a.go", AgentID: "agent-1"})

	evt := recvEvent(t, sub)
	if evt.Type != EventWorkUnitClaimed {
		t.Fatalf("event type = %q, want %q", evt.Type, EventWorkUnitClaimed)
	}
	if evt.Path != "src/a.go" || evt.AgentID != "agent-1" {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
	if evt.Timestamp.IsZero() {
		t.Fatalf("publish did not stamp the event time")
	}
}

func TestSubscriberFilterApplies(t *testing.T) {
	n := New(0, nil)
	n.Start()
	defer n.Stop()

	sub := n.Subscribe(0, func(e Event) bool { return e.Type == EventAgentQueued })
	defer n.Unsubscribe(sub)

	n.Publish(Event{Type: EventWorkUnitClaimed, Path: "a"})
	n.Publish(Event{Type: EventAgentQueued, Path: "a", AgentID: "agent-2"})

	evt := recvEvent(t, sub)
	if evt.Type != EventAgentQueued {
		t.Fatalf("filter let through %q, want only %q", evt.Type, EventAgentQueued)
	}
}

func TestPanickingFilterSkipsEvent(t *testing.T) {
	n := New(0, nil)
	n.Start()
	defer n.Stop()

	bad := n.Subscribe(0, func(Event) bool { panic("boom") })
	defer n.Unsubscribe(bad)
	good := n.Subscribe(0, nil)
	defer n.Unsubscribe(good)

	n.Publish(Event{Type: EventWorkUnitReleased, Path: "a"})

	// The healthy subscriber still gets the event.
	evt := recvEvent(t, good)
	if evt.Type != EventWorkUnitReleased {
		t.Fatalf("event type = %q, want %q", evt.Type, EventWorkUnitReleased)
	}
	select {
	case evt := <-bad.Events():
		t.Fatalf("panicking filter delivered event %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishDropsWhenInboundFull(t *testing.T) {
	// Dispatch is never started, so the inbound queue fills deterministically.
	n := New(1, nil)
	n.Publish(Event{Type: EventWorkUnitClaimed, Path: "a"})
	n.Publish(Event{Type: EventWorkUnitClaimed, Path: "b"})

	if got := n.Dropped(); got != 1 {
		t.Fatalf("Dropped() = %d, want 1", got)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	n := New(0, nil)
	n.Start()
	defer n.Stop()

	sub := n.Subscribe(0, nil)
	n.Unsubscribe(sub)
	n.Unsubscribe(sub) // second call is a no-op

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatalf("received event on unsubscribed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after unsubscribe")
	}
}

func TestStopClosesSubscribers(t *testing.T) {
	n := New(0, nil)
	n.Start()
	sub := n.Subscribe(0, nil)

	n.Stop()

	if _, ok := <-sub.Events(); ok {
		t.Fatalf("subscription still open after Stop")
	}

	// Subscribing after Stop yields an already-closed subscription.
	late := n.Subscribe(0, nil)
	if _, ok := <-late.Events(); ok {
		t.Fatalf("late subscription delivered an event after Stop")
	}
}

func TestPerSubscriberOrdering(t *testing.T) {
	n := New(0, nil)
	n.Start()
	defer n.Stop()

	sub := n.Subscribe(8, nil)
	defer n.Unsubscribe(sub)

	paths := []string{"a", "b", "c", "d"}
	for _, p := range paths {
		n.Publish(Event{Type: EventWorkUnitClaimed, Path: p})
	}
	for _, want := range paths {
		evt := recvEvent(t, sub)
		if evt.Path != want {
			t.Fatalf("out of order: got %q, want %q", evt.Path, want)
		}
	}
}
