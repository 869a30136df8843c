// Package notify fans registry change events out to in-process subscribers.
//
// The notifier is a single dispatch goroutine reading from a bounded inbound
// queue. Registries publish after their own locks are released, so event
// emission never extends a critical section. Delivery is best effort:
// neither a full inbound queue nor a slow subscriber ever blocks a claim or
// release path; overflowing events are counted and dropped instead.
//
// Ordering holds per subscriber for the events it does receive, in publish
// order. There is no replay: a subscriber sees only events published while
// it is attached.
//
// Example:
//
//	n := notify.New(0, nil)
//	n.Start()
//	defer n.Stop()
//	sub := n.Subscribe(0, func(e notify.Event) bool { return e.Type == notify.EventWorkUnitClaimed })
//	defer n.Unsubscribe(sub)
//	for evt := range sub.Events() {
//	    handle(evt)
//	}
package notify
