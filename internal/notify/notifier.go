package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Okohedeki/sia/internal/metrics"
	logpkg "github.com/Okohedeki/sia/pkg/log"
)

// Event types published by the registries.
const (
	EventWorkUnitClaimed     = "work_unit_claimed"
	EventWorkUnitReleased    = "work_unit_released"
	EventWorkUnitTransferred = "work_unit_transferred"
	EventAgentQueued         = "agent_queued"
	EventAgentLeftQueue      = "agent_left_queue"
	EventAgentRegistered     = "agent_registered"
	EventAgentRemoved        = "agent_removed"
)

// Event is one registry change notification. Path and AgentID are set when
// the event concerns a work unit or an agent; Detail carries event-specific
// context such as queue positions or timeout markers.
type Event struct {
	Type      string            `json:"event_type"`
	Path      string            `json:"path,omitempty"`
	AgentID   string            `json:"agent_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// FilterFunc decides whether a subscriber receives an event.
type FilterFunc func(Event) bool

// Subscription is one attached observer. Consume from Events until it is
// closed; the channel closes when the subscription is dropped or the
// notifier stops.
type Subscription struct {
	id     uint64
	ch     chan Event
	filter FilterFunc
}

// Events returns the subscription's delivery channel.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Default buffer sizes for the inbound queue and per-subscriber channels.
const (
	DefaultBuffer    = 256
	DefaultSubBuffer = 64
)

// Notifier fans registry change events out to subscribers. Publishing never
// blocks: when the inbound queue or a subscriber channel is full the event
// is counted as dropped and delivery moves on. Delivery is best effort and
// ordered per subscriber.
type Notifier struct {
	logger logpkg.Logger

	in     chan Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	stopped bool

	dropped atomic.Uint64
}

// New creates a Notifier with the given inbound buffer size; zero or
// negative selects DefaultBuffer. Call Start to begin dispatching.
func New(buffer int, logger logpkg.Logger) *Notifier {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("notify"))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Notifier{
		logger: logger,
		in:     make(chan Event, buffer),
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[uint64]*Subscription),
	}
}

// Start launches the dispatch loop.
func (n *Notifier) Start() {
	n.wg.Add(1)
	go n.run()
}

// Stop halts dispatch and closes every subscriber channel. Events still in
// the inbound queue are discarded.
func (n *Notifier) Stop() {
	n.cancel()
	n.wg.Wait()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	for id, sub := range n.subs {
		delete(n.subs, id)
		close(sub.ch)
	}
}

// Publish enqueues an event for dispatch, stamping the time if unset. A
// full inbound queue drops the event.
func (n *Notifier) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	select {
	case n.in <- evt:
	default:
		n.dropped.Add(1)
		metrics.RecordEventDropped()
		n.logger.Debug("event dropped: inbound queue full",
			logpkg.Str("event_type", evt.Type),
			logpkg.Str("path", evt.Path),
		)
	}
}

// Subscribe attaches an observer. buffer sizes its channel (zero or
// negative selects DefaultSubBuffer); filter may be nil to receive every
// event. The caller must eventually Unsubscribe.
func (n *Notifier) Subscribe(buffer int, filter FilterFunc) *Subscription {
	if buffer <= 0 {
		buffer = DefaultSubBuffer
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	sub := &Subscription{id: n.nextID, ch: make(chan Event, buffer), filter: filter}
	if n.stopped {
		close(sub.ch)
		return sub
	}
	n.subs[sub.id] = sub
	return sub
}

// Unsubscribe detaches sub and closes its channel. Unknown or already
// removed subscriptions are ignored.
func (n *Notifier) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.subs[sub.id]; !ok {
		return
	}
	delete(n.subs, sub.id)
	close(sub.ch)
}

// Dropped reports how many events were discarded due to full buffers.
func (n *Notifier) Dropped() uint64 { return n.dropped.Load() }

func (n *Notifier) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.ctx.Done():
			return
		case evt := <-n.in:
			n.dispatch(evt)
		}
	}
}

// dispatch delivers one event to every matching subscriber. Sends happen
// under the subscription lock with a non-blocking select, so a slow
// consumer loses events instead of stalling the loop, and a concurrent
// Unsubscribe can never close a channel mid-send.
func (n *Notifier) dispatch(evt Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, sub := range n.subs {
		if sub.filter != nil && !evalFilter(sub.filter, evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			n.dropped.Add(1)
			metrics.RecordEventDropped()
			n.logger.Debug("event dropped: subscriber full",
				logpkg.Str("event_type", evt.Type),
				logpkg.Str("path", evt.Path),
			)
		}
	}
}

// evalFilter guards filter evaluation; a panicking filter suppresses the
// event for that subscriber only.
func evalFilter(filter FilterFunc, evt Event) (keep bool) {
	defer func() {
		if recover() != nil {
			keep = false
		}
	}()
	return filter(evt)
}
