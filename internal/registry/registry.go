package registry

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Okohedeki/sia/internal/metrics"
	"github.com/Okohedeki/sia/internal/notify"
	"github.com/Okohedeki/sia/pkg/id"
)

// nowFunc is swapped in tests for deterministic time.
var nowFunc = time.Now

// Release triggers, used as metric labels and to mark forced releases in
// event detail.
const (
	triggerVoluntary = "voluntary"
	triggerTimeout   = "timeout"
	triggerCascade   = "cascade"
)

// Registry owns every work unit and its claim/queue state. A single mutex
// guards the unit map; each operation is one short critical section and
// change events are published only after the lock is dropped, so the
// notifier can never stall a claim.
//
// Work unit records persist for the process lifetime once created. A
// released unit keeps its identity and queue history shape but drops owner
// and timing fields.
type Registry struct {
	mu         sync.Mutex
	units      map[string]*unit // keyed by path
	defaultTTL time.Duration
	notifier   *notify.Notifier
	ids        *id.Generator
}

// New creates a Registry that publishes change events to notifier; a nil
// notifier disables emission. defaultTTL is the claim lifetime applied to
// queue promotions; zero or negative selects 300 seconds.
func New(notifier *notify.Notifier, defaultTTL time.Duration) *Registry {
	if defaultTTL <= 0 {
		defaultTTL = 300 * time.Second
	}
	return &Registry{
		units:      make(map[string]*unit),
		defaultTTL: defaultTTL,
		notifier:   notifier,
		ids:        id.NewGenerator(),
	}
}

// Claim requests exclusive ownership of path for agentID.
//
// Outcomes, in order of evaluation: an unheld unit is granted to the
// caller; a re-claim by the current owner refreshes the TTL; an agent
// already waiting is told its position unchanged; otherwise the caller is
// appended to the FIFO queue. Queued outcomes are not errors: the result
// reports Success=false with the position and current owner.
func (r *Registry) Claim(agentID, path string, rtype ResourceType, ttl time.Duration) (ClaimResult, error) {
	if agentID == "" {
		return ClaimResult{}, fmt.Errorf("agent_id required: %w", ErrInvalidArgument)
	}
	if path == "" {
		return ClaimResult{}, fmt.Errorf("path required: %w", ErrInvalidArgument)
	}
	if !rtype.Valid() {
		return ClaimResult{}, fmt.Errorf("resource type %q: %w", string(rtype), ErrInvalidArgument)
	}
	if ttl <= 0 {
		return ClaimResult{}, fmt.Errorf("ttl must be positive: %w", ErrInvalidArgument)
	}

	r.mu.Lock()
	res, events := r.claimLocked(agentID, path, rtype, ttl)
	r.mu.Unlock()

	r.publish(events)
	metrics.RecordClaim(res.Outcome.String())
	return res, nil
}

func (r *Registry) claimLocked(agentID, path string, rtype ResourceType, ttl time.Duration) (ClaimResult, []notify.Event) {
	now := nowFunc()
	u, ok := r.units[path]
	if !ok {
		u = &unit{id: r.ids.Next().WorkUnit(), path: path, rtype: rtype}
		r.units[path] = u
		metrics.SetWorkUnits(len(r.units))
	}

	if u.owner == "" {
		u.owner = agentID
		u.claimedAt = now
		u.expiresAt = now.Add(ttl)
		res := ClaimResult{
			Success:  true,
			WorkUnit: u.snapshot(),
			Message:  "Work unit claimed",
			Outcome:  OutcomeGranted,
		}
		return res, []notify.Event{{
			Type:      notify.EventWorkUnitClaimed,
			Path:      path,
			AgentID:   agentID,
			Timestamp: now,
		}}
	}

	if u.owner == agentID {
		// Re-entrant claim: the TTL resets, nothing else moves.
		u.expiresAt = now.Add(ttl)
		return ClaimResult{
			Success:  true,
			WorkUnit: u.snapshot(),
			Message:  "Ownership refreshed",
			Outcome:  OutcomeRefreshed,
		}, nil
	}

	if pos := u.queuePosition(agentID); pos > 0 {
		return ClaimResult{
			Success:       false,
			WorkUnit:      u.snapshot(),
			QueuePosition: pos,
			OwnerAgentID:  u.owner,
			Message:       fmt.Sprintf("Already in queue at position %d", pos),
			Outcome:       OutcomeAlreadyQueued,
		}, nil
	}

	u.queue = append(u.queue, QueueEntry{AgentID: agentID, RequestedAt: now})
	pos := len(u.queue)
	res := ClaimResult{
		Success:       false,
		WorkUnit:      u.snapshot(),
		QueuePosition: pos,
		OwnerAgentID:  u.owner,
		Message:       fmt.Sprintf("Work unit busy. Added to queue at position %d", pos),
		Outcome:       OutcomeQueued,
	}
	return res, []notify.Event{{
		Type:      notify.EventAgentQueued,
		Path:      path,
		AgentID:   agentID,
		Timestamp: now,
		Detail:    map[string]string{"position": strconv.Itoa(pos)},
	}}
}

// Release relinquishes agentID's claim on path. The queue head, when one is
// waiting, is promoted in the same step with the registry default TTL.
func (r *Registry) Release(agentID, path string) (ClaimResult, error) {
	if agentID == "" {
		return ClaimResult{}, fmt.Errorf("agent_id required: %w", ErrInvalidArgument)
	}
	if path == "" {
		return ClaimResult{}, fmt.Errorf("path required: %w", ErrInvalidArgument)
	}

	r.mu.Lock()
	u, ok := r.units[path]
	if !ok {
		r.mu.Unlock()
		return ClaimResult{}, fmt.Errorf("%s: %w", path, ErrUnknownWorkUnit)
	}
	if u.owner != agentID {
		r.mu.Unlock()
		return ClaimResult{}, fmt.Errorf("%s does not hold %s: %w", agentID, path, ErrNotOwner)
	}
	tr, events := r.releaseAndPromoteLocked(u, triggerVoluntary)
	r.mu.Unlock()

	r.publish(events)
	msg := "Work unit released"
	if tr.PromotedTo != "" {
		msg = fmt.Sprintf("Work unit released. Transferred to %s", tr.PromotedTo)
	}
	return ClaimResult{Success: true, WorkUnit: tr.Unit, Message: msg}, nil
}

// releaseAndPromoteLocked is the single mutation path that removes an
// owner. Every way a claim can end (voluntary release, TTL expiry, agent
// cascade) funnels through here, so promotion and event emission cannot
// diverge between triggers. Must be called with the lock held and a
// non-empty u.owner; returned events are published after unlock.
func (r *Registry) releaseAndPromoteLocked(u *unit, trigger string) (Transition, []notify.Event) {
	now := nowFunc()
	oldOwner := u.owner
	tr := Transition{Path: u.path, OldOwner: oldOwner}

	forced := trigger == triggerTimeout

	if len(u.queue) > 0 {
		head := u.queue[0]
		u.queue = u.queue[1:]
		u.owner = head.AgentID
		u.claimedAt = now
		u.expiresAt = now.Add(r.defaultTTL)

		tr.PromotedTo = head.AgentID
		tr.Waited = now.Sub(head.RequestedAt)
		tr.Unit = u.snapshot()

		metrics.RecordRelease(trigger)
		metrics.ObserveQueueWait(tr.Waited)

		detail := map[string]string{"from": oldOwner, "new_owner": head.AgentID}
		if forced {
			detail["timeout"] = "true"
		}
		return tr, []notify.Event{{
			Type:      notify.EventWorkUnitTransferred,
			Path:      u.path,
			AgentID:   head.AgentID,
			Timestamp: now,
			Detail:    detail,
		}}
	}

	u.owner = ""
	u.claimedAt = time.Time{}
	u.expiresAt = time.Time{}
	tr.Unit = u.snapshot()

	metrics.RecordRelease(trigger)

	var detail map[string]string
	if forced {
		detail = map[string]string{"timeout": "true"}
	}
	return tr, []notify.Event{{
		Type:      notify.EventWorkUnitReleased,
		Path:      u.path,
		AgentID:   oldOwner,
		Timestamp: now,
		Detail:    detail,
	}}
}

// Dequeue removes agentID's pending entry from path's wait queue.
// Ownership is never touched; removing an absent entry reports false
// without error.
func (r *Registry) Dequeue(agentID, path string) (bool, error) {
	if agentID == "" {
		return false, fmt.Errorf("agent_id required: %w", ErrInvalidArgument)
	}
	if path == "" {
		return false, fmt.Errorf("path required: %w", ErrInvalidArgument)
	}

	r.mu.Lock()
	u, ok := r.units[path]
	if !ok {
		r.mu.Unlock()
		return false, fmt.Errorf("%s: %w", path, ErrUnknownWorkUnit)
	}
	removed := u.removeFromQueue(agentID)
	now := nowFunc()
	r.mu.Unlock()

	if removed {
		r.publish([]notify.Event{{
			Type:      notify.EventAgentLeftQueue,
			Path:      path,
			AgentID:   agentID,
			Timestamp: now,
		}})
	}
	return removed, nil
}

// DeregisterCascade releases every work unit agentID owns, promoting
// waiters, and strips agentID from every queue it sits in. Returns the
// paths that were released, sorted.
//
// The cascade takes the lock once per path rather than once for the whole
// sweep, so a departing agent with many claims never stalls unrelated
// traffic. Claims raced in between are left alone.
func (r *Registry) DeregisterCascade(agentID string) []string {
	if agentID == "" {
		return nil
	}

	r.mu.Lock()
	var owned, queued []string
	for path, u := range r.units {
		switch {
		case u.owner == agentID:
			owned = append(owned, path)
		case u.queuePosition(agentID) > 0:
			queued = append(queued, path)
		}
	}
	r.mu.Unlock()
	sort.Strings(owned)
	sort.Strings(queued)

	var released []string
	for _, path := range owned {
		r.mu.Lock()
		u, ok := r.units[path]
		if !ok || u.owner != agentID {
			r.mu.Unlock()
			continue
		}
		_, events := r.releaseAndPromoteLocked(u, triggerCascade)
		r.mu.Unlock()
		r.publish(events)
		released = append(released, path)
	}

	for _, path := range queued {
		r.mu.Lock()
		u, ok := r.units[path]
		removed := ok && u.removeFromQueue(agentID)
		now := nowFunc()
		r.mu.Unlock()
		if removed {
			r.publish([]notify.Event{{
				Type:      notify.EventAgentLeftQueue,
				Path:      path,
				AgentID:   agentID,
				Timestamp: now,
			}})
		}
	}
	return released
}

// ExpireDue force-releases every claimed unit whose expiry is at or before
// now, promoting queue heads. Each unit gets its own critical section with
// the deadline re-checked inside it, so a refresh racing the sweep wins.
// Returns one Transition per released unit, ordered by path.
func (r *Registry) ExpireDue(now time.Time) []Transition {
	r.mu.Lock()
	var due []string
	for path, u := range r.units {
		if u.owner != "" && !u.expiresAt.After(now) {
			due = append(due, path)
		}
	}
	r.mu.Unlock()
	sort.Strings(due)

	var out []Transition
	for _, path := range due {
		r.mu.Lock()
		u, ok := r.units[path]
		if !ok || u.owner == "" || u.expiresAt.After(now) {
			r.mu.Unlock()
			continue
		}
		tr, events := r.releaseAndPromoteLocked(u, triggerTimeout)
		r.mu.Unlock()
		r.publish(events)
		out = append(out, tr)
	}
	return out
}

// Get returns a snapshot of the unit at path.
func (r *Registry) Get(path string) (WorkUnit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[path]
	if !ok {
		return WorkUnit{}, false
	}
	return u.snapshot(), true
}

// List returns snapshots of every known work unit, sorted by path.
func (r *Registry) List() []WorkUnit {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]WorkUnit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u.snapshot())
	}
	sortUnits(out)
	return out
}

// ListAvailable returns snapshots of the units nobody holds, sorted by path.
func (r *Registry) ListAvailable() []WorkUnit {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []WorkUnit
	for _, u := range r.units {
		if u.owner == "" {
			out = append(out, u.snapshot())
		}
	}
	sortUnits(out)
	return out
}

// ListByAgent returns snapshots of the units agentID owns, sorted by path.
// Queue membership does not count as ownership.
func (r *Registry) ListByAgent(agentID string) []WorkUnit {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []WorkUnit
	for _, u := range r.units {
		if u.owner == agentID && agentID != "" {
			out = append(out, u.snapshot())
		}
	}
	sortUnits(out)
	return out
}

// QueuePosition reports agentID's 1-indexed wait position at path and
// whether it is the current owner. Unknown paths and uninvolved agents
// yield (0, false).
func (r *Registry) QueuePosition(path, agentID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[path]
	if !ok {
		return 0, false
	}
	if agentID != "" && u.owner == agentID {
		return 0, true
	}
	return u.queuePosition(agentID), false
}

// Len returns the number of known work units.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.units)
}

func (r *Registry) publish(events []notify.Event) {
	if r.notifier == nil {
		return
	}
	for _, evt := range events {
		r.notifier.Publish(evt)
	}
}

func sortUnits(units []WorkUnit) {
	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })
}
