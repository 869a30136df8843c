package registry

import "time"

// ResourceType classifies what a work unit coordinates access to.
type ResourceType string

// Resource types understood by the registry.
const (
	ResourceFile      ResourceType = "file"
	ResourceDirectory ResourceType = "directory"
	ResourceProcess   ResourceType = "process"
)

// Valid reports whether t is one of the closed resource type set.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceFile, ResourceDirectory, ResourceProcess:
		return true
	default:
		return false
	}
}

// Status is the claim state of a work unit.
type Status string

// Work unit states.
const (
	StatusAvailable Status = "available"
	StatusClaimed   Status = "claimed"
)

// QueueEntry records one agent waiting for a work unit. Position is derived
// from the index in the queue, never stored.
type QueueEntry struct {
	AgentID     string    `json:"agent_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// WorkUnit is an outward snapshot of one coordinated resource. Snapshots are
// copies; mutating one never touches registry state.
type WorkUnit struct {
	ID           string       `json:"id"`
	Path         string       `json:"path"`
	Type         ResourceType `json:"type"`
	Status       Status       `json:"status"`
	OwnerAgentID string       `json:"owner_agent_id,omitempty"`
	ClaimedAt    *time.Time   `json:"claimed_at,omitempty"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	Queue        []QueueEntry `json:"queue"`
}

// ClaimOutcome distinguishes the ways a claim call can resolve.
type ClaimOutcome int

// Claim outcomes.
const (
	// OutcomeGranted means the caller now owns the work unit.
	OutcomeGranted ClaimOutcome = iota
	// OutcomeRefreshed means the caller already owned it; the TTL was reset.
	OutcomeRefreshed
	// OutcomeAlreadyQueued means the caller was already waiting; nothing changed.
	OutcomeAlreadyQueued
	// OutcomeQueued means the caller was appended to the wait queue.
	OutcomeQueued
)

// String returns the label used in logs and metrics.
func (o ClaimOutcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeAlreadyQueued:
		return "already_queued"
	case OutcomeQueued:
		return "queued"
	default:
		return "unknown"
	}
}

// ClaimResult is returned synchronously from every claim call. It is always
// fully populated: WorkUnit carries the post-call snapshot, and on a queued
// outcome QueuePosition (1-indexed) and OwnerAgentID identify the wait state.
type ClaimResult struct {
	Success       bool         `json:"success"`
	WorkUnit      WorkUnit     `json:"work_unit"`
	QueuePosition int          `json:"queue_position,omitempty"`
	OwnerAgentID  string       `json:"owner_agent_id,omitempty"`
	Message       string       `json:"message"`
	Outcome       ClaimOutcome `json:"-"`
}

// Transition describes one release-and-promote step: a work unit lost its
// owner and either promoted the queue head or became available.
type Transition struct {
	Path       string
	OldOwner   string
	PromotedTo string        // empty when the unit became available
	Waited     time.Duration // queue time of the promoted agent, zero otherwise
	Unit       WorkUnit
}

// unit is the live, registry-owned state for one path. All access happens
// under the registry mutex; everything leaving the registry is a snapshot.
type unit struct {
	id        string
	path      string
	rtype     ResourceType
	owner     string
	claimedAt time.Time
	expiresAt time.Time
	queue     []QueueEntry
}

func (u *unit) snapshot() WorkUnit {
	q := make([]QueueEntry, len(u.queue))
	copy(q, u.queue)

	wu := WorkUnit{
		ID:     u.id,
		Path:   u.path,
		Type:   u.rtype,
		Status: StatusAvailable,
		Queue:  q,
	}
	if u.owner != "" {
		wu.Status = StatusClaimed
		wu.OwnerAgentID = u.owner
		claimedAt := u.claimedAt
		expiresAt := u.expiresAt
		wu.ClaimedAt = &claimedAt
		wu.ExpiresAt = &expiresAt
	}
	return wu
}

// queuePosition returns the 1-indexed position of agentID, or 0 if absent.
func (u *unit) queuePosition(agentID string) int {
	for i, e := range u.queue {
		if e.AgentID == agentID {
			return i + 1
		}
	}
	return 0
}

// removeFromQueue strips agentID from the queue, reporting whether an entry
// was removed. Relative order of the remaining entries is preserved.
func (u *unit) removeFromQueue(agentID string) bool {
	for i, e := range u.queue {
		if e.AgentID == agentID {
			u.queue = append(u.queue[:i], u.queue[i+1:]...)
			return true
		}
	}
	return false
}
