// Package agent tracks the identity and liveness of coordinating agents.
//
// The registry is a flat map of agent records guarded by one mutex. It owns
// no references into other components: removing an agent here does not
// touch its work units, callers drive that cascade themselves so the two
// registries stay independently testable.
package agent

import (
	"sort"
	"sync"
	"time"

	"github.com/Okohedeki/sia/internal/metrics"
)

// nowFunc is swapped in tests for deterministic time.
var nowFunc = time.Now

// Type classifies an agent as a top-level session or a spawned subagent.
type Type string

// Agent types.
const (
	TypeMain Type = "main"
	TypeSub  Type = "sub"
)

// Valid reports whether t is a known agent type.
func (t Type) Valid() bool { return t == TypeMain || t == TypeSub }

// Info is an outward snapshot of one agent record.
type Info struct {
	AgentID      string    `json:"agent_id"`
	Type         Type      `json:"agent_type"`
	ParentID     string    `json:"parent_id,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	LastSeen     time.Time `json:"last_seen"`
}

// Registry is the in-memory agent table.
type Registry struct {
	mu     sync.Mutex
	agents map[string]*Info
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]*Info)}
}

// Register upserts an agent record, reporting whether it is new. An
// existing record keeps its registered_at, type, and parent; only last_seen
// moves.
func (r *Registry) Register(agentID string, typ Type, parentID string) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := nowFunc()
	if existing, ok := r.agents[agentID]; ok {
		existing.LastSeen = now
		return *existing, false
	}
	info := &Info{
		AgentID:      agentID,
		Type:         typ,
		ParentID:     parentID,
		RegisteredAt: now,
		LastSeen:     now,
	}
	r.agents[agentID] = info
	metrics.SetAgents(len(r.agents))
	return *info, true
}

// Heartbeat refreshes last_seen, creating a minimal main-type record when
// the agent is unknown. Reports whether a record was created.
func (r *Registry) Heartbeat(agentID string) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := nowFunc()
	if existing, ok := r.agents[agentID]; ok {
		existing.LastSeen = now
		return *existing, false
	}
	info := &Info{
		AgentID:      agentID,
		Type:         TypeMain,
		RegisteredAt: now,
		LastSeen:     now,
	}
	r.agents[agentID] = info
	metrics.SetAgents(len(r.agents))
	return *info, true
}

// Deregister removes the record, reporting whether it existed.
func (r *Registry) Deregister(agentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[agentID]; !ok {
		return false
	}
	delete(r.agents, agentID)
	metrics.SetAgents(len(r.agents))
	return true
}

// Get returns a snapshot of one agent.
func (r *Registry) Get(agentID string) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.agents[agentID]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// List returns snapshots of every known agent, sorted by agent id.
func (r *Registry) List() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Info, 0, len(r.agents))
	for _, info := range r.agents {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentID < out[j].AgentID })
	return out
}

// CleanupExpired removes every agent whose last_seen is more than ttl
// before now and returns the removed records, sorted by agent id. Callers
// cascade the departed agents' work units afterwards.
func (r *Registry) CleanupExpired(now time.Time, ttl time.Duration) []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := now.Add(-ttl)
	var out []Info
	for agentID, info := range r.agents {
		if info.LastSeen.Before(cutoff) {
			out = append(out, *info)
			delete(r.agents, agentID)
		}
	}
	if len(out) > 0 {
		metrics.SetAgents(len(r.agents))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentID < out[j].AgentID })
	return out
}

// Len returns the number of known agents.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agents)
}
