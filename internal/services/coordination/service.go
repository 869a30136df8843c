package coordination

import (
	"context"
	"fmt"
	"time"

	"github.com/Okohedeki/sia/internal/agent"
	"github.com/Okohedeki/sia/internal/notify"
	"github.com/Okohedeki/sia/internal/registry"
	logpkg "github.com/Okohedeki/sia/pkg/log"
)

// Service is the boundary in front of the registries consumed by the HTTP
// transport and by in-process callers. It validates and defaults adapter
// input, keeps caller liveness fresh as a side effect of traffic, and owns
// the watch surface.
//
// Every operation resolves synchronously; contention is reported in the
// ClaimResult, never by blocking.
type Service struct {
	units      *registry.Registry
	agents     *agent.Registry
	notifier   *notify.Notifier
	logger     logpkg.Logger
	defaultTTL time.Duration
}

// New returns a Service using a default logger.
func New(units *registry.Registry, agents *agent.Registry, notifier *notify.Notifier, defaultTTL time.Duration) *Service {
	return NewWithLogger(units, agents, notifier, defaultTTL, nil)
}

// NewWithLogger returns a Service using the provided logger.
func NewWithLogger(units *registry.Registry, agents *agent.Registry, notifier *notify.Notifier, defaultTTL time.Duration, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("coordination"))
	}
	if defaultTTL <= 0 {
		defaultTTL = 300 * time.Second
	}
	return &Service{
		units:      units,
		agents:     agents,
		notifier:   notifier,
		logger:     logger,
		defaultTTL: defaultTTL,
	}
}

// Claim requests exclusive ownership of path for agentID. ttlSeconds zero
// selects the configured default and negative is rejected; an empty rtype
// defaults to file. Unknown callers are registered on the way through, so a
// claim is always enough to participate.
func (s *Service) Claim(ctx context.Context, agentID, path, rtype string, ttlSeconds int64) (registry.ClaimResult, error) {
	if agentID == "" {
		return registry.ClaimResult{}, fmt.Errorf("agent_id required: %w", registry.ErrInvalidArgument)
	}
	if path == "" {
		return registry.ClaimResult{}, fmt.Errorf("path required: %w", registry.ErrInvalidArgument)
	}
	if ttlSeconds < 0 {
		return registry.ClaimResult{}, fmt.Errorf("ttl_seconds must not be negative: %w", registry.ErrInvalidArgument)
	}
	ttl := s.defaultTTL
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	rt := registry.ResourceFile
	if rtype != "" {
		rt = registry.ResourceType(rtype)
	}

	s.touch(agentID)
	res, err := s.units.Claim(agentID, path, rt, ttl)
	if err != nil {
		return registry.ClaimResult{}, err
	}
	s.logger.Debug("claim",
		logpkg.Str("agent_id", agentID),
		logpkg.Str("path", path),
		logpkg.Str("outcome", res.Outcome.String()),
		logpkg.Int("queue_position", res.QueuePosition),
	)
	return res, nil
}

// Release gives up agentID's claim on path, promoting the queue head if one
// waits.
func (s *Service) Release(ctx context.Context, agentID, path string) (registry.ClaimResult, error) {
	if agentID == "" {
		return registry.ClaimResult{}, fmt.Errorf("agent_id required: %w", registry.ErrInvalidArgument)
	}
	if path == "" {
		return registry.ClaimResult{}, fmt.Errorf("path required: %w", registry.ErrInvalidArgument)
	}

	s.touch(agentID)
	res, err := s.units.Release(agentID, path)
	if err != nil {
		return registry.ClaimResult{}, err
	}
	s.logger.Debug("release",
		logpkg.Str("agent_id", agentID),
		logpkg.Str("path", path),
		logpkg.Str("new_owner", res.WorkUnit.OwnerAgentID),
	)
	return res, nil
}

// Dequeue withdraws agentID's pending entry from path's wait queue.
// Reports whether an entry was removed.
func (s *Service) Dequeue(ctx context.Context, agentID, path string) (bool, error) {
	if agentID == "" {
		return false, fmt.Errorf("agent_id required: %w", registry.ErrInvalidArgument)
	}
	if path == "" {
		return false, fmt.Errorf("path required: %w", registry.ErrInvalidArgument)
	}

	s.touch(agentID)
	return s.units.Dequeue(agentID, path)
}

// RegisterAgent upserts an agent record. agentType defaults to main; sub
// agents must name a parent. Only a first-time registration emits the
// agent_registered event.
func (s *Service) RegisterAgent(ctx context.Context, agentID, agentType, parentID string) (agent.Info, error) {
	if agentID == "" {
		return agent.Info{}, fmt.Errorf("agent_id required: %w", registry.ErrInvalidArgument)
	}
	typ := agent.TypeMain
	if agentType != "" {
		typ = agent.Type(agentType)
	}
	if !typ.Valid() {
		return agent.Info{}, fmt.Errorf("agent_type %q: %w", agentType, registry.ErrInvalidArgument)
	}
	if typ == agent.TypeSub && parentID == "" {
		return agent.Info{}, fmt.Errorf("parent_id required for sub agents: %w", registry.ErrInvalidArgument)
	}

	info, created := s.agents.Register(agentID, typ, parentID)
	if created {
		if s.notifier != nil {
			detail := map[string]string{"agent_type": string(info.Type)}
			if info.ParentID != "" {
				detail["parent_id"] = info.ParentID
			}
			s.notifier.Publish(notify.Event{
				Type:      notify.EventAgentRegistered,
				AgentID:   agentID,
				Timestamp: info.RegisteredAt,
				Detail:    detail,
			})
		}
		s.logger.Info("agent registered",
			logpkg.Str("agent_id", agentID),
			logpkg.Str("agent_type", string(info.Type)),
			logpkg.Str("parent_id", info.ParentID),
		)
	}
	return info, nil
}

// Heartbeat refreshes agentID's liveness, registering it when unknown.
func (s *Service) Heartbeat(ctx context.Context, agentID string) (agent.Info, error) {
	if agentID == "" {
		return agent.Info{}, fmt.Errorf("agent_id required: %w", registry.ErrInvalidArgument)
	}
	info, created := s.agents.Heartbeat(agentID)
	if created {
		s.logger.Debug("heartbeat auto-registered agent", logpkg.Str("agent_id", agentID))
	}
	return info, nil
}

// DeregisterAgent removes agentID and cascades: every owned work unit is
// released (promoting waiters) and every queue membership is dropped.
// Returns the released paths. Unknown agents are a no-op success, so caller
// retries and shutdown hooks stay safe.
func (s *Service) DeregisterAgent(ctx context.Context, agentID string) ([]string, error) {
	if agentID == "" {
		return nil, fmt.Errorf("agent_id required: %w", registry.ErrInvalidArgument)
	}

	existed := s.agents.Deregister(agentID)
	released := s.units.DeregisterCascade(agentID)
	if existed && s.notifier != nil {
		s.notifier.Publish(notify.Event{
			Type:      notify.EventAgentRemoved,
			AgentID:   agentID,
			Timestamp: time.Now().UTC(),
		})
	}
	if existed || len(released) > 0 {
		s.logger.Info("agent deregistered",
			logpkg.Str("agent_id", agentID),
			logpkg.Int("released_units", len(released)),
		)
	}
	return released, nil
}

// touch keeps the caller's liveness record fresh on every mutating call.
func (s *Service) touch(agentID string) {
	if agentID == "" {
		return
	}
	if _, created := s.agents.Heartbeat(agentID); created {
		s.logger.Debug("auto-registered agent", logpkg.Str("agent_id", agentID))
	}
}

// GetWorkUnit returns a snapshot of the unit at path.
func (s *Service) GetWorkUnit(ctx context.Context, path string) (registry.WorkUnit, bool) {
	return s.units.Get(path)
}

// ListWorkUnits returns every known work unit, sorted by path.
func (s *Service) ListWorkUnits(ctx context.Context) []registry.WorkUnit {
	return s.units.List()
}

// ListAvailable returns the units nobody holds, sorted by path.
func (s *Service) ListAvailable(ctx context.Context) []registry.WorkUnit {
	return s.units.ListAvailable()
}

// ListByAgent returns the units agentID owns, sorted by path.
func (s *Service) ListByAgent(ctx context.Context, agentID string) []registry.WorkUnit {
	return s.units.ListByAgent(agentID)
}

// QueuePosition reports agentID's wait position at path (1-indexed, 0 when
// not waiting) and whether it currently owns the unit.
func (s *Service) QueuePosition(ctx context.Context, path, agentID string) (int, bool) {
	return s.units.QueuePosition(path, agentID)
}

// GetAgent returns a snapshot of one agent record.
func (s *Service) GetAgent(ctx context.Context, agentID string) (agent.Info, bool) {
	return s.agents.Get(agentID)
}

// ListAgents returns every known agent, sorted by agent id.
func (s *Service) ListAgents(ctx context.Context) []agent.Info {
	return s.agents.List()
}

// State is the combined snapshot served to dashboards and debuggers.
type State struct {
	WorkUnits []registry.WorkUnit `json:"work_units"`
	Agents    []agent.Info        `json:"agents"`
}

// State returns a point-in-time view of both registries. The two halves are
// captured back to back, not atomically.
func (s *Service) State(ctx context.Context) State {
	return State{
		WorkUnits: s.units.List(),
		Agents:    s.agents.List(),
	}
}

// Health summarizes daemon liveness.
type Health struct {
	Status    string `json:"status"`
	WorkUnits int    `json:"work_units"`
	Agents    int    `json:"agents"`
}

// Health reports registry sizes for the health endpoint.
func (s *Service) Health(ctx context.Context) Health {
	return Health{
		Status:    "ok",
		WorkUnits: s.units.Len(),
		Agents:    s.agents.Len(),
	}
}

// Watch attaches an event subscriber. filter is an optional CEL expression
// over the event fields (event, path, agent, timeout, detail, ts_ms,
// now_ms); empty passes everything. buffer sizes the subscriber channel,
// zero selects the default. Callers must Unwatch when done.
func (s *Service) Watch(ctx context.Context, filter string, buffer int) (*notify.Subscription, error) {
	f, err := newEventFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %v: %w", filter, err, registry.ErrInvalidArgument)
	}
	var fn notify.FilterFunc
	if f.enabled {
		fn = f.Eval
	}
	return s.notifier.Subscribe(buffer, fn), nil
}

// Unwatch detaches a subscription created by Watch.
func (s *Service) Unwatch(sub *notify.Subscription) {
	s.notifier.Unsubscribe(sub)
}
