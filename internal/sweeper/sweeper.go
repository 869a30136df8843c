// Package sweeper runs the periodic liveness pass: expired claims are
// force-released and, when enabled, agents that stopped heartbeating are
// evicted with the same cascade an explicit deregistration performs.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/Okohedeki/sia/internal/agent"
	"github.com/Okohedeki/sia/internal/notify"
	"github.com/Okohedeki/sia/internal/registry"
	"github.com/Okohedeki/sia/pkg/log"
)

// Config tunes the sweep loop.
type Config struct {
	Interval         time.Duration // how often to sweep (default: 30s)
	AgentTTL         time.Duration // heartbeat horizon before eviction (default: 600s)
	EvictStaleAgents bool          // remove agents past AgentTTL and cascade their units
}

// Sweeper periodically scans both registries. A sweep never blocks claim
// traffic for its full duration: the registries hand out work in per-path
// critical sections.
type Sweeper struct {
	units    *registry.Registry
	agents   *agent.Registry
	notifier *notify.Notifier
	logger   log.Logger

	interval    time.Duration
	agentTTL    time.Duration
	evictAgents bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a sweeper over the given registries. notifier may be nil.
func New(units *registry.Registry, agents *agent.Registry, notifier *notify.Notifier, cfg Config, logger log.Logger) *Sweeper {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.AgentTTL == 0 {
		cfg.AgentTTL = 600 * time.Second
	}
	if logger == nil {
		// Create a minimal logger if none provided
		logger = log.NewLogger(log.WithLevel(log.InfoLevel))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Sweeper{
		units:       units,
		agents:      agents,
		notifier:    notifier,
		logger:      logger,
		interval:    cfg.Interval,
		agentTTL:    cfg.AgentTTL,
		evictAgents: cfg.EvictStaleAgents,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins the sweep loop.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop gracefully stops the sweeper.
func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

// run is the main sweep loop.
func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Sweeper started",
		log.Field{Key: "interval", Value: s.interval.String()},
		log.Field{Key: "agent_ttl", Value: s.agentTTL.String()},
		log.Field{Key: "evict_stale_agents", Value: s.evictAgents},
	)

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// Sweep runs one pass at the given instant: expired claims first, then
// stale agents. Exported so tests drive passes without the ticker.
func (s *Sweeper) Sweep(now time.Time) {
	for _, tr := range s.units.ExpireDue(now) {
		if tr.PromotedTo != "" {
			s.logger.Info("Sweeper: claim expired, promoted queue head",
				log.Field{Key: "path", Value: tr.Path},
				log.Field{Key: "old_owner", Value: tr.OldOwner},
				log.Field{Key: "new_owner", Value: tr.PromotedTo},
				log.Field{Key: "waited", Value: tr.Waited.String()},
			)
		} else {
			s.logger.Info("Sweeper: claim expired, work unit available",
				log.Field{Key: "path", Value: tr.Path},
				log.Field{Key: "old_owner", Value: tr.OldOwner},
			)
		}
	}

	if !s.evictAgents {
		return
	}

	for _, info := range s.agents.CleanupExpired(now, s.agentTTL) {
		released := s.units.DeregisterCascade(info.AgentID)
		if s.notifier != nil {
			s.notifier.Publish(notify.Event{
				Type:      notify.EventAgentRemoved,
				AgentID:   info.AgentID,
				Timestamp: now,
				Detail:    map[string]string{"stale": "true"},
			})
		}
		s.logger.Info("Sweeper: evicted stale agent",
			log.Field{Key: "agent_id", Value: info.AgentID},
			log.Field{Key: "last_seen", Value: info.LastSeen.Format(time.RFC3339)},
			log.Field{Key: "released_units", Value: len(released)},
		)
	}
}
