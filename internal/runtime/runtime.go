package runtime

import (
	"context"
	"errors"

	"github.com/Okohedeki/sia/internal/agent"
	cfgpkg "github.com/Okohedeki/sia/internal/config"
	"github.com/Okohedeki/sia/internal/notify"
	"github.com/Okohedeki/sia/internal/registry"
	coordsvc "github.com/Okohedeki/sia/internal/services/coordination"
	"github.com/Okohedeki/sia/internal/sweeper"
	logpkg "github.com/Okohedeki/sia/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
}

// Runtime wires the registries, notifier, sweeper, and boundary service for
// a single daemon process. Nothing is global; each Open yields an
// independent graph, which keeps tests hermetic.
type Runtime struct {
	config   cfgpkg.Config
	logger   logpkg.Logger
	units    *registry.Registry
	agents   *agent.Registry
	notifier *notify.Notifier
	service  *coordsvc.Service
	sweeper  *sweeper.Sweeper
	open     bool
}

// Open builds the component graph and starts the background pieces: the
// notifier dispatch loop and the expiry sweeper.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}

	notifier := notify.New(cfg.Notifier.Buffer, logger.With(logpkg.Component("notify")))
	notifier.Start()

	agents := agent.NewRegistry()
	units := registry.New(notifier, cfg.Registry.DefaultTTL())
	service := coordsvc.NewWithLogger(units, agents, notifier, cfg.Registry.DefaultTTL(),
		logger.With(logpkg.Component("coordination")))

	sw := sweeper.New(units, agents, notifier, sweeper.Config{
		Interval:         cfg.Registry.SweepInterval(),
		AgentTTL:         cfg.Registry.AgentTTL(),
		EvictStaleAgents: cfg.Registry.EvictStaleAgents,
	}, logger.With(logpkg.Component("sweeper")))
	sw.Start()

	return &Runtime{
		config:   cfg,
		logger:   logger,
		units:    units,
		agents:   agents,
		notifier: notifier,
		service:  service,
		sweeper:  sw,
		open:     true,
	}, nil
}

// Close stops background components: the sweeper first so no new events are
// produced, then the notifier. Safe to call more than once.
func (r *Runtime) Close() error {
	if !r.open {
		return nil
	}
	r.open = false
	r.sweeper.Stop()
	r.notifier.Stop()
	return nil
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if !r.open {
		return errors.New("runtime closed")
	}
	return nil
}

// Service returns the boundary coordination service.
func (r *Runtime) Service() *coordsvc.Service { return r.service }

// WorkUnits exposes the work unit registry (internal use only).
func (r *Runtime) WorkUnits() *registry.Registry { return r.units }

// Agents exposes the agent registry (internal use only).
func (r *Runtime) Agents() *agent.Registry { return r.agents }

// Notifier returns the change event notifier.
func (r *Runtime) Notifier() *notify.Notifier { return r.notifier }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the process logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }
