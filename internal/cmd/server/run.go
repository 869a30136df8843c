package serverrun

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cfgpkg "github.com/Okohedeki/sia/internal/config"
	"github.com/Okohedeki/sia/internal/runtime"
	httpserver "github.com/Okohedeki/sia/internal/server/http"
	logpkg "github.com/Okohedeki/sia/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := func() string { return getenv(key) }(); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	HTTPAddr string
	Config   cfgpkg.Config
}

// Run starts the coordination daemon and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context
	// or if signal delivery needs to be observed here. We layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.HTTPAddr == "" {
		opts.HTTPAddr = opts.Config.HTTPAddr
	}

	// Build process-wide logger using env/ApplyConfig; env overrides the
	// loaded config, defaults: level=info, format=text
	level := getenvDefault("SIA_LOG_LEVEL", opts.Config.Log.Level)
	if level == "" {
		level = "info"
	}
	format := getenvDefault("SIA_LOG_FORMAT", opts.Config.Log.Format)
	if format == "" {
		format = "text"
	}
	cfg := &logpkg.Config{Level: level, Format: format}
	procLogger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		// Fallback to a sane default
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(cfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs to our logger
	logpkg.RedirectStdLog(procLogger)

	procLogger.Info("Starting Sia server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("level", cfg.Level),
		logpkg.Str("format", cfg.Format),
		logpkg.Duration("default_ttl", opts.Config.Registry.DefaultTTL()),
		logpkg.Duration("sweep_interval", opts.Config.Registry.SweepInterval()),
		logpkg.Duration("agent_ttl", opts.Config.Registry.AgentTTL()),
	)

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: procLogger})
	if err != nil {
		return err
	}
	defer rt.Close()

	hsrv := httpserver.New(rt, procLogger.With(logpkg.Component("http")))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			log.Printf("http error: %v", err)
		}
	}()

	<-sctx.Done()
	// Stop accepting connections before tearing down the runtime.
	hsrv.Close()
	wg.Wait()
	return nil
}
