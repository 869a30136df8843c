package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientcmd "github.com/Okohedeki/sia/internal/cmd/client"
	serverrun "github.com/Okohedeki/sia/internal/cmd/server"
	cfgpkg "github.com/Okohedeki/sia/internal/config"
	logpkg "github.com/Okohedeki/sia/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// initialize logger for CLI
	// Respect SIA_LOG_LEVEL for both CLI and server start output
	level := os.Getenv("SIA_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "sia",
		Short: "Sia coordination CLI",
		Long:  "Sia coordinates concurrent coding agents through exclusive work-unit claims. This CLI manages the daemon and client operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the sia daemon (HTTP API + sweeper)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			httpAddr, _ := cmd.Flags().GetString("http")
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			defaultTTL, _ := cmd.Flags().GetInt("default-ttl")
			sweepInterval, _ := cmd.Flags().GetInt("sweep-interval")
			agentTTL, _ := cmd.Flags().GetInt("agent-ttl")

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg := cfgpkg.Default()
			if configPath == "" {
				configPath = cfgpkg.DefaultConfigPath()
			}
			if configPath != "" {
				loaded, err := cfgpkg.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config %s: %w", configPath, err)
				}
				cfg = loaded
			}
			cfgpkg.FromEnv(&cfg)

			// Flags override config and env.
			if defaultTTL > 0 {
				cfg.Registry.DefaultTTLSeconds = defaultTTL
			}
			if sweepInterval > 0 {
				cfg.Registry.SweepIntervalSeconds = sweepInterval
			}
			if agentTTL > 0 {
				cfg.Registry.AgentTTLSeconds = agentTTL
			}
			if logLevel != "" {
				_ = os.Setenv("SIA_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("SIA_LOG_FORMAT", logFormat)
			}

			if err := serverrun.Run(ctx, serverrun.Options{
				HTTPAddr: httpAddr,
				Config:   cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default from config: 127.0.0.1:7432)")
	serverStartCmd.Flags().String("config", "", "Config file path (default: SIA_CONFIG or XDG/etc lookup)")
	serverStartCmd.Flags().String("log-level", os.Getenv("SIA_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("SIA_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().Int("default-ttl", 0, "Default claim TTL in seconds (overrides config)")
	serverStartCmd.Flags().Int("sweep-interval", 0, "Expiry sweep interval in seconds (overrides config)")
	serverStartCmd.Flags().Int("agent-ttl", 0, "Stale agent TTL in seconds (overrides config)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// client command groups (migrated into internal/cmd/client)
	rootCmd.AddCommand(clientcmd.NewUnitCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewAgentCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewStateCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewWatchCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewHookCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("SIA_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:7432"
}
