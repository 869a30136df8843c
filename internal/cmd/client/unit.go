package client

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewUnitCommand constructs the `unit` command group and subcommands.
func NewUnitCommand(baseURL BaseURLFunc) *cobra.Command {
	unitCmd := &cobra.Command{Use: "unit", Short: "Work unit operations"}

	unitCmd.AddCommand(
		newUnitClaimCommand(baseURL),
		newUnitReleaseCommand(baseURL),
		newUnitDequeueCommand(baseURL),
		newUnitListCommand(baseURL),
		newUnitGetCommand(baseURL),
		newUnitAvailableCommand(baseURL),
		newUnitByAgentCommand(baseURL),
		newUnitPositionCommand(baseURL),
	)

	return unitCmd
}

// newUnitClaimCommand constructs the `unit claim` subcommand.
func newUnitClaimCommand(baseURL BaseURLFunc) *cobra.Command {
	claimCmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim exclusive ownership of a work unit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agent, _ := cmd.Flags().GetString("agent")
			path, _ := cmd.Flags().GetString("path")
			rtype, _ := cmd.Flags().GetString("type")
			ttl, _ := cmd.Flags().GetInt64("ttl")
			if agent == "" || path == "" {
				return fmt.Errorf("agent and path are required")
			}

			var res any
			if err := postJSON(baseURL()+"/v1/units/claim", map[string]any{
				"agent_id":    agent,
				"path":        path,
				"type":        rtype,
				"ttl_seconds": ttl,
			}, &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	claimCmd.Flags().StringP("agent", "a", "", "Agent id")
	claimCmd.Flags().StringP("path", "p", "", "Work unit path")
	claimCmd.Flags().String("type", "file", "Resource type: file|directory|process")
	claimCmd.Flags().Int64("ttl", 0, "Claim TTL in seconds (0 = server default)")
	return claimCmd
}

// newUnitReleaseCommand constructs the `unit release` subcommand.
func newUnitReleaseCommand(baseURL BaseURLFunc) *cobra.Command {
	releaseCmd := &cobra.Command{
		Use:   "release",
		Short: "Release an owned work unit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agent, _ := cmd.Flags().GetString("agent")
			path, _ := cmd.Flags().GetString("path")
			if agent == "" || path == "" {
				return fmt.Errorf("agent and path are required")
			}

			var res any
			if err := postJSON(baseURL()+"/v1/units/release", map[string]any{
				"agent_id": agent,
				"path":     path,
			}, &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	releaseCmd.Flags().StringP("agent", "a", "", "Agent id")
	releaseCmd.Flags().StringP("path", "p", "", "Work unit path")
	return releaseCmd
}

// newUnitDequeueCommand constructs the `unit dequeue` subcommand.
func newUnitDequeueCommand(baseURL BaseURLFunc) *cobra.Command {
	dequeueCmd := &cobra.Command{
		Use:   "dequeue",
		Short: "Leave a work unit's wait queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agent, _ := cmd.Flags().GetString("agent")
			path, _ := cmd.Flags().GetString("path")
			if agent == "" || path == "" {
				return fmt.Errorf("agent and path are required")
			}

			var res any
			if err := postJSON(baseURL()+"/v1/units/dequeue", map[string]any{
				"agent_id": agent,
				"path":     path,
			}, &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	dequeueCmd.Flags().StringP("agent", "a", "", "Agent id")
	dequeueCmd.Flags().StringP("path", "p", "", "Work unit path")
	return dequeueCmd
}

// newUnitListCommand constructs the `unit list` subcommand.
func newUnitListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all known work units",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var res any
			if err := getJSON(baseURL()+"/v1/units", &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// newUnitGetCommand constructs the `unit get` subcommand.
func newUnitGetCommand(baseURL BaseURLFunc) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show one work unit by path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("path")
			if path == "" {
				return fmt.Errorf("path is required")
			}
			var res any
			if err := getJSON(baseURL()+"/v1/units/get?path="+url.QueryEscape(path), &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	getCmd.Flags().StringP("path", "p", "", "Work unit path")
	return getCmd
}

// newUnitAvailableCommand constructs the `unit available` subcommand.
func newUnitAvailableCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "List work units nobody holds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var res any
			if err := getJSON(baseURL()+"/v1/units/available", &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// newUnitByAgentCommand constructs the `unit by-agent` subcommand.
func newUnitByAgentCommand(baseURL BaseURLFunc) *cobra.Command {
	byAgentCmd := &cobra.Command{
		Use:   "by-agent",
		Short: "List work units owned by an agent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agent, _ := cmd.Flags().GetString("agent")
			if agent == "" {
				return fmt.Errorf("agent is required")
			}
			var res any
			if err := getJSON(baseURL()+"/v1/units/by-agent?agent="+url.QueryEscape(agent), &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	byAgentCmd.Flags().StringP("agent", "a", "", "Agent id")
	return byAgentCmd
}

// newUnitPositionCommand constructs the `unit position` subcommand.
func newUnitPositionCommand(baseURL BaseURLFunc) *cobra.Command {
	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Show an agent's queue position at a path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agent, _ := cmd.Flags().GetString("agent")
			path, _ := cmd.Flags().GetString("path")
			if agent == "" || path == "" {
				return fmt.Errorf("agent and path are required")
			}
			var res any
			if err := getJSON(baseURL()+"/v1/units/position?path="+url.QueryEscape(path)+
				"&agent="+url.QueryEscape(agent), &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	positionCmd.Flags().StringP("agent", "a", "", "Agent id")
	positionCmd.Flags().StringP("path", "p", "", "Work unit path")
	return positionCmd
}
