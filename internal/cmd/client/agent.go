package client

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewAgentCommand constructs the `agent` command group and subcommands.
func NewAgentCommand(baseURL BaseURLFunc) *cobra.Command {
	agentCmd := &cobra.Command{Use: "agent", Short: "Agent registry operations"}

	agentCmd.AddCommand(
		newAgentRegisterCommand(baseURL),
		newAgentHeartbeatCommand(baseURL),
		newAgentDeregisterCommand(baseURL),
		newAgentListCommand(baseURL),
		newAgentGetCommand(baseURL),
	)

	return agentCmd
}

// newAgentRegisterCommand constructs the `agent register` subcommand.
func newAgentRegisterCommand(baseURL BaseURLFunc) *cobra.Command {
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register an agent (or refresh its last_seen)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			typ, _ := cmd.Flags().GetString("type")
			parent, _ := cmd.Flags().GetString("parent")
			if id == "" {
				return fmt.Errorf("id is required")
			}

			var res any
			if err := postJSON(baseURL()+"/v1/agents/register", map[string]any{
				"agent_id":   id,
				"agent_type": typ,
				"parent_id":  parent,
			}, &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	registerCmd.Flags().String("id", "", "Agent id")
	registerCmd.Flags().String("type", "main", "Agent type: main|sub")
	registerCmd.Flags().String("parent", "", "Parent agent id (required for sub agents)")
	return registerCmd
}

// newAgentHeartbeatCommand constructs the `agent heartbeat` subcommand.
func newAgentHeartbeatCommand(baseURL BaseURLFunc) *cobra.Command {
	heartbeatCmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Refresh an agent's last_seen timestamp",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return fmt.Errorf("id is required")
			}

			var res any
			if err := postJSON(baseURL()+"/v1/agents/heartbeat", map[string]any{
				"agent_id": id,
			}, &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	heartbeatCmd.Flags().String("id", "", "Agent id")
	return heartbeatCmd
}

// newAgentDeregisterCommand constructs the `agent deregister` subcommand.
func newAgentDeregisterCommand(baseURL BaseURLFunc) *cobra.Command {
	deregisterCmd := &cobra.Command{
		Use:   "deregister",
		Short: "Remove an agent and release everything it holds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return fmt.Errorf("id is required")
			}

			var res any
			if err := postJSON(baseURL()+"/v1/agents/deregister", map[string]any{
				"agent_id": id,
			}, &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	deregisterCmd.Flags().String("id", "", "Agent id")
	return deregisterCmd
}

// newAgentListCommand constructs the `agent list` subcommand.
func newAgentListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered agents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var res any
			if err := getJSON(baseURL()+"/v1/agents", &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// newAgentGetCommand constructs the `agent get` subcommand.
func newAgentGetCommand(baseURL BaseURLFunc) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show one agent by id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return fmt.Errorf("id is required")
			}
			var res any
			if err := getJSON(baseURL()+"/v1/agents/get?id="+url.QueryEscape(id), &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	getCmd.Flags().String("id", "", "Agent id")
	return getCmd
}
