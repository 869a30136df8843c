package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the Sia client.
// It registers the unit, agent, state, watch and hook command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "sia",
		Short: "Sia client commands",
	}
	root.AddCommand(NewUnitCommand(baseURL))
	root.AddCommand(NewAgentCommand(baseURL))
	root.AddCommand(NewStateCommand(baseURL))
	root.AddCommand(NewWatchCommand(baseURL))
	root.AddCommand(NewHookCommand(baseURL))
	return root
}
