package client

import (
	"github.com/spf13/cobra"
)

// NewStateCommand constructs the `state` command.
func NewStateCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Dump the daemon's work units and agents in one snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var res any
			if err := getJSON(baseURL()+"/v1/state", &res); err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}
