package client

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// NewWatchCommand constructs the `watch` command. It subscribes to the
// daemon's SSE event feed and prints one event JSON per line until the
// connection drops or the context is cancelled.
func NewWatchCommand(baseURL BaseURLFunc) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream coordination events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")

			target := baseURL() + "/v1/events/subscribe"
			if filter != "" {
				target += "?filter=" + url.QueryEscape(filter)
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, target, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode >= 300 {
				return decodeResponse(resp, nil)
			}

			out := cmd.OutOrStdout()
			sc := bufio.NewScanner(resp.Body)
			for sc.Scan() {
				line := sc.Text()
				// Skip heartbeat comments and frame separators.
				if !strings.HasPrefix(line, "data: ") {
					continue
				}
				_, _ = fmt.Fprintln(out, strings.TrimPrefix(line, "data: "))
			}
			return sc.Err()
		},
	}
	watchCmd.Flags().String("filter", "", "CEL filter (server-side), e.g. 'event == \"work_unit_claimed\"'")
	return watchCmd
}
