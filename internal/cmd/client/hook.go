package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// guardTimeout bounds the daemon round-trip so a wedged daemon cannot
// stall the guarded tool.
const guardTimeout = 5 * time.Second

// hookInput is the PreToolUse payload the coding agent pipes to the
// guard on stdin.
type hookInput struct {
	SessionID string         `json:"session_id"`
	ToolName  string         `json:"tool_name"`
	ToolInput map[string]any `json:"tool_input"`
}

// guardDecision is printed on stdout when a tool use must be blocked.
// Silence plus exit 0 means allow.
type guardDecision struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// guardClaimResult is the subset of the claim response the guard acts on.
type guardClaimResult struct {
	Success       bool   `json:"success"`
	QueuePosition int    `json:"queue_position"`
	OwnerAgentID  string `json:"owner_agent_id"`
}

// writeTools modify files and need coordination on tool_input.file_path.
var writeTools = map[string]bool{
	"Edit":  true,
	"Write": true,
}

// bashLockClasses pairs a process lock path with the command keywords
// that demand it. First match wins.
var bashLockClasses = []struct {
	path     string
	keywords []string
}{
	{"proc:test", []string{"pytest", "npm test", "cargo test", "go test", "jest", "mocha"}},
	{"proc:build", []string{"npm run build", "cargo build", "go build", "make", "webpack", "vite build"}},
	{"proc:migrate", []string{"migrate"}},
	{"proc:deploy", []string{"deploy"}},
	{"proc:install", []string{"npm install", "pip install", "cargo install"}},
}

// NewHookCommand constructs the `hook` command group.
func NewHookCommand(baseURL BaseURLFunc) *cobra.Command {
	hookCmd := &cobra.Command{Use: "hook", Short: "Coding-agent hook adapters"}
	hookCmd.AddCommand(newHookGuardCommand(baseURL))
	return hookCmd
}

// newHookGuardCommand constructs the `hook guard` subcommand.
func newHookGuardCommand(baseURL BaseURLFunc) *cobra.Command {
	guardCmd := &cobra.Command{
		Use:   "guard",
		Short: "PreToolUse guard: claim the tool's target before it runs",
		Long: `Reads a PreToolUse JSON payload on stdin and claims the resource the
tool is about to touch, using the payload's session_id as the agent id.

Edit and Write claim tool_input.file_path as a file unit; Bash commands
that look like tests, builds, migrations, deploys or installs claim a
shared process lock (proc:test, proc:build, ...). Anything else runs
uncoordinated.

A granted claim allows the tool silently. A queued claim prints a
{"decision":"block"} JSON on stdout. If the daemon is unreachable the
guard warns on stderr and allows the tool, unless --fail-closed is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			failClosed, _ := cmd.Flags().GetBool("fail-closed")
			ttl, _ := cmd.Flags().GetInt64("ttl")
			return runGuard(cmd, baseURL(), failClosed, ttl)
		},
	}
	guardCmd.Flags().Bool("fail-closed", false, "Block guarded tools when the daemon is unreachable")
	guardCmd.Flags().Int64("ttl", 0, "Claim TTL in seconds (0 = server default)")
	return guardCmd
}

func runGuard(cmd *cobra.Command, base string, failClosed bool, ttlSeconds int64) error {
	var input hookInput
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&input); err != nil {
		return fmt.Errorf("failed to parse hook input: %w", err)
	}

	path, rtype, needsClaim := classifyTool(input.ToolName, input.ToolInput)
	if !needsClaim {
		return nil
	}

	agentID := input.SessionID
	if agentID == "" {
		agentID = "unknown"
	}

	res, err := guardClaim(base, agentID, path, rtype, ttlSeconds)
	if err != nil {
		if failClosed {
			return printDecision(cmd, guardDecision{
				Decision: "block",
				Reason:   fmt.Sprintf("Could not reach Sia daemon to coordinate '%s'; failing closed.", path),
			})
		}
		// Daemon down must not block work. Warn and let the tool run.
		warnf(cmd, "Warning: Could not reach Sia daemon: %v", err)
		warnf(cmd, "Allowing tool to proceed without coordination.")
		return nil
	}

	if res.Success {
		return nil
	}

	owner := res.OwnerAgentID
	if owner == "" {
		owner = "another agent"
	}
	position := "?"
	if res.QueuePosition > 0 {
		position = strconv.Itoa(res.QueuePosition)
	}
	return printDecision(cmd, guardDecision{
		Decision: "block",
		Reason: fmt.Sprintf("Resource '%s' is currently owned by %s. "+
			"You are in queue at position %s. Please wait or work on something else.",
			path, owner, position),
	})
}

// classifyTool maps a tool call onto the work unit it must hold, if any.
func classifyTool(toolName string, toolInput map[string]any) (path, rtype string, ok bool) {
	if writeTools[toolName] {
		p, _ := toolInput["file_path"].(string)
		if p == "" {
			return "", "", false
		}
		return p, "file", true
	}
	if toolName == "Bash" {
		command, _ := toolInput["command"].(string)
		if proc := classifyBashCommand(command); proc != "" {
			return proc, "process", true
		}
	}
	return "", "", false
}

// classifyBashCommand returns a process lock path like "proc:test", or ""
// when the command can run uncoordinated.
func classifyBashCommand(command string) string {
	lower := strings.ToLower(command)
	for _, class := range bashLockClasses {
		for _, kw := range class.keywords {
			if strings.Contains(lower, kw) {
				return class.path
			}
		}
	}
	return ""
}

// guardClaim posts the claim with a short timeout. Any transport failure
// or non-2xx status is reported as an error so the caller can decide the
// availability tradeoff.
func guardClaim(base, agentID, path, rtype string, ttlSeconds int64) (guardClaimResult, error) {
	body, err := json.Marshal(map[string]any{
		"agent_id":    agentID,
		"path":        path,
		"type":        rtype,
		"ttl_seconds": ttlSeconds,
	})
	if err != nil {
		return guardClaimResult{}, err
	}
	client := &http.Client{Timeout: guardTimeout}
	resp, err := client.Post(base+"/v1/units/claim", "application/json", bytes.NewReader(body))
	if err != nil {
		return guardClaimResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return guardClaimResult{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	var res guardClaimResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return guardClaimResult{}, err
	}
	return res, nil
}

// printDecision emits the hook protocol JSON on stdout.
func printDecision(cmd *cobra.Command, d guardDecision) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(d)
}

// warnf writes an advisory line to stderr so it never pollutes the
// hook's stdout protocol.
func warnf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[sia] "+format+"\n", args...)
}
