package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClassifyBashCommand(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"pytest -x tests/", "proc:test"},
		{"go test ./...", "proc:test"},
		{"NPM TEST", "proc:test"},
		{"npm run build", "proc:build"},
		{"make clean all", "proc:build"},
		{"alembic migrate head", "proc:migrate"},
		{"./scripts/deploy staging", "proc:deploy"},
		{"pip install -r requirements.txt", "proc:install"},
		// test keywords win over install when both appear
		{"npm install && npm test", "proc:test"},
		{"ls -la", ""},
		{"git status", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := classifyBashCommand(tt.command); got != tt.want {
			t.Errorf("classifyBashCommand(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestClassifyTool(t *testing.T) {
	tests := []struct {
		name      string
		toolName  string
		toolInput map[string]any
		wantPath  string
		wantType  string
		wantOK    bool
	}{
		{
			name:      "edit claims file path",
			toolName:  "Edit",
			toolInput: map[string]any{"file_path": "/src/auth.py"},
			wantPath:  "/src/auth.py",
			wantType:  "file",
			wantOK:    true,
		},
		{
			name:      "write claims file path",
			toolName:  "Write",
			toolInput: map[string]any{"file_path": "/src/db.py"},
			wantPath:  "/src/db.py",
			wantType:  "file",
			wantOK:    true,
		},
		{
			name:      "edit without file path passes",
			toolName:  "Edit",
			toolInput: map[string]any{},
			wantOK:    false,
		},
		{
			name:      "bash test command claims process lock",
			toolName:  "Bash",
			toolInput: map[string]any{"command": "pytest tests/"},
			wantPath:  "proc:test",
			wantType:  "process",
			wantOK:    true,
		},
		{
			name:      "bash ordinary command passes",
			toolName:  "Bash",
			toolInput: map[string]any{"command": "cat README.md"},
			wantOK:    false,
		},
		{
			name:      "read tool passes",
			toolName:  "Read",
			toolInput: map[string]any{"file_path": "/src/auth.py"},
			wantOK:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, rtype, ok := classifyTool(tt.toolName, tt.toolInput)
			if ok != tt.wantOK || path != tt.wantPath || (ok && rtype != tt.wantType) {
				t.Fatalf("classifyTool(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.toolName, path, rtype, ok, tt.wantPath, tt.wantType, tt.wantOK)
			}
		})
	}
}

func execGuard(t *testing.T, base string, stdin string, extraArgs ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewHookCommand(func() string { return base })
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"guard"}, extraArgs...))
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestGuardAllowsGrantedClaim(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/units/claim" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["agent_id"] != "sess-1" || req["path"] != "/src/auth.py" || req["type"] != "file" {
			t.Errorf("unexpected claim body: %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer ts.Close()

	stdout, _, err := execGuard(t, ts.URL,
		`{"session_id":"sess-1","tool_name":"Edit","tool_input":{"file_path":"/src/auth.py"}}`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected silent allow, got %q", stdout)
	}
}

func TestGuardBlocksQueuedClaim(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":        false,
			"queue_position": 2,
			"owner_agent_id": "sess-9",
		})
	}))
	defer ts.Close()

	stdout, _, err := execGuard(t, ts.URL,
		`{"session_id":"sess-1","tool_name":"Write","tool_input":{"file_path":"/src/auth.py"}}`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var decision guardDecision
	if err := json.Unmarshal([]byte(stdout), &decision); err != nil {
		t.Fatalf("decode decision %q: %v", stdout, err)
	}
	if decision.Decision != "block" {
		t.Fatalf("decision: %q", decision.Decision)
	}
	want := "Resource '/src/auth.py' is currently owned by sess-9. " +
		"You are in queue at position 2. Please wait or work on something else."
	if decision.Reason != want {
		t.Fatalf("reason: %q", decision.Reason)
	}
}

func TestGuardFailsOpenWhenDaemonUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening anymore

	stdout, stderr, err := execGuard(t, ts.URL,
		`{"session_id":"sess-1","tool_name":"Edit","tool_input":{"file_path":"/src/auth.py"}}`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected silent allow, got %q", stdout)
	}
	if !strings.Contains(stderr, "[sia] Warning: Could not reach Sia daemon") {
		t.Fatalf("missing warning, stderr: %q", stderr)
	}
	if !strings.Contains(stderr, "Allowing tool to proceed without coordination.") {
		t.Fatalf("missing allow notice, stderr: %q", stderr)
	}
}

func TestGuardFailClosedBlocks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	stdout, _, err := execGuard(t, ts.URL,
		`{"session_id":"sess-1","tool_name":"Edit","tool_input":{"file_path":"/src/auth.py"}}`,
		"--fail-closed")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var decision guardDecision
	if err := json.Unmarshal([]byte(stdout), &decision); err != nil {
		t.Fatalf("decode decision %q: %v", stdout, err)
	}
	if decision.Decision != "block" {
		t.Fatalf("decision: %q", decision.Decision)
	}
}

func TestGuardIgnoresUnrelatedTools(t *testing.T) {
	hit := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer ts.Close()

	stdout, stderr, err := execGuard(t, ts.URL,
		`{"session_id":"sess-1","tool_name":"Read","tool_input":{"file_path":"/src/auth.py"}}`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if hit {
		t.Fatalf("daemon should not be contacted for uncoordinated tools")
	}
	if stdout != "" || stderr != "" {
		t.Fatalf("expected silence, got stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestGuardRejectsMalformedInput(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	_, _, err := execGuard(t, ts.URL, `{not json`)
	if err == nil {
		t.Fatalf("expected parse error")
	}
}
