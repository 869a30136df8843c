package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUnitClaimCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/units/claim" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["agent_id"] != "a1" || req["path"] != "/src/auth.py" {
			t.Errorf("unexpected body: %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Work unit claimed",
		})
	}))
	defer ts.Close()

	cmd := NewUnitCommand(func() string { return ts.URL })
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"claim", "--agent", "a1", "--path", "/src/auth.py"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), `"success": true`) {
		t.Fatalf("expected claim result in output, got: %s", buf.String())
	}
}

func TestUnitClaimRequiresFlags(t *testing.T) {
	cmd := NewUnitCommand(func() string { return "http://127.0.0.1:0" })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"claim", "--agent", "a1"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestUnitListCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/units" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"units": []map[string]any{{"path": "/src/auth.py", "owner_agent_id": "a1"}},
		})
	}))
	defer ts.Close()

	cmd := NewUnitCommand(func() string { return ts.URL })
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"list"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), "/src/auth.py") {
		t.Fatalf("expected unit path in output, got: %s", buf.String())
	}
}

func TestUnitPositionCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("path") != "/src/auth.py" || q.Get("agent") != "a2" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"queue_position": 1, "owner": false})
	}))
	defer ts.Close()

	cmd := NewUnitCommand(func() string { return ts.URL })
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"position", "--agent", "a2", "--path", "/src/auth.py"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), `"queue_position": 1`) {
		t.Fatalf("expected position in output, got: %s", buf.String())
	}
}

func TestDaemonErrorBodySurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "a2 does not hold /src/auth.py: agent does not own work unit"})
	}))
	defer ts.Close()

	cmd := NewUnitCommand(func() string { return ts.URL })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"release", "--agent", "a2", "--path", "/src/auth.py"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "agent does not own work unit") {
		t.Fatalf("expected daemon error message, got: %v", err)
	}
}

func TestAgentRegisterCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/agents/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["agent_id"] != "a1" || req["agent_type"] != "main" {
			t.Errorf("unexpected body: %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"agent_id": "a1", "agent_type": "main"})
	}))
	defer ts.Close()

	cmd := NewAgentCommand(func() string { return ts.URL })
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"register", "--id", "a1"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), `"agent_id": "a1"`) {
		t.Fatalf("expected agent info in output, got: %s", buf.String())
	}
}

func TestStateCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/state" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"work_units": []any{},
			"agents":     []any{},
		})
	}))
	defer ts.Close()

	cmd := NewStateCommand(func() string { return ts.URL })
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), "work_units") {
		t.Fatalf("expected state in output, got: %s", buf.String())
	}
}
