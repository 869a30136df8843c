package client

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWatchPrintsEventsAndSkipsComments(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": subscribed\n\n")
		fmt.Fprint(w, `data: {"event_type":"work_unit_claimed","path":"/src/auth.py","agent_id":"a1"}`+"\n\n")
		fmt.Fprint(w, ": heartbeat\n\n")
		fmt.Fprint(w, `data: {"event_type":"work_unit_released","path":"/src/auth.py","agent_id":"a1"}`+"\n\n")
	}))
	defer ts.Close()

	cmd := NewWatchCommand(func() string { return ts.URL })
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 event lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "work_unit_claimed") || !strings.Contains(lines[1], "work_unit_released") {
		t.Fatalf("unexpected events: %q", lines)
	}
}

func TestWatchPassesFilterToServer(t *testing.T) {
	const filter = `event == "work_unit_claimed"`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("filter"); got != filter {
			t.Errorf("filter = %q, want %q", got, filter)
		}
		w.Header().Set("Content-Type", "text/event-stream")
	}))
	defer ts.Close()

	cmd := NewWatchCommand(func() string { return ts.URL })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--filter", filter})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestWatchSurfacesBadFilterError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"filter \"event ==\": invalid argument"}`)
	}))
	defer ts.Close()

	cmd := NewWatchCommand(func() string { return ts.URL })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--filter", "event =="})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid argument") {
		t.Fatalf("expected filter error, got: %v", err)
	}
}
