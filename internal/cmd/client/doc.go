// Package client provides the `sia` command-line client.
//
// The CLI talks to the Sia daemon's HTTP endpoints to claim and release
// work units, manage the agent registry, and watch coordination events
// from a terminal. It is primarily intended for developers and
// operators, plus the hook adapter wired into coding agents.
//
// Installation
//
//	go install github.com/Okohedeki/sia/cmd/sia@latest
//
// Or build from this repo and use the `sia` binary.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it is
// read from the SIA_HTTP environment variable and defaults to
// http://127.0.0.1:7432.
//
// Usage
//
//	sia unit claim --agent a1 --path /src/auth.py --ttl 300
//	sia unit release --agent a1 --path /src/auth.py
//	sia unit position --agent a2 --path /src/auth.py
//	sia unit list
//	sia unit available
//	sia unit by-agent --agent a1
//
//	sia agent register --id a1 --type main
//	sia agent register --id a1:task-7 --type sub --parent a1
//	sia agent heartbeat --id a1
//	sia agent deregister --id a1
//	sia agent list
//
//	sia state
//
//	# Stream events, optionally filtered server-side with CEL
//	sia watch
//	sia watch --filter 'event == "work_unit_transferred" && timeout'
//
//	# Wire as a PreToolUse hook; reads the payload on stdin
//	sia hook guard
//	sia hook guard --fail-closed
//
// Notes
//
//   - watch connects to the SSE feed at /v1/events/subscribe and prints
//     one event JSON per line; heartbeat comments are filtered out.
//   - hook guard exits 0 silently to allow a tool, prints a
//     {"decision":"block"} JSON to stdout to block it, and warns on
//     stderr (still allowing) when the daemon is unreachable.
package client
