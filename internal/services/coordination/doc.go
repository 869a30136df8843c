// Package coordination implements the boundary service over the work unit
// and agent registries. Transports (HTTP controllers, CLI shims) call it
// instead of the registries so validation, defaulting, auto-registration,
// and event wiring live in exactly one place.
//
// Example:
//
//	svc := coordination.New(units, agents, notifier, 300*time.Second)
//	res, _ := svc.Claim(ctx, "agent-1", "src/main.go", "file", 0)
//	if !res.Success {
//	    // queued; res.QueuePosition and res.OwnerAgentID describe the wait
//	}
//	_, _ = svc.Release(ctx, "agent-1", "src/main.go")
//
// Watch subscriptions accept a CEL expression, e.g.
//
//	event == "work_unit_transferred" && timeout
//
// to receive only forced handovers.
package coordination
