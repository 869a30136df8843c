// Package runtime wires the registries, notifier, sweeper, and the
// coordination service into a single daemon instance. It exposes
// Open/Close, a basic health check, and accessors used by transports.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	// Health
//	_ = rt.CheckHealth(context.Background())
//	// Operate through the boundary service
//	res, _ := rt.Service().Claim(ctx, "agent-1", "src/main.go", "file", 0)
package runtime
