// Package httpserver provides the REST gateway for Sia with SSE event
// subscribe support and JSON endpoints mirroring the coordination surface.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := httpserver.New(rt, nil)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, "127.0.0.1:7432")
package httpserver
