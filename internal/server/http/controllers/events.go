package controllers

import (
	"net/http"
	"time"

	coordsvc "github.com/Okohedeki/sia/internal/services/coordination"
	logpkg "github.com/Okohedeki/sia/pkg/log"
)

// heartbeatInterval is how often an idle SSE connection receives a comment
// frame so proxies and load balancers do not reap it.
const heartbeatInterval = 15 * time.Second

// EventsController streams change notifications over Server-Sent Events.
type EventsController struct {
	svc    *coordsvc.Service
	logger logpkg.Logger
}

// NewEventsController creates a new events controller.
func NewEventsController(svc *coordsvc.Service, logger logpkg.Logger) *EventsController {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("http"))
	}
	return &EventsController{svc: svc, logger: logger}
}

// RegisterRoutes registers the event feed route with the given mux.
func (c *EventsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/events/subscribe", c.handleSubscribeSSE)
}

// handleSubscribeSSE streams registry events as `data: <json>` frames.
// Query params: filter (optional CEL expression over event, path, agent,
// timeout, detail, ts_ms, now_ms).
func (c *EventsController) handleSubscribeSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	filter := r.URL.Query().Get("filter")
	// bound filter length to 2KiB to avoid abuse
	if len(filter) > 2048 {
		writeError(w, http.StatusBadRequest, "Filter too long")
		return
	}
	sub, err := c.svc.Watch(r.Context(), filter, 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer c.svc.Unwatch(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	stream := newSSEStream(w)
	if err := stream.comment("subscribed"); err != nil {
		return
	}
	stream.flush()
	c.logger.Debug("SSE subscriber attached", logpkg.Str("filter", filter))

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := stream.event(evt); err != nil {
				return
			}
			stream.flush()
		case <-hb.C:
			if err := stream.comment("heartbeat"); err != nil {
				return
			}
			stream.flush()
		}
	}
}
