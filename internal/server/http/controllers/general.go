package controllers

import (
	"net/http"

	"github.com/Okohedeki/sia/internal/runtime"
	coordsvc "github.com/Okohedeki/sia/internal/services/coordination"
)

// GeneralController handles general HTTP endpoints like health and state.
type GeneralController struct {
	rt  *runtime.Runtime
	svc *coordsvc.Service
}

// NewGeneralController creates a new general controller.
//
// The controller requires both a runtime instance for health checks and
// the coordination service for state snapshots.
func NewGeneralController(rt *runtime.Runtime, svc *coordsvc.Service) *GeneralController {
	return &GeneralController{
		rt:  rt,
		svc: svc,
	}
}

// RegisterRoutes registers general routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Health checks (/v1/healthz)
// - Combined state snapshots (/v1/state)
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.HandleFunc("/v1/state", c.handleState)
}

// handleHealth returns the health status of the service.
//
// Returns 200 OK with status and registry counts if healthy,
// 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, c.svc.Health(r.Context()))
}

// handleState returns every work unit and agent in one snapshot.
// GET /v1/state
func (c *GeneralController) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, c.svc.State(r.Context()))
}
