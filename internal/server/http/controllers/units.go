package controllers

import (
	"encoding/json"
	"net/http"

	coordsvc "github.com/Okohedeki/sia/internal/services/coordination"
)

// UnitsController handles all work-unit HTTP endpoints.
//
// It provides a RESTful interface to the coordination service: claiming,
// releasing, queue management, and the read-side listing endpoints.
type UnitsController struct {
	svc *coordsvc.Service
}

// NewUnitsController creates a new work-units controller.
func NewUnitsController(svc *coordsvc.Service) *UnitsController {
	return &UnitsController{svc: svc}
}

// RegisterRoutes registers all work-unit routes with the given mux.
func (c *UnitsController) RegisterRoutes(mux *http.ServeMux) {
	// Core operations
	mux.HandleFunc("/v1/units/claim", c.handleClaim)
	mux.HandleFunc("/v1/units/release", c.handleRelease)
	mux.HandleFunc("/v1/units/dequeue", c.handleDequeue)

	// Reads
	mux.HandleFunc("/v1/units", c.handleList)
	mux.HandleFunc("/v1/units/get", c.handleGet)
	mux.HandleFunc("/v1/units/available", c.handleListAvailable)
	mux.HandleFunc("/v1/units/by-agent", c.handleListByAgent)
	mux.HandleFunc("/v1/units/position", c.handlePosition)
}

// handleClaim requests ownership of a work unit.
// POST /v1/units/claim
func (c *UnitsController) handleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req claimReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := c.svc.Claim(r.Context(), req.AgentID, req.Path, req.Type, req.TTLSeconds)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, res)
}

// handleRelease gives up ownership of a work unit.
// POST /v1/units/release
func (c *UnitsController) handleRelease(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req releaseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := c.svc.Release(r.Context(), req.AgentID, req.Path)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, res)
}

// handleDequeue removes the agent from a work unit's wait queue.
// POST /v1/units/dequeue
func (c *UnitsController) handleDequeue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req releaseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	removed, err := c.svc.Dequeue(r.Context(), req.AgentID, req.Path)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"removed": removed})
}

// handleList lists every known work unit.
// GET /v1/units
func (c *UnitsController) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, map[string]any{"units": nonNil(c.svc.ListWorkUnits(r.Context()))})
}

// handleGet returns a single work unit by path.
// GET /v1/units/get?path=<path>
func (c *UnitsController) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path parameter required")
		return
	}
	unit, ok := c.svc.GetWorkUnit(r.Context(), path)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown work unit")
		return
	}
	writeJSON(w, unit)
}

// handleListAvailable lists units nobody currently holds.
// GET /v1/units/available
func (c *UnitsController) handleListAvailable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, map[string]any{"units": nonNil(c.svc.ListAvailable(r.Context()))})
}

// handleListByAgent lists units owned by one agent.
// GET /v1/units/by-agent?agent=<agent_id>
func (c *UnitsController) handleListByAgent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	agent := r.URL.Query().Get("agent")
	if agent == "" {
		writeError(w, http.StatusBadRequest, "agent parameter required")
		return
	}
	writeJSON(w, map[string]any{
		"agent_id": agent,
		"units":    nonNil(c.svc.ListByAgent(r.Context(), agent)),
	})
}

// handlePosition reports an agent's standing at a path: queue_position is
// 1-indexed, 0 with owner=false means the agent is not involved at all.
// GET /v1/units/position?path=<path>&agent=<agent_id>
func (c *UnitsController) handlePosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	path := r.URL.Query().Get("path")
	agent := r.URL.Query().Get("agent")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path parameter required")
		return
	}
	if agent == "" {
		writeError(w, http.StatusBadRequest, "agent parameter required")
		return
	}
	pos, owner := c.svc.QueuePosition(r.Context(), path, agent)
	writeJSON(w, map[string]any{
		"path":           path,
		"agent_id":       agent,
		"queue_position": pos,
		"owner":          owner,
	})
}
