package controllers

import (
	"encoding/json"
	"net/http"

	coordsvc "github.com/Okohedeki/sia/internal/services/coordination"
)

// AgentsController handles all agent-registry HTTP endpoints.
type AgentsController struct {
	svc *coordsvc.Service
}

// NewAgentsController creates a new agents controller.
func NewAgentsController(svc *coordsvc.Service) *AgentsController {
	return &AgentsController{svc: svc}
}

// RegisterRoutes registers all agent routes with the given mux.
func (c *AgentsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/agents/register", c.handleRegister)
	mux.HandleFunc("/v1/agents/heartbeat", c.handleHeartbeat)
	mux.HandleFunc("/v1/agents/deregister", c.handleDeregister)
	mux.HandleFunc("/v1/agents", c.handleList)
	mux.HandleFunc("/v1/agents/get", c.handleGet)
}

// handleRegister registers an agent, or refreshes it if already known.
// POST /v1/agents/register
func (c *AgentsController) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req registerAgentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	info, err := c.svc.RegisterAgent(r.Context(), req.AgentID, req.AgentType, req.ParentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, info)
}

// handleHeartbeat refreshes an agent's last_seen, registering it if unknown.
// POST /v1/agents/heartbeat
func (c *AgentsController) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req agentIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := c.svc.Heartbeat(r.Context(), req.AgentID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// handleDeregister removes an agent and cascades over its claims and
// queue memberships. Unknown agents deregister as a no-op success.
// POST /v1/agents/deregister
func (c *AgentsController) handleDeregister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req agentIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	released, err := c.svc.DeregisterAgent(r.Context(), req.AgentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":        true,
		"released_paths": nonNil(released),
	})
}

// handleList lists all registered agents.
// GET /v1/agents
func (c *AgentsController) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, map[string]any{"agents": nonNil(c.svc.ListAgents(r.Context()))})
}

// handleGet returns a single agent by id.
// GET /v1/agents/get?id=<agent_id>
func (c *AgentsController) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id parameter required")
		return
	}
	info, ok := c.svc.GetAgent(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown agent")
		return
	}
	writeJSON(w, info)
}
