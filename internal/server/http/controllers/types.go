package controllers

// Common request types for HTTP controllers

// claimReq represents a request to claim a work unit.
type claimReq struct {
	AgentID    string `json:"agent_id"`
	Path       string `json:"path"`
	Type       string `json:"type"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

// releaseReq represents a request to release a work unit or leave its queue.
type releaseReq struct {
	AgentID string `json:"agent_id"`
	Path    string `json:"path"`
}

// registerAgentReq represents a request to register an agent.
type registerAgentReq struct {
	AgentID   string `json:"agent_id"`
	AgentType string `json:"agent_type"`
	ParentID  string `json:"parent_id"`
}

// agentIDReq represents a request addressing a single agent.
type agentIDReq struct {
	AgentID string `json:"agent_id"`
}
