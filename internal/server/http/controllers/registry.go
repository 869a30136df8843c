package controllers

import (
	"net/http"

	"github.com/Okohedeki/sia/internal/runtime"
	coordsvc "github.com/Okohedeki/sia/internal/services/coordination"
	logpkg "github.com/Okohedeki/sia/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general *GeneralController
	units   *UnitsController
	agents  *AgentsController
	events  *EventsController
}

// NewControllerRegistry creates a new controller registry.
//
// It initializes all controllers with the provided runtime and service.
func NewControllerRegistry(rt *runtime.Runtime, svc *coordsvc.Service, logger logpkg.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt, svc),
		units:   NewUnitsController(svc),
		agents:  NewAgentsController(svc),
		events:  NewEventsController(svc, logger),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This method sets up all HTTP endpoints for the Sia service: general
// endpoints (health, state), work-unit endpoints, agent endpoints, and
// the SSE event feed.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.units.RegisterRoutes(mux)
	r.agents.RegisterRoutes(mux)
	r.events.RegisterRoutes(mux)
}
