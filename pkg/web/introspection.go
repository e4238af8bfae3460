package web

import (
	"github.com/aretw0/introspection"
)

// ServerState exposes the HTTP surface's state for observability.
type ServerState struct {
	Slot    string `json:"slot"`
	Clients int    `json:"clients"`
	Notes   int    `json:"notes"`
}

// State implements introspection.Introspectable.
func (s *Server) State() any {
	return ServerState{
		Slot:    s.svc.Slot(),
		Clients: s.hub.Len(),
		Notes:   s.svc.Len(),
	}
}

// ComponentType implements introspection.Component.
func (s *Server) ComponentType() string {
	return "web-server"
}

var _ introspection.Introspectable = (*Server)(nil)
var _ introspection.Component = (*Server)(nil)
