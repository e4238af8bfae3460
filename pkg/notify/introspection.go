package notify

import (
	"github.com/aretw0/introspection"
)

// NotifierState exposes delivery counters for observability.
type NotifierState struct {
	URL       string `json:"url"`
	Posted    int    `json:"posted"`
	Failed    int    `json:"failed"`
	Displaced int    `json:"displaced"`
}

// State implements introspection.Introspectable.
func (n *HTTPNotifier) State() any {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return NotifierState{
		URL:       n.config.URL,
		Posted:    n.posted,
		Failed:    n.failed,
		Displaced: n.displaced,
	}
}

// ComponentType implements introspection.Component.
func (n *HTTPNotifier) ComponentType() string {
	return "http-notifier"
}

var _ introspection.Introspectable = (*HTTPNotifier)(nil)
var _ introspection.Component = (*HTTPNotifier)(nil)
