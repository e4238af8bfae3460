package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/jotkit/jot/pkg/core"
)

type padSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits pad change events.
// It bridges the typed event channel to the generic lifecycle Event
// interface, so host applications can feed external note edits into
// their own lifecycle-managed plumbing.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &padSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *padSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *padSource) Start(ctx context.Context) error {
	// The bridge itself runs as a tracked goroutine. core.Event satisfies
	// lifecycle.Event through its String method.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
