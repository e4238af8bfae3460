package platform

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jotkit/jot/pkg/adapters/file"
	"github.com/jotkit/jot/pkg/adapters/sqlite"
	"github.com/jotkit/jot/pkg/core"
	"github.com/jotkit/jot/pkg/notify"
)

// Pad bundles a note service with the plumbing the factory wired under
// it. Embedding keeps the full service API on the Pad itself.
type Pad struct {
	*core.Service

	store    core.Store
	notifier *notify.HTTPNotifier // nil when no sync endpoint is configured
}

// New opens a note pad at the given URI. For the file adapter the URI is
// the state directory; for sqlite it is the database file (a directory
// gets the default filename appended).
//
//	pad, err := jot.Open("~/.jot", jot.WithSyncURL("https://example.com/hook"))
func New(ctx context.Context, uri string, opts ...Option) (*Pad, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := buildStore(uri, o)
	if err != nil {
		return nil, err
	}

	var notifier core.Notifier
	var httpNotifier *notify.HTTPNotifier
	if o.notifier != nil {
		notifier = o.notifier
	} else if o.syncURL != "" {
		httpNotifier = notify.New(notify.Config{URL: o.syncURL, Logger: o.logger})
		httpNotifier.Start(ctx)
		notifier = httpNotifier
	}

	svc := core.NewService(ctx, store, core.ServiceConfig{
		Notifier:    notifier,
		Slot:        o.slot,
		Logger:      o.logger,
		Clock:       o.clock,
		EventBuffer: o.eventBuffer,
	})

	return &Pad{
		Service:  svc,
		store:    store,
		notifier: httpNotifier,
	}, nil
}

func buildStore(uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case "file":
		serializers, err := castSerializers(o.serializers)
		if err != nil {
			return nil, err
		}
		return file.New(file.Config{
			Dir:          uri,
			Ext:          o.format,
			Logger:       o.logger,
			Debounce:     o.debounce,
			ErrorHandler: o.errorHandler,
			Serializers:  serializers,
		}), nil

	case "sqlite":
		path := uri
		if !strings.HasSuffix(path, ".db") {
			path = filepath.Join(uri, sqlite.DefaultFile)
		}
		return sqlite.New(sqlite.Config{
			Path:   path,
			Logger: o.logger,
		})

	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// castSerializers validates the loosely typed option values.
func castSerializers(raw map[string]any) (map[string]file.Serializer, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := file.DefaultSerializers()
	for ext, v := range raw {
		ser, ok := v.(file.Serializer)
		if !ok {
			return nil, fmt.Errorf("serializer for %s does not implement file.Serializer", ext)
		}
		out[ext] = ser
	}
	return out, nil
}

// Flush waits for any queued sync notification to reach the wire. It is
// a no-op without a sync endpoint. One-shot commands call it before exit.
func (p *Pad) Flush(timeout time.Duration) bool {
	if p.notifier == nil {
		return true
	}
	return p.notifier.Flush(timeout)
}

// Close releases adapter resources (the sqlite handle, mainly).
func (p *Pad) Close() error {
	if closer, ok := p.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Store exposes the underlying storage adapter, mostly for introspection.
func (p *Pad) Store() core.Store {
	return p.store
}
