// Package notify pushes the full note list to a remote endpoint after every
// change. Delivery is fire and forget: one POST in flight at a time, newer
// snapshots displace queued ones, and failures are logged and dropped.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/jotkit/jot/pkg/core"
)

const defaultTimeout = 5 * time.Second

// Config controls the notifier's endpoint and transport.
type Config struct {
	URL     string
	Client  *http.Client // optional, a timeout-bound client is built when nil
	Logger  *slog.Logger
	Timeout time.Duration // per-request timeout (default 5s)
}

// HTTPNotifier implements core.Notifier over a single-slot mailbox. Notify
// never blocks the caller: while a POST is in flight, the newest snapshot
// waits in the mailbox and anything older is discarded unsent.
type HTTPNotifier struct {
	config  Config
	client  *http.Client
	mailbox chan core.Notes
	pending sync.WaitGroup

	mu        sync.RWMutex
	posted    int
	failed    int
	displaced int
}

// New builds a notifier for the given endpoint. Call Start to launch the
// delivery loop.
func New(config Config) *HTTPNotifier {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &HTTPNotifier{
		config:  config,
		client:  client,
		mailbox: make(chan core.Notes, 1),
	}
}

// Start launches the delivery loop. It returns immediately; the loop runs
// until ctx is canceled.
func (n *HTTPNotifier) Start(ctx context.Context) {
	lifecycle.Go(ctx, n.run, lifecycle.WithErrorHandler(func(err error) {
		if n.config.Logger != nil {
			n.config.Logger.Error("notify loop failed", "error", err)
		}
	}))
}

func (n *HTTPNotifier) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-n.mailbox:
			n.post(ctx, snapshot)
			n.pending.Done()
		}
	}
}

// Notify implements core.Notifier. The snapshot is queued for delivery;
// if an older snapshot is still waiting its turn, it is displaced. The
// list sent over the wire is always the latest one the caller handed us.
func (n *HTTPNotifier) Notify(ctx context.Context, notes core.Notes) {
	snapshot := notes.Clone()

	n.pending.Add(1)
	for {
		select {
		case n.mailbox <- snapshot:
			return
		default:
			select {
			case <-n.mailbox:
				// The displaced snapshot will never be posted.
				n.pending.Done()
				n.mu.Lock()
				n.displaced++
				n.mu.Unlock()
			default:
			}
		}
	}
}

// Flush blocks until every queued snapshot has been posted or the timeout
// passes. One-shot callers use it to get the notification out before exit.
func (n *HTTPNotifier) Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		n.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (n *HTTPNotifier) post(ctx context.Context, snapshot core.Notes) {
	if snapshot == nil {
		snapshot = core.Notes{}
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		n.recordFailure("failed to encode notification", err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, n.config.URL, bytes.NewReader(body))
	if err != nil {
		n.recordFailure("failed to build notification request", err)
		return
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.recordFailure("notification post failed", err)
		return
	}
	defer resp.Body.Close()

	// The response carries nothing we act on. Drain it so the connection
	// can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	n.mu.Lock()
	n.posted++
	n.mu.Unlock()

	if n.config.Logger != nil {
		n.config.Logger.Debug("notification posted", "url", n.config.URL, "status", resp.StatusCode, "notes", len(snapshot))
	}
}

func (n *HTTPNotifier) recordFailure(msg string, err error) {
	n.mu.Lock()
	n.failed++
	n.mu.Unlock()

	if n.config.Logger != nil {
		n.config.Logger.Debug(msg, "url", n.config.URL, "error", err)
	}
}

// Nop is a notifier that does nothing. It stands in wherever no endpoint
// is configured.
type Nop struct{}

// Notify implements core.Notifier.
func (Nop) Notify(ctx context.Context, notes core.Notes) {}

var _ core.Notifier = (*HTTPNotifier)(nil)
var _ core.Notifier = Nop{}
