package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotkit/jot/pkg/core"
)

// sink records every POST body it receives.
type sink struct {
	mu     sync.Mutex
	bodies [][]byte
	types  []string
}

func (s *sink) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.bodies = append(s.bodies, body)
		s.types = append(s.types, r.Header.Get("Content-Type"))
		s.mu.Unlock()
	}
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

func TestNotify_PostsFullList(t *testing.T) {
	recorder := &sink{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := New(Config{URL: server.URL})
	n.Start(ctx)

	notes := core.Notes{
		{ID: 1700000000000, Text: "first"},
		{ID: 1700000000001, Text: "second"},
	}
	n.Notify(ctx, notes)

	require.True(t, n.Flush(2*time.Second), "flush timed out")
	require.Equal(t, 1, recorder.count())

	assert.Equal(t, "application/json", recorder.types[0])

	var got core.Notes
	require.NoError(t, json.Unmarshal(recorder.bodies[0], &got))
	assert.True(t, got.Equal(notes), "wire payload must be the full list")
}

func TestNotify_EmptyListIsBrackets(t *testing.T) {
	recorder := &sink{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := New(Config{URL: server.URL})
	n.Start(ctx)

	n.Notify(ctx, core.Notes{})
	require.True(t, n.Flush(2*time.Second))

	require.Equal(t, 1, recorder.count())
	assert.JSONEq(t, "[]", string(recorder.bodies[0]))
}

func TestNotify_DisplacesStaleSnapshots(t *testing.T) {
	recorder := &sink{}

	inFlight := make(chan struct{})
	release := make(chan struct{})
	var gateOnce sync.Once

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gateOnce.Do(func() {
			close(inFlight)
			<-release
		})
		recorder.handler()(w, r)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := New(Config{URL: server.URL, Timeout: 10 * time.Second})
	n.Start(ctx)

	v1 := core.Notes{{ID: 1, Text: "v1"}}
	v2 := core.Notes{{ID: 1, Text: "v2"}}
	v3 := core.Notes{{ID: 1, Text: "v3"}}

	n.Notify(ctx, v1)
	<-inFlight // v1 is on the wire and holding the loop

	n.Notify(ctx, v2) // parks in the mailbox
	n.Notify(ctx, v3) // displaces v2
	close(release)

	require.True(t, n.Flush(5*time.Second), "flush timed out")
	require.Equal(t, 2, recorder.count(), "v2 must never reach the wire")

	var first, second core.Notes
	require.NoError(t, json.Unmarshal(recorder.bodies[0], &first))
	require.NoError(t, json.Unmarshal(recorder.bodies[1], &second))
	assert.True(t, first.Equal(v1))
	assert.True(t, second.Equal(v3))

	state := n.State().(NotifierState)
	assert.Equal(t, 2, state.Posted)
	assert.Equal(t, 1, state.Displaced)
}

func TestNotify_FailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := New(Config{URL: server.URL, Timeout: time.Second})
	n.Start(ctx)

	n.Notify(ctx, core.Notes{{ID: 1, Text: "lost"}})
	require.True(t, n.Flush(5*time.Second), "failed posts must still drain")

	state := n.State().(NotifierState)
	assert.Equal(t, 0, state.Posted)
	assert.Equal(t, 1, state.Failed)
}

func TestNotify_ErrorStatusIsIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "go away", http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := New(Config{URL: server.URL})
	n.Start(ctx)

	n.Notify(ctx, core.Notes{{ID: 1, Text: "whatever"}})
	require.True(t, n.Flush(2*time.Second))

	// A 500 is still a delivered notification. Nothing retries.
	state := n.State().(NotifierState)
	assert.Equal(t, 1, state.Posted)
	assert.Equal(t, 0, state.Failed)
}

func TestNotify_NeverBlocksCaller(t *testing.T) {
	// No Start: the mailbox has no consumer at all.
	n := New(Config{URL: "http://localhost:1"})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Notify(context.Background(), core.Notes{{ID: int64(i), Text: "x"}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked without a running delivery loop")
	}
}

func TestNop(t *testing.T) {
	var n Nop
	n.Notify(context.Background(), core.Notes{{ID: 1, Text: "ignored"}})
}
