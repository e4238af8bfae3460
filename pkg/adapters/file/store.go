// Package file implements the slot store on plain files: one slot, one
// file, atomically replaced on every save. A sidecar journal under the
// system directory keeps enough bookkeeping for the watcher to tell the
// store's own writes apart from external edits.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/oklog/ulid/v2"

	"github.com/jotkit/jot/pkg/core"
)

const (
	// DefaultSystemDir is the hidden bookkeeping directory inside the state dir.
	DefaultSystemDir = ".jot"

	// DefaultExt selects the default serializer.
	DefaultExt = ".json"

	// defaultDebounce is the watcher coalescing window. Editors tend to
	// fire several filesystem events per logical save.
	defaultDebounce = 50 * time.Millisecond
)

// Config holds the configuration for the file store.
type Config struct {
	Dir          string        // state directory, one file per slot
	Ext          string        // slot file extension, picks the serializer (default ".json")
	SystemDir    string        // bookkeeping directory name (default ".jot")
	Logger       *slog.Logger
	Debounce     time.Duration         // watcher coalescing window
	ErrorHandler func(error)           // callback for watcher runtime failures
	Serializers  map[string]Serializer // overrides DefaultSerializers when set
}

// Store implements core.Store with one file per slot.
type Store struct {
	Dir         string
	config      Config
	serializers map[string]Serializer
	journal     *journal

	entropyMu sync.Mutex
	entropy   *rand.Rand

	mu            sync.RWMutex
	watcherActive bool
}

// New creates a file store rooted at config.Dir. The directory does not
// have to exist yet; it is created on the first save.
func New(config Config) *Store {
	if config.Ext == "" {
		config.Ext = DefaultExt
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}

	serializers := config.Serializers
	if serializers == nil {
		serializers = DefaultSerializers()
	}

	s := &Store{
		Dir:         config.Dir,
		config:      config,
		serializers: serializers,
		journal:     newJournal(config.Dir, config.SystemDir),
		entropy:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.journal.Load(); err != nil && config.Logger != nil {
		config.Logger.Debug("journal unreadable, starting fresh", "error", err)
	}
	return s
}

// Load reads the slot's file. Reads fail open: a missing file, an
// unreadable file, and a payload that does not parse all yield def.
func (s *Store) Load(ctx context.Context, key string, def core.Notes) core.Notes {
	ser, err := s.serializer()
	if err != nil {
		if s.config.Logger != nil {
			s.config.Logger.Debug("no serializer, serving default", "slot", key, "error", err)
		}
		return def
	}

	data, err := os.ReadFile(s.slotPath(key))
	if err != nil {
		if !os.IsNotExist(err) && s.config.Logger != nil {
			s.config.Logger.Debug("slot unreadable, serving default", "slot", key, "error", err)
		}
		return def
	}

	notes, err := ser.Decode(data)
	if err != nil {
		if s.config.Logger != nil {
			s.config.Logger.Debug("slot corrupt, serving default", "slot", key, "error", err)
		}
		return def
	}
	return notes
}

// Save writes the slot atomically and records the payload checksum in the
// journal so the watcher can tell this write from an external one.
func (s *Store) Save(ctx context.Context, key string, value core.Notes) error {
	ser, err := s.serializer()
	if err != nil {
		return err
	}

	data, err := ser.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Record before the rename lands. The watcher may see the filesystem
	// event before Save returns, and the journal must already match then.
	s.journal.Record(key, s.newSnapshotID(), checksum(data))

	if err := writeFileAtomic(s.slotPath(key), data, 0644); err != nil {
		return err
	}

	if err := s.journal.Save(); err != nil && s.config.Logger != nil {
		// Bookkeeping only. Worst case the watcher reports one of our own
		// writes as external once.
		s.config.Logger.Debug("failed to persist journal", "error", err)
	}
	return nil
}

// Watch starts a supervised filesystem watcher over the state directory.
// Events are debounced, filtered down to slot files whose key matches
// pattern, and stripped of this store's own writes. The channel closes
// after ctx is done and the watcher has wound down.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	events := make(chan core.Event)

	spec := supervisor.Spec{
		Name: "file-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return newWatchWorker(s, pattern, events), nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			ResetDuration:   30 * time.Second,
			MaxRestarts:     5,
			MaxDuration:     time.Minute,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("file-watch", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		return nil, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sup.Stop(stopCtx)
		close(events)
		return nil
	})

	return events, nil
}

func (s *Store) serializer() (Serializer, error) {
	ser, ok := s.serializers[s.config.Ext]
	if !ok {
		return nil, fmt.Errorf("no serializer registered for %s", s.config.Ext)
	}
	return ser, nil
}

func (s *Store) slotPath(key string) string {
	return filepath.Join(s.Dir, key+s.config.Ext)
}

// slotKey maps a slot file path back to its key.
func (s *Store) slotKey(path string) string {
	return strings.TrimSuffix(filepath.Base(path), s.config.Ext)
}

// selfWrite reports whether the file at path carries exactly what this
// store last wrote to the slot.
func (s *Store) selfWrite(key, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return s.journal.Matches(key, checksum(data))
}

func (s *Store) newSnapshotID() string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
