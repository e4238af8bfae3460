package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// journalEntry records the last write this store made to a slot.
type journalEntry struct {
	SnapshotID   string    `json:"snapshotId"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"lastModified"`
}

// journalState is the persistent form of the journal.
type journalState struct {
	Version int                      `json:"version"`
	Entries map[string]*journalEntry `json:"entries"` // Key is the slot key (e.g. "notes")
	dirty   bool
	mu      sync.RWMutex
}

// journal manages the loading, updating, and saving of write bookkeeping.
// The watcher uses it to tell this store's own writes apart from external
// edits to the same files.
type journal struct {
	Path  string // Path to .jot/journal.json
	state *journalState
}

// newJournal initializes a journal under the store's system directory.
func newJournal(dir, systemDir string) *journal {
	return &journal{
		Path: filepath.Join(dir, systemDir, "journal.json"),
		state: &journalState{
			Version: 1,
			Entries: make(map[string]*journalEntry),
		},
	}
}

// Load reads the journal from disk. If not found or invalid, it starts
// fresh (no error): worst case the watcher reports one of our own writes
// as external once.
func (j *journal) Load() error {
	j.state.mu.Lock()
	defer j.state.mu.Unlock()

	data, err := os.ReadFile(j.Path)
	if os.IsNotExist(err) {
		return nil // Start fresh
	}
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if err := json.Unmarshal(data, j.state); err != nil {
		// Corruption self-heals to an empty journal.
		j.state.Entries = make(map[string]*journalEntry)
		return nil
	}

	if j.state.Entries == nil {
		j.state.Entries = make(map[string]*journalEntry)
	}
	j.state.dirty = false
	return nil
}

// Save persists the journal to disk if it is dirty.
func (j *journal) Save() error {
	j.state.mu.RLock()
	if !j.state.dirty {
		j.state.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(j.state, "", "  ")
	j.state.mu.RUnlock()

	if err != nil {
		return err
	}

	dir := filepath.Dir(j.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if err := writeFileAtomic(j.Path, data, 0644); err != nil {
		return err
	}

	j.state.mu.Lock()
	j.state.dirty = false
	j.state.mu.Unlock()

	return nil
}

// Record notes a write to key with the payload checksum.
func (j *journal) Record(key, snapshotID, sum string) {
	j.state.mu.Lock()
	defer j.state.mu.Unlock()

	j.state.Entries[key] = &journalEntry{
		SnapshotID:   snapshotID,
		Checksum:     sum,
		LastModified: time.Now(),
	}
	j.state.dirty = true
}

// Matches reports whether sum equals the checksum of the last recorded
// write to key.
func (j *journal) Matches(key, sum string) bool {
	j.state.mu.RLock()
	defer j.state.mu.RUnlock()

	entry, ok := j.state.Entries[key]
	if !ok {
		return false
	}
	return entry.Checksum == sum
}

// Snapshot returns the snapshot id of the last recorded write to key.
func (j *journal) Snapshot(key string) (string, bool) {
	j.state.mu.RLock()
	defer j.state.mu.RUnlock()

	entry, ok := j.state.Entries[key]
	if !ok {
		return "", false
	}
	return entry.SnapshotID, true
}

// Forget removes a single entry from the journal.
func (j *journal) Forget(key string) {
	j.state.mu.Lock()
	defer j.state.mu.Unlock()

	delete(j.state.Entries, key)
	j.state.dirty = true
}

// Len returns the number of tracked slots.
func (j *journal) Len() int {
	j.state.mu.RLock()
	defer j.state.mu.RUnlock()
	return len(j.state.Entries)
}
