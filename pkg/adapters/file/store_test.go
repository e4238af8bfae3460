package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jotkit/jot/pkg/core"
)

func TestStore_LoadFailOpen(t *testing.T) {
	def := core.Notes{{ID: 1, Text: "fallback"}}

	t.Run("Missing File Serves Default", func(t *testing.T) {
		s := New(Config{Dir: t.TempDir()})

		got := s.Load(context.Background(), "notes", def)
		if !got.Equal(def) {
			t.Errorf("Expected default, got %v", got)
		}
	})

	t.Run("Corrupt File Serves Default", func(t *testing.T) {
		tmpDir := t.TempDir()
		os.WriteFile(filepath.Join(tmpDir, "notes.json"), []byte("{ this is not a list"), 0644)

		s := New(Config{Dir: tmpDir})
		got := s.Load(context.Background(), "notes", def)
		if !got.Equal(def) {
			t.Errorf("Expected default for corrupt slot, got %v", got)
		}
	})

	t.Run("Unknown Extension Serves Default", func(t *testing.T) {
		s := New(Config{Dir: t.TempDir(), Ext: ".toml"})

		got := s.Load(context.Background(), "notes", def)
		if !got.Equal(def) {
			t.Errorf("Expected default for unregistered extension, got %v", got)
		}
	})

	t.Run("Unreadable File Serves Default", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("Permission bits do not bind for root")
		}
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "notes.json")
		os.WriteFile(path, []byte("[]"), 0000)

		s := New(Config{Dir: tmpDir})
		got := s.Load(context.Background(), "notes", def)
		if !got.Equal(def) {
			t.Errorf("Expected default for unreadable slot, got %v", got)
		}
	})
}

func TestStore_SaveRoundTrip(t *testing.T) {
	notes := core.Notes{
		{ID: 1700000000000, Text: "first"},
		{ID: 1700000000001, Text: "second"},
	}

	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			tmpDir := t.TempDir()
			s := New(Config{Dir: tmpDir, Ext: ext})
			ctx := context.Background()

			if err := s.Save(ctx, "notes", notes); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			if _, err := os.Stat(filepath.Join(tmpDir, "notes"+ext)); err != nil {
				t.Fatalf("Expected slot file on disk: %v", err)
			}

			got := s.Load(ctx, "notes", nil)
			if !got.Equal(notes) {
				t.Errorf("Round trip mismatch. Want %v, got %v", notes, got)
			}
		})
	}
}

func TestStore_LoadSurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()
	notes := core.Notes{{ID: 42, Text: "persisted"}}

	s := New(Config{Dir: tmpDir})
	if err := s.Save(ctx, "notes", notes); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh instance over the same directory sees the same state.
	reopened := New(Config{Dir: tmpDir})
	got := reopened.Load(ctx, "notes", nil)
	if !got.Equal(notes) {
		t.Errorf("Expected %v after reopen, got %v", notes, got)
	}
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	s := New(Config{Dir: tmpDir})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		notes := core.Notes{{ID: int64(i), Text: fmt.Sprintf("rev %d", i)}}
		if err := s.Save(ctx, "notes", notes); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), TempFilePrefix) {
			t.Errorf("Leftover temp file: %s", e.Name())
		}
	}
}

func TestStore_SaveRecordsJournal(t *testing.T) {
	tmpDir := t.TempDir()
	s := New(Config{Dir: tmpDir})
	ctx := context.Background()

	if err := s.Save(ctx, "notes", core.Notes{{ID: 1, Text: "mine"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The write we just made must be recognizable as our own.
	if !s.selfWrite("notes", s.slotPath("notes")) {
		t.Error("Expected own save to register as a self write")
	}

	// An external rewrite of the same slot must not.
	os.WriteFile(s.slotPath("notes"), []byte(`[{"id": 2, "text": "theirs"}]`), 0644)
	if s.selfWrite("notes", s.slotPath("notes")) {
		t.Error("Expected external edit to not register as a self write")
	}

	// The journal survives on disk for the next instance.
	if _, err := os.Stat(filepath.Join(tmpDir, ".jot", "journal.json")); err != nil {
		t.Errorf("Expected journal on disk: %v", err)
	}
}

func TestStore_SnapshotIDsAreUnique(t *testing.T) {
	s := New(Config{Dir: t.TempDir()})

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.newSnapshotID()
		if seen[id] {
			t.Fatalf("Duplicate snapshot id: %s", id)
		}
		seen[id] = true
	}
}

func TestStore_SlotKey(t *testing.T) {
	s := New(Config{Dir: t.TempDir()})

	if got := s.slotKey("/some/dir/notes.json"); got != "notes" {
		t.Errorf("Expected slot key 'notes', got %q", got)
	}
}

func BenchmarkStoreSave(b *testing.B) {
	tmpDir := b.TempDir()
	s := New(Config{Dir: tmpDir})
	ctx := context.Background()

	notes := make(core.Notes, 100)
	for i := range notes {
		notes[i] = core.Note{ID: int64(1700000000000 + i), Text: fmt.Sprintf("note %d", i)}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Save(ctx, "notes", notes); err != nil {
			b.Fatal(err)
		}
	}
}
