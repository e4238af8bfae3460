package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotkit/jot"
)

// TestFailOpen_UnwritableDirectory ensures that the in-memory list stays
// authoritative when the disk refuses writes: mutations keep working, the
// stale file is simply left behind.
func TestFailOpen_UnwritableDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions do not bind for root")
	}

	// 1. Setup a pad with one saved note
	tempDir := t.TempDir()
	preparePad(t, tempDir)

	// 2. Take the directory away from the pad
	require.NoError(t, os.Chmod(tempDir, 0555))
	t.Cleanup(func() { _ = os.Chmod(tempDir, 0755) })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	pad, err := jot.Open(context.Background(), tempDir, jot.WithLogger(logger))
	require.NoError(t, err)
	defer pad.Close()

	ctx := context.Background()

	// 3. Verify Reading Works
	notes := pad.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "original note", notes[0].Text)

	// 4. Mutations succeed in memory even though the save is swallowed
	added, err := pad.Add(ctx, "kept in memory only")
	require.NoError(t, err)
	assert.Len(t, pad.Notes(), 2)

	_, err = pad.Edit(ctx, added.ID, "still editable")
	require.NoError(t, err)

	// 5. The file on disk never changed
	onDisk, err := os.ReadFile(filepath.Join(tempDir, "notes.json"))
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), "original note")
	assert.NotContains(t, string(onDisk), "still editable")

	// 6. A fresh pad sees only what the disk has
	require.NoError(t, os.Chmod(tempDir, 0755))
	reopened, err := jot.Open(ctx, tempDir)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 1, reopened.Len(), "Swallowed saves must not resurface")
}

// TestFailOpen_CorruptSlot ensures a broken payload loads as an empty pad
// and is replaced by the next successful save.
func TestFailOpen_CorruptSlot(t *testing.T) {
	tempDir := t.TempDir()

	// 1. Plant garbage where the slot file lives
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.json"), []byte("{ not a list"), 0644))

	// 2. The pad opens empty instead of failing
	pad, err := jot.Open(context.Background(), tempDir)
	require.NoError(t, err)
	defer pad.Close()
	assert.Equal(t, 0, pad.Len())

	// 3. The first mutation heals the file
	_, err = pad.Add(context.Background(), "fresh start")
	require.NoError(t, err)

	reopened, err := jot.Open(context.Background(), tempDir)
	require.NoError(t, err)
	defer reopened.Close()

	notes := reopened.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "fresh start", notes[0].Text)
}

func preparePad(t *testing.T, dir string) {
	t.Helper()

	pad, err := jot.Open(context.Background(), dir)
	require.NoError(t, err)
	defer pad.Close()

	_, err = pad.Add(context.Background(), "original note")
	require.NoError(t, err)

	// small sleep to ensure FS is settled (rarely needed with atomic writes but good for "prepare")
	time.Sleep(50 * time.Millisecond)
}
