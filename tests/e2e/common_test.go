package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// note mirrors the slot wire form. The e2e suite drives the binary as a
// black box, so it reads the slot file directly instead of importing the
// library.
type note struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// buildJotBinary builds the jot binary in the specified directory and returns its path.
// It handles the build command execution and error checking.
func buildJotBinary(t *testing.T, dir string) string {
	t.Helper()
	jotBin := filepath.Join(dir, "jot.exe")
	// Assumes tests are running from tests/e2e or similar depth.
	buildCmd := exec.Command("go", "build", "-o", jotBin, "../../cmd/jot")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build jot: %v\n%s", err, string(out))
	}
	return jotBin
}

// run executes a command for its side effects.
func run(t *testing.T, dir string, env []string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	fmt.Printf("[%s] Executing: %s %v\n", dir, name, args)
	if err := cmd.Run(); err != nil {
		t.Fatalf("Command %s %v failed in %s: %v", name, args, dir, err)
	}
}

// runOut executes a command and returns its stdout.
func runOut(t *testing.T, dir string, env []string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	fmt.Printf("[%s] Executing: %s %v\n", dir, name, args)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Fatalf("Command %s %v failed in %s: %v\n%s", name, args, dir, err, exitErr.Stderr)
		}
		t.Fatalf("Command %s %v failed in %s: %v", name, args, dir, err)
	}
	return string(out)
}

// cmdFails executes a command and asserts a non-zero exit.
func cmdFails(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	fmt.Printf("[%s] Executing (expecting failure): %s %v\n", dir, name, args)
	if err := cmd.Run(); err == nil {
		t.Fatalf("Command %s %v succeeded, expected failure", name, args)
	}
}

// readSlot parses the notes stored in a slot file.
func readSlot(t *testing.T, path string) []note {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read slot file %s: %v", path, err)
	}
	var notes []note
	if err := json.Unmarshal(data, &notes); err != nil {
		t.Fatalf("Slot file %s does not parse: %v\n%s", path, err, data)
	}
	return notes
}
