// Package testutil holds shared helpers for launchpad tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree creates a directory tree from relative-path → content
// pairs under root, creating parent directories as needed.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// Call records one command a RecordingRunner executed.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Command returns the full command line, e.g. "npx wrangler deploy".
func (c Call) Command() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// RecordingRunner is a shell.Runner double that records every call and
// fails those whose command line starts with a configured prefix.
type RecordingRunner struct {
	Calls []Call

	// FailOn maps a command-line prefix to the error returned when a
	// matching command runs.
	FailOn map[string]error
}

// Run records the call and consults FailOn.
func (r *RecordingRunner) Run(dir, name string, args ...string) error {
	call := Call{Dir: dir, Name: name, Args: args}
	r.Calls = append(r.Calls, call)

	for prefix, err := range r.FailOn {
		if strings.HasPrefix(call.Command(), prefix) {
			return err
		}
	}
	return nil
}

// CommandLines returns the recorded command lines in execution order.
func (r *RecordingRunner) CommandLines() []string {
	lines := make([]string, 0, len(r.Calls))
	for _, call := range r.Calls {
		lines = append(lines, call.Command())
	}
	return lines
}
