// Package shell runs the external tools the pipeline depends on (git,
// npm, wrangler). Commands inherit the caller's standard streams and
// are judged purely by exit status; each pipeline step declares
// whether its failure aborts the run or downgrades to a warning.
package shell

import (
	"os"
	"os/exec"

	"github.com/arthur-debert/launchpad/pkg/errors"
	"github.com/arthur-debert/launchpad/pkg/logging"
)

// Policy decides what a command failure means to the pipeline.
type Policy int

const (
	// Fatal failures abort the run.
	Fatal Policy = iota

	// WarnAndContinue failures produce a warning with remedial
	// instructions; the run still succeeds.
	WarnAndContinue
)

// Runner executes one external command in a working directory.
type Runner interface {
	Run(dir, name string, args ...string) error
}

// OSRunner runs commands with os/exec, wiring the process's own
// standard streams through.
type OSRunner struct{}

// NewRunner returns the default OS-backed runner.
func NewRunner() *OSRunner {
	return &OSRunner{}
}

// Run executes name with args in dir and returns an error only when
// the command could not run or exited non-zero.
func (r *OSRunner) Run(dir, name string, args ...string) error {
	logging.LogCommand(name, args)

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrCommandFailed, "%s failed", name)
	}
	return nil
}
