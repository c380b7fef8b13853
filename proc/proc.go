// Package proc supervises the external commands the harness depends on: the
// emulation step, the plot steps and the leftover helper processes that
// cleanup tears down.
package proc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
)

// Runner is the interface that wraps the Run method.
//
// Run starts the named command with the given arguments and waits for it to
// exit. A non-zero exit status is returned as an error.
type Runner interface {
	Run(name string, arg ...string) error
}

// ExecRunner runs commands with os/exec. Stdout and Stderr default to the
// calling process's stdout and stderr, so the underlying tool's diagnostics
// reach the operator unchanged.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    bool // if true, logging is enabled
}

func (r *ExecRunner) Run(name string, arg ...string) (err error) {
	cmd := exec.Command(name, arg...)

	if cmd.Stdout = r.Stdout; cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr = r.Stderr; cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if r.Log {
		log.Printf("proc run cmd=%q", name+" "+strings.Join(arg, " "))
	}

	if err = cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			err = fmt.Errorf("%s exited with status %d", name, ee.ExitCode())
		} else {
			err = fmt.Errorf("%s failed to start (%w)", name, err)
		}
	}

	return
}

// Output runs the named command and returns its standard output.
func Output(name string, arg ...string) (out string, err error) {
	cmd := exec.Command(name, arg...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	err = cmd.Run()
	out = stdout.String()

	return
}

// KillPattern force kills every process whose command line matches the given
// pattern. No matching process is not an error.
func KillPattern(pattern string) (err error) {
	cmd := exec.Command("pkill", "-9", "-f", pattern)

	if err = cmd.Run(); err != nil {
		var ee *exec.ExitError
		// pkill exits 1 when no processes matched
		if errors.As(err, &ee) && ee.ExitCode() == 1 {
			err = nil
		}
	}

	return
}

// Pgrep returns the PIDs of processes whose command line matches the given
// pattern. No matching process returns an empty slice and no error.
func Pgrep(pattern string) (pids []string, err error) {
	var out string
	if out, err = Output("pgrep", "-f", pattern); err != nil {
		var ee *exec.ExitError
		// pgrep exits 1 when no processes matched
		if errors.As(err, &ee) && ee.ExitCode() == 1 {
			err = nil
		}
		return
	}

	pids = strings.Fields(out)

	return
}
