package proc_test

import (
	"bytes"
	"testing"

	"github.com/heistp/bufferbloat/proc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := &proc.ExecRunner{Stdout: &stdout, Stderr: &stderr}

	require.NoError(t, r.Run("echo", "hello"))
	assert.Equal(t, "hello\n", stdout.String())
}

func TestExecRunnerExitStatus(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := &proc.ExecRunner{Stdout: &stdout, Stderr: &stderr}

	err := r.Run("false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 1")
}

func TestExecRunnerStartFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := &proc.ExecRunner{Stdout: &stdout, Stderr: &stderr}

	err := r.Run("no-such-command-anywhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestKillPatternAbsent(t *testing.T) {
	// no process matching the pattern is not an error
	require.NoError(t, proc.KillPattern("no-such-process-pattern-zzz"))
}

func TestPgrepAbsent(t *testing.T) {
	pids, err := proc.Pgrep("no-such-process-pattern-zzz")
	require.NoError(t, err)
	assert.Empty(t, pids)
}

func TestOutput(t *testing.T) {
	out, err := proc.Output("echo", "ok")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}
