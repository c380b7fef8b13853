package linux

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
)

// Debugfs paths for the tcp:tcp_probe tracepoint. The tcp_probe module was
// removed in Linux 4.16 and replaced by this tracepoint.
const (
	DebugfsDir  = "/sys/kernel/debug"
	TracingDir  = DebugfsDir + "/tracing"
	probeEnable = TracingDir + "/events/tcp/tcp_probe/enable"
	tracePipe   = TracingDir + "/trace_pipe"
)

// MountDebugfs mounts debugfs if the tracing directory is not already
// present.
func MountDebugfs() (err error) {
	if _, err = os.Stat(TracingDir); err == nil {
		return
	}
	err = exec.Command("mount", "-t", "debugfs", "none", DebugfsDir).Run()
	return
}

// TCPProbe enables and disables the tcp_probe tracepoint, and reads its
// records from the trace pipe. The tracepoint is global kernel state, so
// Disable must be called on cleanup regardless of how many runs happened.
type TCPProbe struct {
	Log bool // if true, logging is enabled
}

func (p *TCPProbe) Enable() error {
	if p.Log {
		log.Printf("tcpprobe enabling tracepoint")
	}
	return os.WriteFile(probeEnable, []byte("1\n"), 0644)
}

func (p *TCPProbe) Disable() error {
	if p.Log {
		log.Printf("tcpprobe disabling tracepoint")
	}
	return os.WriteFile(probeEnable, []byte("0\n"), 0644)
}

// ReadTrace copies trace pipe records to w until the context ends. The pipe
// blocks while the trace buffer is empty, so the read is unblocked by closing
// the pipe when the context is done.
func (p *TCPProbe) ReadTrace(ctx context.Context, w io.Writer) (err error) {
	var f *os.File
	if f, err = os.Open(tracePipe); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			f.Close()
		case <-done:
		}
	}()
	defer close(done)

	if p.Log {
		log.Printf("tcpprobe reading %s", tracePipe)
	}

	var n int64
	n, err = io.Copy(w, f)

	if ctx.Err() != nil && errors.Is(err, os.ErrClosed) {
		err = nil // expected close on shutdown
	} else {
		f.Close()
	}

	if p.Log {
		log.Printf("tcpprobe read done bytes=%d", n)
	}

	return
}
