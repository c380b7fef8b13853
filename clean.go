package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/heistp/bufferbloat/linux"
	"github.com/heistp/bufferbloat/proc"
)

// A Cleaner makes a best effort at returning the host to a pristine state:
// emulator teardown, output and cache directory removal, leftover helper
// process termination, and disabling the tcp_probe tracepoint. Every step is
// independently idempotent, and an absent target is not a failure.
type Cleaner struct {
	Base     string   // directory containing sweep outputs
	CleanCmd []string // emulator cleanup command
	DirGlobs []string // output and cache directory patterns to remove
	Patterns []string // command line patterns of helper processes to kill
	Log      bool     // if true, logging is enabled

	runner   proc.Runner
	kill     func(pattern string) error
	pgrep    func(pattern string) (pids []string, err error)
	probeOff func() error
}

func NewCleaner(r proc.Runner) *Cleaner {
	p := &linux.TCPProbe{}

	return &Cleaner{
		Base:     ".",
		CleanCmd: []string{"mn", "-c"},
		DirGlobs: []string{"bb-q*", "__pycache__", "*/__pycache__"},
		Patterns: []string{
			"webserver.py",      // web server helper (original form)
			"bufferbloat web",   // web server helper
			"iperf",             // bandwidth test server
			"bufferbloat probe", // kernel trace reader
			"trace_pipe",        // kernel trace reader (original form)
		},
		runner:   r,
		kill:     proc.KillPattern,
		pgrep:    proc.Pgrep,
		probeOff: p.Disable,
	}
}

// Run performs all cleanup steps. Failures are logged and swallowed, so
// cleanup is safe to run in any state, including twice in a row.
func (c *Cleaner) Run() {
	// release emulator-held interfaces and namespaces before removing files
	// the emulator might still be writing
	if err := c.runner.Run(c.CleanCmd[0], c.CleanCmd[1:]...); err != nil {
		log.Printf("clean emulator teardown: %s (ignored)", err)
	}

	for _, g := range c.DirGlobs {
		paths, err := filepath.Glob(filepath.Join(c.Base, g))
		if err != nil {
			log.Printf("clean glob %q: %s (ignored)", g, err)
			continue
		}
		for _, p := range paths {
			if err := os.RemoveAll(p); err != nil {
				log.Printf("clean remove %s: %s (ignored)", p, err)
			} else if c.Log {
				log.Printf("clean removed %s", p)
			}
		}
	}

	for _, pat := range c.Patterns {
		if c.Log {
			if pids, err := c.pgrep(pat); err == nil && len(pids) > 0 {
				log.Printf("clean found %q pids=%v", pat, pids)
			}
		}
		if err := c.kill(pat); err != nil {
			log.Printf("clean kill %q: %s (ignored)", pat, err)
		} else if c.Log {
			log.Printf("clean killed processes matching %q", pat)
		}
	}

	if err := c.probeOff(); err != nil {
		log.Printf("clean tcp_probe disable: %s (ignored)", err)
	}
}
