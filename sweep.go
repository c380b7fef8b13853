package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/heistp/bufferbloat/analyzer"
	"github.com/heistp/bufferbloat/linux"
	"github.com/heistp/bufferbloat/metrics"
	"github.com/heistp/bufferbloat/proc"
	"github.com/heistp/bufferbloat/writer"
	"gonum.org/v1/gonum/stat"
)

// A Sweep runs one experiment per configured queue capacity: the emulation
// step, then the three plot steps, then the trace summary. Runs are strictly
// sequential since the emulator holds the host's network interfaces and
// namespaces for the duration of a run.
type Sweep struct {
	*SweepConfig
	runner   proc.Runner
	analyzer *analyzer.Analyzer
	stages   *metrics.Stages
	self     string // own binary, invoked for the plot subcommands

	noMetricsSave func() error
	setCong       func(algorithm string) error
}

func NewSweep(cfg *SweepConfig, r proc.Runner) *Sweep {
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}

	return &Sweep{
		SweepConfig: cfg,
		runner:      r,
		analyzer: analyzer.NewAnalyzer(analyzer.Config{
			Port:         cfg.Port,
			CumulantKind: stat.LinInterp,
			Log:          cfg.Log,
		}),
		stages:        &metrics.Stages{},
		self:          self,
		noMetricsSave: linux.SetNoMetricsSave,
		setCong:       linux.SetCongestionControl,
	}
}

// Run executes the sweep in the configured queue capacity order. The first
// failed step aborts the whole sweep: plotting after a failed emulation
// would silently process stale or absent traces.
func (s *Sweep) Run() (err error) {
	// cold congestion control state for every run
	if err := s.noMetricsSave(); err != nil {
		log.Printf("warning: %s (runs may reuse cached connection metrics)", err)
	}
	if err := s.setCong(s.Cong); err != nil {
		log.Printf("warning: %s (emulated hosts still receive --cong)", err)
	}

	for _, q := range s.MaxQs {
		if err = s.runOne(q); err != nil {
			return
		}
	}

	log.Printf("sweep done\n\n%s", s.stages.String())

	return
}

func (s *Sweep) runOne(maxq int) (err error) {
	dir := fmt.Sprintf(s.DirPattern, maxq)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}

	log.Printf("sweep maxq=%d dir=%s", maxq, dir)

	t0 := time.Now()
	name, args := s.emulateCmd(dir, maxq)
	if err = s.runner.Run(name, args...); err != nil {
		err = fmt.Errorf("emulation for maxq=%d: %w", maxq, err)
		return
	}
	s.stages.PushEmulate(time.Since(t0))

	t0 = time.Now()
	for _, p := range s.plotCmds(dir) {
		if err = s.runner.Run(s.self, p...); err != nil {
			err = fmt.Errorf("plot for maxq=%d: %w", maxq, err)
			return
		}
	}
	s.stages.PushPlot(time.Since(t0))

	t0 = time.Now()
	if err = s.summarize(dir, maxq); err != nil {
		err = fmt.Errorf("summary for maxq=%d: %w", maxq, err)
		return
	}
	s.stages.PushAnalyze(time.Since(t0))

	return
}

func (s *Sweep) emulateCmd(dir string, maxq int) (name string, args []string) {
	name = s.EmulateCmd[0]
	args = append(args, s.EmulateCmd[1:]...)
	args = append(args,
		fmt.Sprintf("--dir=%s", dir),
		fmt.Sprintf("--time=%d", s.Time),
		fmt.Sprintf("--bw-net=%g", s.BwNet),
		fmt.Sprintf("--delay=%g", s.Delay),
		fmt.Sprintf("--maxq=%d", maxq),
		fmt.Sprintf("--bw-host=%g", s.BwHost),
		fmt.Sprintf("--cong=%s", s.Cong),
	)
	return
}

func (s *Sweep) plotCmds(dir string) [][]string {
	return [][]string{
		{"plot-cwnd",
			"-f", filepath.Join(dir, "cwnd.txt"),
			"-o", filepath.Join(dir, "cwnd-iperf.png"),
			"-p", strconv.Itoa(int(s.Port))},
		{"plot-queue",
			"-f", filepath.Join(dir, "q.txt"),
			"-o", filepath.Join(dir, "q.png")},
		{"plot-ping",
			"-f", filepath.Join(dir, "ping.txt"),
			"-o", filepath.Join(dir, "rtt.png")},
	}
}

func (s *Sweep) summarize(dir string, maxq int) (err error) {
	var rs *analyzer.RunStats
	if rs, err = s.analyzer.Analyze(dir, maxq); err != nil {
		return
	}

	var w *writer.Writer
	if w, err = writer.Open(writer.Config{
		Path: filepath.Join(dir, "summary.json"),
		Log:  s.Log,
	}); err != nil {
		return
	}

	if err = w.Write(rs); err != nil {
		w.Close()
		return
	}
	err = w.Close()

	return
}
