package metrics

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

// DurationStats keeps basic time.Duration statistics. Welford's method is used
// to keep a running mean and standard deviation.
type DurationStats struct {
	Total time.Duration
	N     uint
	Min   time.Duration
	Max   time.Duration
	s     float64
	mean  float64
}

func (s *DurationStats) Push(d time.Duration) {
	if s.N == 0 {
		s.Min = d
		s.Max = d
		s.Total = d
	} else {
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
		s.Total += d
	}
	s.N++
	om := s.mean
	fd := float64(d)
	s.mean += (fd - om) / float64(s.N)
	s.s += (fd - om) * (fd - s.mean)
}

func (s *DurationStats) IsZero() bool {
	return s.N == 0
}

func (s *DurationStats) Mean() time.Duration {
	return time.Duration(s.mean)
}

func (s *DurationStats) Variance() float64 {
	if s.N > 1 {
		return s.s / float64(s.N-1)
	}
	return 0.0
}

func (s *DurationStats) Stddev() time.Duration {
	return time.Duration(math.Sqrt(s.Variance()))
}

// Stages keeps per-stage duration statistics for one sweep: the emulation
// runs, the plot generation steps and the trace analysis steps.
type Stages struct {
	EmulateTimes DurationStats
	PlotTimes    DurationStats
	AnalyzeTimes DurationStats
	sync.RWMutex
}

func (s *Stages) PushEmulate(d time.Duration) {
	s.Lock()
	defer s.Unlock()
	s.EmulateTimes.Push(d)
}

func (s *Stages) PushPlot(d time.Duration) {
	s.Lock()
	defer s.Unlock()
	s.PlotTimes.Push(d)
}

func (s *Stages) PushAnalyze(d time.Duration) {
	s.Lock()
	defer s.Unlock()
	s.AnalyzeTimes.Push(d)
}

// String returns a table of the stage times, in milliseconds.
func (s *Stages) String() string {
	s.RLock()
	defer s.RUnlock()

	sb := &strings.Builder{}
	w := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Stage\tRuns\tMin\tMean\tMax\tStddev\n")
	row := func(name string, d *DurationStats) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
			name, d.N, ms(d.Min), ms(d.Mean()), ms(d.Max), ms(d.Stddev()))
	}
	row("Emulate", &s.EmulateTimes)
	row("Plot", &s.PlotTimes)
	row("Analyze", &s.AnalyzeTimes)
	w.Flush()

	return sb.String()
}

func ms(d time.Duration) int64 {
	return int64(d) / 1e6
}
