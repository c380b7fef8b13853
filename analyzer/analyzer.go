// Package analyzer computes the per-run summary statistics written next to
// the plots.
package analyzer

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/heistp/bufferbloat/trace"
	"gonum.org/v1/gonum/stat"
)

// snsPcts are the seven-number summary percentiles
var snsPcts = [7]float64{0.02, 0.09, 0.25, 0.5, 0.75, 0.91, 0.98}

type Config struct {
	Port         uint16            // port identifying the bulk transfer flow
	SrcPort      bool              // if true, filter tcp_probe on source port
	CumulantKind stat.CumulantKind // cumulant for quantile calculations
	Log          bool              // if true, logging is enabled
}

// SeriesStats summarizes one trace series.
type SeriesStats struct {
	Samples int
	Min     float64
	Max     float64
	Mean    float64
	Stddev  float64
	P95     float64
	P99     float64
}

// A RunStats contains the statistics for one experiment run, saved as the
// run's summary output.
type RunStats struct {
	Dir            string      // run output directory
	MaxQ           int         // queue capacity used for the run
	RTTms          SeriesStats // ping round trip times, in milliseconds
	RTTSevenNumSum [7]float64  // RTT seven number summary
	CwndKB         SeriesStats // congestion window, in kilobytes
	QueuePackets   SeriesStats // bottleneck queue depth, in packets
}

type Analyzer struct {
	Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg}
}

// Analyze loads the three traces from the run directory and summarizes them.
// A trace with no parsable samples is an error.
func (a *Analyzer) Analyze(dir string, maxq int) (s *RunStats, err error) {
	t0 := time.Now()

	var evs []trace.ProbeEvent
	if evs, err = trace.LoadProbe(filepath.Join(dir, "cwnd.txt"),
		a.Port, a.SrcPort); err != nil {
		return
	}
	var pings []trace.PingSample
	if pings, err = trace.LoadPing(filepath.Join(dir, "ping.txt")); err != nil {
		return
	}
	var queue []trace.QueueSample
	if queue, err = trace.LoadQueue(filepath.Join(dir, "q.txt")); err != nil {
		return
	}

	if len(evs) == 0 {
		err = fmt.Errorf("%s: no tcp_probe events for port %d", dir, a.Port)
		return
	}
	if len(pings) == 0 {
		err = fmt.Errorf("%s: no ping samples", dir)
		return
	}
	if len(queue) == 0 {
		err = fmt.Errorf("%s: no queue samples", dir)
		return
	}

	rtts := make([]float64, len(pings))
	for i, p := range pings {
		rtts[i] = p.RTTms
	}
	cwnds := make([]float64, len(evs))
	for i, e := range evs {
		cwnds[i] = e.CwndKB
	}
	qlens := make([]float64, len(queue))
	for i, q := range queue {
		qlens[i] = q.Packets
	}

	s = &RunStats{
		Dir:            dir,
		MaxQ:           maxq,
		RTTms:          a.summarize(rtts),
		RTTSevenNumSum: a.sevenNumSum(rtts),
		CwndKB:         a.summarize(cwnds),
		QueuePackets:   a.summarize(qlens),
	}

	if a.Log {
		log.Printf("analyzer time=%s dir=%s rtt_mean=%.2fms queue_mean=%.1fpkts",
			time.Since(t0), dir, s.RTTms.Mean, s.QueuePackets.Mean)
	}

	return
}

func (a *Analyzer) summarize(v []float64) (s SeriesStats) {
	d := sorted(v)
	s.Samples = len(d)
	s.Min = d[0]
	s.Max = d[len(d)-1]
	s.Mean = stat.Mean(d, nil)
	if len(d) > 1 { // StdDev is NaN for one sample, which JSON can't encode
		s.Stddev = stat.StdDev(d, nil)
	}
	s.P95 = stat.Quantile(0.95, a.CumulantKind, d, nil)
	s.P99 = stat.Quantile(0.99, a.CumulantKind, d, nil)
	return
}

func (a *Analyzer) sevenNumSum(v []float64) (s [7]float64) {
	d := sorted(v)
	for i := 0; i < 7; i++ {
		s[i] = stat.Quantile(snsPcts[i], a.CumulantKind, d, nil)
	}
	return
}

func sorted(v []float64) (d []float64) {
	d = make([]float64, len(v))
	copy(d, v)
	sort.Float64s(d)
	return
}
