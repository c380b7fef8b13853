// Package plot renders the three experiment plots: congestion window, queue
// occupancy and ping RTT. Rendering is delegated to gonum/plot; this package
// only shapes the parsed traces into series.
package plot

import (
	"fmt"
	"image/color"
	"log"

	"github.com/heistp/bufferbloat/trace"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Figure size, matching the original 16x6 inch plots.
const (
	width  = 16 * vg.Inch
	height = 6 * vg.Inch
)

// histBins is the bin count for the cwnd histogram.
const histBins = 20

// Cwnd renders the per-port congestion window series from a tcp_probe trace,
// plus the merged sum over all ports, and saves the plot to outPath.
func Cwnd(tracePath string, port uint16, srcPort bool, outPath string) (err error) {
	var evs []trace.ProbeEvent
	if evs, err = trace.LoadProbe(tracePath, port, srcPort); err != nil {
		return
	}
	if len(evs) == 0 {
		err = fmt.Errorf("%s: no tcp_probe events for port %d", tracePath, port)
		return
	}
	trace.Normalize(evs)

	p := gplot.New()
	p.Title.Text = "TCP congestion window timeseries"
	p.X.Label.Text = "seconds"
	p.Y.Label.Text = "cwnd (KB)"
	p.Add(plotter.NewGrid())

	byPort := trace.BySrcPort(evs)
	ports := trace.SrcPorts(evs)
	for i, sp := range ports {
		var l *plotter.Line
		if l, err = plotter.NewLine(eventXYs(byPort[sp])); err != nil {
			return
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("port %d", sp), l)
	}

	var sl *plotter.Line
	if sl, err = plotter.NewLine(pointXYs(trace.SumCwnd(evs))); err != nil {
		return
	}
	sl.Color = plotutil.Color(len(ports))
	sl.Width = vg.Points(2)
	p.Add(sl)
	p.Legend.Add("sum cwnd", sl)

	log.Printf("saving to %s", outPath)
	err = p.Save(width, height, outPath)

	return
}

// CwndHist renders a histogram of the merged sum-cwnd series from a
// tcp_probe trace and saves the plot to outPath.
func CwndHist(tracePath string, port uint16, srcPort bool, outPath string) (err error) {
	var evs []trace.ProbeEvent
	if evs, err = trace.LoadProbe(tracePath, port, srcPort); err != nil {
		return
	}
	if len(evs) == 0 {
		err = fmt.Errorf("%s: no tcp_probe events for port %d", tracePath, port)
		return
	}

	sum := trace.SumCwnd(evs)
	vals := make(plotter.Values, len(sum))
	for i, pt := range sum {
		vals[i] = pt.Y
	}

	p := gplot.New()
	p.Title.Text = "TCP congestion window histogram"
	p.X.Label.Text = "cwnd (KB)"
	p.Y.Label.Text = "samples"

	var h *plotter.Histogram
	if h, err = plotter.NewHist(vals, histBins); err != nil {
		return
	}
	p.Add(h)

	log.Printf("saving to %s", outPath)
	err = p.Save(width, height, outPath)

	return
}

// Queue renders queue occupancy over time and saves the plot to outPath.
// every downsamples to one of every n points, and alpha applies EWMA
// smoothing when non-zero.
func Queue(tracePath string, every int, alpha float64, outPath string) (err error) {
	var ss []trace.QueueSample
	if ss, err = trace.LoadQueue(tracePath); err != nil {
		return
	}
	if len(ss) == 0 {
		err = fmt.Errorf("%s: no queue length data", tracePath)
		return
	}
	trace.NormalizeQueue(ss)
	ss = trace.Downsample(ss, every)

	qlens := make([]float64, len(ss))
	for i, s := range ss {
		qlens[i] = s.Packets
	}
	qlens = trace.EWMA(alpha, qlens)

	xys := make(plotter.XYs, len(ss))
	for i, s := range ss {
		xys[i] = plotter.XY{X: s.T, Y: qlens[i]}
	}

	p := gplot.New()
	p.X.Label.Text = "Seconds"
	p.Y.Label.Text = "Packets"
	p.Add(plotter.NewGrid())

	var l *plotter.Line
	if l, err = plotter.NewLine(xys); err != nil {
		return
	}
	l.Color = color.RGBA{R: 255, A: 255}
	p.Add(l)

	log.Printf("saving to %s", outPath)
	err = p.Save(width, height, outPath)

	return
}

// Ping renders ping RTTs over time and saves the plot to outPath. freq is
// the probe frequency per second, used to scale reply counts to seconds.
func Ping(tracePath string, freq int, outPath string) (err error) {
	var ss []trace.PingSample
	if ss, err = trace.LoadPing(tracePath); err != nil {
		return
	}
	if len(ss) == 0 {
		err = fmt.Errorf("%s: no ping data", tracePath)
		return
	}

	xys := make(plotter.XYs, len(ss))
	s0 := float64(ss[0].Seq)
	for i, s := range ss {
		xys[i] = plotter.XY{
			X: (float64(s.Seq) - s0) / float64(freq),
			Y: s.RTTms,
		}
	}

	p := gplot.New()
	p.X.Label.Text = "Seconds"
	p.Y.Label.Text = "RTT (ms)"
	p.Add(plotter.NewGrid())

	var l *plotter.Line
	if l, err = plotter.NewLine(xys); err != nil {
		return
	}
	l.Width = vg.Points(2)
	p.Add(l)
	p.Legend.Add(tracePath, l)

	log.Printf("saving to %s", outPath)
	err = p.Save(width, height, outPath)

	return
}

func eventXYs(evs []trace.ProbeEvent) (xys plotter.XYs) {
	xys = make(plotter.XYs, len(evs))
	for i, e := range evs {
		xys[i] = plotter.XY{X: e.T, Y: e.CwndKB}
	}
	return
}

func pointXYs(pts []trace.Point) (xys plotter.XYs) {
	xys = make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return
}
