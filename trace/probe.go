package trace

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
)

// MSS is the segment size used to convert snd_cwnd from segments to bytes.
const MSS = 1480

// A ProbeEvent is one tcp_probe tracepoint record, reduced to the fields the
// harness uses.
type ProbeEvent struct {
	T       float64 // trace timestamp in seconds
	SrcPort uint16  // source (sender) port
	DstPort uint16  // destination (receiver) port
	CwndKB  float64 // congestion window in kilobytes
}

// ParseProbe parses tcp_probe records from r, keeping only events whose
// destination port matches port, or whose source port matches if srcPort is
// true. Lines that are not tcp_probe records, or records with unparsable
// fields, are skipped.
//
// A record looks like:
//
//	iperf-3184 [001] ..s. 83.126373: tcp_probe: family=AF_INET src=10.0.0.1:5001 dest=10.0.0.2:47732 ... snd_cwnd=10 ...
func ParseProbe(r io.Reader, port uint16, srcPort bool) (evs []ProbeEvent, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()

		var header, probe string
		var ok bool
		if header, probe, ok = strings.Cut(line, "tcp_probe:"); !ok {
			continue
		}

		hf := strings.Fields(header)
		if len(hf) < 4 {
			continue
		}

		var t float64
		if t, err = strconv.ParseFloat(
			strings.TrimSuffix(hf[len(hf)-1], ":"), 64); err != nil {
			err = nil
			continue
		}

		kv := make(map[string]string)
		for _, tok := range strings.Fields(probe) {
			if k, v, ok := strings.Cut(tok, "="); ok {
				kv[k] = v
			}
		}

		var sport, dport uint16
		if sport, ok = addrPort(kv["src"]); !ok {
			continue
		}
		if dport, ok = addrPort(kv["dest"]); !ok {
			continue
		}

		target := dport
		if srcPort {
			target = sport
		}
		if target != port {
			continue
		}

		var cwnd uint64
		if cwnd, err = strconv.ParseUint(kv["snd_cwnd"], 10, 32); err != nil {
			err = nil
			continue
		}

		evs = append(evs, ProbeEvent{t, sport, dport,
			float64(cwnd) * MSS / 1024.0})
	}

	err = sc.Err()

	return
}

// addrPort returns the port of an ip:port value.
func addrPort(addr string) (port uint16, ok bool) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return
	}
	p, err := strconv.ParseUint(addr[i+1:], 10, 16)
	if err != nil {
		return
	}
	port = uint16(p)
	ok = true
	return
}

// Normalize rebases event timestamps so the earliest event is at time zero.
func Normalize(evs []ProbeEvent) {
	if len(evs) == 0 {
		return
	}
	t0 := evs[0].T
	for _, e := range evs {
		if e.T < t0 {
			t0 = e.T
		}
	}
	for i := range evs {
		evs[i].T -= t0
	}
}

// BySrcPort groups events per source port, preserving order.
func BySrcPort(evs []ProbeEvent) map[uint16][]ProbeEvent {
	m := make(map[uint16][]ProbeEvent)
	for _, e := range evs {
		m[e.SrcPort] = append(m[e.SrcPort], e)
	}
	return m
}

// SrcPorts returns the distinct source ports in ascending order.
func SrcPorts(evs []ProbeEvent) (ports []uint16) {
	seen := make(map[uint16]bool)
	for _, e := range evs {
		if !seen[e.SrcPort] {
			seen[e.SrcPort] = true
			ports = append(ports, e.SrcPort)
		}
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return
}

// SumCwnd merges the per-port cwnd series into one running total: at each
// event, the latest cwnd seen for each port is summed.
func SumCwnd(evs []ProbeEvent) (sum []Point) {
	if len(evs) == 0 {
		return
	}

	sorted := make([]ProbeEvent, len(evs))
	copy(sorted, evs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].T < sorted[j].T
	})

	var total float64
	latest := make(map[uint16]float64)
	sum = make([]Point, 0, len(sorted))

	for _, e := range sorted {
		total -= latest[e.SrcPort]
		total += e.CwndKB
		latest[e.SrcPort] = e.CwndKB
		sum = append(sum, Point{e.T, total})
	}

	return
}
