package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// A QueueSample is one bottleneck queue occupancy sample.
type QueueSample struct {
	T       float64 // sample timestamp in seconds
	Packets float64 // queue depth in packets
}

// ParseQueue parses comma-delimited `<timestamp>,<qlen>` records from r.
// Empty or unit-only fields (the queue monitor sometimes emits "ms" or "s")
// are read as zero; otherwise unparsable lines are skipped.
func ParseQueue(r io.Reader) (ss []QueueSample, err error) {
	sc := bufio.NewScanner(r)

	for sc.Scan() {
		fields := strings.Split(strings.TrimSpace(sc.Text()), ",")
		if len(fields) < 2 {
			continue
		}

		var t, q float64
		var ok bool
		if t, ok = queueField(fields[0]); !ok {
			continue
		}
		if q, ok = queueField(fields[1]); !ok {
			continue
		}

		ss = append(ss, QueueSample{t, q})
	}

	err = sc.Err()

	return
}

func queueField(s string) (v float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "ms" || s == "s" {
		ok = true
		return
	}
	var err error
	if v, err = strconv.ParseFloat(s, 64); err != nil {
		return
	}
	ok = true
	return
}

// NormalizeQueue rebases sample timestamps so the first sample is at time
// zero.
func NormalizeQueue(ss []QueueSample) {
	if len(ss) == 0 {
		return
	}
	t0 := ss[0].T
	for i := range ss {
		ss[i].T -= t0
	}
}
