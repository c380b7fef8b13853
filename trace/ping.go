package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// A PingSample is one ping reply. Seq counts parsed replies rather than using
// icmp_seq, so gaps from lost probes don't stretch the series.
type PingSample struct {
	Seq   int
	RTTms float64
}

// ParsePing parses `ping` output from r, returning one sample per reply line.
// Lines without a reply or without a parsable time= token are skipped.
func ParsePing(r io.Reader) (ss []PingSample, err error) {
	sc := bufio.NewScanner(r)

	seq := 0
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "bytes from") {
			continue
		}

		for _, tok := range strings.Fields(line) {
			var v string
			var ok bool
			if v, ok = strings.CutPrefix(tok, "time="); !ok {
				continue
			}
			var rtt float64
			if rtt, err = strconv.ParseFloat(v, 64); err != nil {
				err = nil
				break
			}
			ss = append(ss, PingSample{seq, rtt})
			seq++
			break
		}
	}

	err = sc.Err()

	return
}
