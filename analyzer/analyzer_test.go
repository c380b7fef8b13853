package analyzer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/heistp/bufferbloat/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

const cwndTrace = `           iperf-3184  [001] ..s.    10.000000: tcp_probe: family=AF_INET src=10.0.0.1:47732 dest=10.0.0.2:5001 snd_cwnd=10 srtt=12838
           iperf-3184  [001] ..s.    10.100000: tcp_probe: family=AF_INET src=10.0.0.1:47732 dest=10.0.0.2:5001 snd_cwnd=20 srtt=12710
           iperf-3184  [001] ..s.    10.200000: tcp_probe: family=AF_INET src=10.0.0.1:47732 dest=10.0.0.2:5001 snd_cwnd=40 srtt=12600
`

const pingTrace = `[1700000000.101] 64 bytes from 10.0.0.2: icmp_seq=1 ttl=64 time=2 ms
[1700000000.201] 64 bytes from 10.0.0.2: icmp_seq=2 ttl=64 time=4 ms
[1700000000.301] 64 bytes from 10.0.0.2: icmp_seq=3 ttl=64 time=6 ms
`

const queueTrace = `1700000000.0,10
1700000000.1,20
1700000000.2,30
`

func writeRun(t *testing.T, dir string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cwnd.txt"),
		[]byte(cwndTrace), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ping.txt"),
		[]byte(pingTrace), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q.txt"),
		[]byte(queueTrace), 0644))
}

func newAnalyzer() *analyzer.Analyzer {
	return analyzer.NewAnalyzer(analyzer.Config{
		Port:         5001,
		CumulantKind: stat.LinInterp,
	})
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir)

	s, err := newAnalyzer().Analyze(dir, 100)
	require.NoError(t, err)

	assert.Equal(t, dir, s.Dir)
	assert.Equal(t, 100, s.MaxQ)

	assert.Equal(t, 3, s.RTTms.Samples)
	assert.InDelta(t, 2.0, s.RTTms.Min, 1e-9)
	assert.InDelta(t, 6.0, s.RTTms.Max, 1e-9)
	assert.InDelta(t, 4.0, s.RTTms.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.RTTms.Stddev, 1e-9)

	assert.Equal(t, 3, s.CwndKB.Samples)
	assert.InDelta(t, 10*1480/1024.0, s.CwndKB.Min, 1e-9)
	assert.InDelta(t, 40*1480/1024.0, s.CwndKB.Max, 1e-9)

	assert.Equal(t, 3, s.QueuePackets.Samples)
	assert.InDelta(t, 20.0, s.QueuePackets.Mean, 1e-9)
	assert.GreaterOrEqual(t, s.QueuePackets.P99, s.QueuePackets.P95)

	// seven number summary is non-decreasing and within range
	sns := s.RTTSevenNumSum
	for i := 1; i < len(sns); i++ {
		assert.GreaterOrEqual(t, sns[i], sns[i-1])
	}
	assert.GreaterOrEqual(t, sns[0], s.RTTms.Min)
	assert.LessOrEqual(t, sns[6], s.RTTms.Max)
}

func TestAnalyzeMissingTrace(t *testing.T) {
	dir := t.TempDir()
	_, err := newAnalyzer().Analyze(dir, 20)
	require.Error(t, err)
}

func TestAnalyzeNoMatchingEvents(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir)

	a := analyzer.NewAnalyzer(analyzer.Config{
		Port:         9999,
		CumulantKind: stat.LinInterp,
	})
	_, err := a.Analyze(dir, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tcp_probe events")
}
