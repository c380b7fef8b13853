package plot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/heistp/bufferbloat/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cwndTrace = `           iperf-3184  [001] ..s.    10.000000: tcp_probe: family=AF_INET src=10.0.0.1:47732 dest=10.0.0.2:5001 snd_cwnd=10 srtt=12838
           iperf-3184  [001] ..s.    10.100000: tcp_probe: family=AF_INET src=10.0.0.1:47732 dest=10.0.0.2:5001 snd_cwnd=20 srtt=12710
           iperf-3185  [000] ..s.    10.200000: tcp_probe: family=AF_INET src=10.0.0.1:47734 dest=10.0.0.2:5001 snd_cwnd=5 srtt=12600
`

const pingTrace = `[1700000000.101] 64 bytes from 10.0.0.2: icmp_seq=1 ttl=64 time=2.05 ms
[1700000000.201] 64 bytes from 10.0.0.2: icmp_seq=2 ttl=64 time=12.3 ms
[1700000000.301] 64 bytes from 10.0.0.2: icmp_seq=3 ttl=64 time=150 ms
`

const queueTrace = `1700000000.0,3
1700000000.1,15
1700000000.2,100
1700000000.3,80
`

func writeTrace(t *testing.T, dir, name, data string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func requirePNG(t *testing.T, path string) {
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
}

func TestCwnd(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.txt", cwndTrace)
	out := filepath.Join(dir, "cwnd-iperf.png")

	require.NoError(t, plot.Cwnd(in, 5001, false, out))
	requirePNG(t, out)
}

func TestCwndNoEvents(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.txt", cwndTrace)
	out := filepath.Join(dir, "cwnd-iperf.png")

	err := plot.Cwnd(in, 9999, false, out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestCwndHist(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.txt", cwndTrace)
	out := filepath.Join(dir, "cwnd-hist.png")

	require.NoError(t, plot.CwndHist(in, 5001, false, out))
	requirePNG(t, out)
}

func TestCwndHistNoEvents(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.txt", cwndTrace)
	out := filepath.Join(dir, "cwnd-hist.png")

	err := plot.CwndHist(in, 9999, false, out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestQueue(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "q.txt", queueTrace)
	out := filepath.Join(dir, "q.png")

	require.NoError(t, plot.Queue(in, 1, 0, out))
	requirePNG(t, out)
}

func TestQueueSmoothedDownsampled(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "q.txt", queueTrace)
	out := filepath.Join(dir, "q.png")

	require.NoError(t, plot.Queue(in, 2, 0.5, out))
	requirePNG(t, out)
}

func TestPing(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "ping.txt", pingTrace)
	out := filepath.Join(dir, "rtt.png")

	require.NoError(t, plot.Ping(in, 10, out))
	requirePNG(t, out)
}
