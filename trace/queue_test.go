package trace_test

import (
	"strings"
	"testing"

	"github.com/heistp/bufferbloat/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const queueOutput = `1700000000.0,3
1700000000.1,15
1700000000.2,ms
garbage
1700000000.3,100
`

func TestParseQueue(t *testing.T) {
	ss, err := trace.ParseQueue(strings.NewReader(queueOutput))
	require.NoError(t, err)
	require.Len(t, ss, 4)

	assert.InDelta(t, 3.0, ss[0].Packets, 1e-9)
	assert.InDelta(t, 15.0, ss[1].Packets, 1e-9)
	// unit-only field reads as zero
	assert.Zero(t, ss[2].Packets)
	assert.InDelta(t, 100.0, ss[3].Packets, 1e-9)
}

func TestNormalizeQueue(t *testing.T) {
	ss, err := trace.ParseQueue(strings.NewReader(queueOutput))
	require.NoError(t, err)

	trace.NormalizeQueue(ss)
	assert.Zero(t, ss[0].T)
	assert.InDelta(t, 0.1, ss[1].T, 1e-6)
	assert.InDelta(t, 0.3, ss[3].T, 1e-6)
}

func TestEWMA(t *testing.T) {
	v := []float64{1, 1, 1}

	r := trace.EWMA(0, v)
	assert.Equal(t, v, r)

	r = trace.EWMA(0.5, v)
	require.Len(t, r, 3)
	assert.InDelta(t, 0.5, r[0], 1e-9)
	assert.InDelta(t, 0.75, r[1], 1e-9)
	assert.InDelta(t, 0.875, r[2], 1e-9)
}

func TestDownsample(t *testing.T) {
	v := []int{0, 1, 2, 3, 4, 5, 6}

	assert.Equal(t, v, trace.Downsample(v, 1))
	assert.Equal(t, []int{0, 2, 4, 6}, trace.Downsample(v, 2))
	assert.Equal(t, []int{0, 3, 6}, trace.Downsample(v, 3))
}
