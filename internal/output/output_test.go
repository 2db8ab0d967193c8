package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/cachesim/internal/cache"
	"github.com/tstromberg/cachesim/internal/engine"
)

func sampleReport() Report {
	sweeps := []engine.SweepResult{
		sweep(cache.FIFO, map[int]float64{2: 0.25, 4: 0.5}, 2, 4),
		sweep(cache.LRU, map[int]float64{2: 0.20, 4: 0.4}, 2, 4),
	}
	rankings, medals := ComputeRankings(sweeps)
	return Report{
		Timestamp:   "2026-01-02T03:04:05Z",
		MachineInfo: MachineInfo{OS: "linux", Arch: "amd64", NumCPU: 4, GoVersion: "go1.25.4", CommandLine: "cachesim compare"},
		Trace:       NewTraceInfo("inline", []cache.Block{1, 2, 1, 3}),
		MemorySize:  32,
		Capacities:  []int{2, 4},
		Sweeps:      sweeps,
		Medals:      medals,
		Rankings:    rankings,
	}
}

func TestRatio(t *testing.T) {
	var buf bytes.Buffer
	err := Ratio(&buf, engine.Result{Hits: 7, Total: 20, Ratio: 0.35})
	require.NoError(t, err)
	assert.Equal(t, "Hit Ratio = 7/20 = 0.350\n", buf.String())
}

func TestRatio_RoundsToThreeDecimals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Ratio(&buf, engine.Result{Hits: 2, Total: 3, Ratio: 2.0 / 3.0}))
	assert.Equal(t, "Hit Ratio = 2/3 = 0.667\n", buf.String())
}

func TestNewTraceInfo(t *testing.T) {
	info := NewTraceInfo("x.trace", []cache.Block{4, 4, 5, 6, 4})
	assert.Equal(t, "x.trace", info.Source)
	assert.Equal(t, 5, info.References)
	assert.Equal(t, 3, info.Distinct)
	assert.Len(t, info.Digest, 16)

	again := NewTraceInfo("other", []cache.Block{4, 4, 5, 6, 4})
	assert.Equal(t, info.Digest, again.Digest)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "trace: inline (4 refs, 3 distinct")
	assert.Contains(t, out, "| fifo          | 25.00% | 50.00% | 37.50% |")
	assert.Contains(t, out, "| lru           | 20.00% | 40.00% | 30.00% |")
	assert.Contains(t, out, "winner: fifo (37.50% avg, +25.00% vs lru)")
	assert.Less(t, strings.Index(out, "fifo"), strings.Index(out, "lru"), "best policy listed first")
}

func TestWriteText_Scenarios(t *testing.T) {
	rep := Report{Scenarios: []ScenarioResult{
		{Name: "ok", Result: &engine.Result{Hits: 1, Total: 4, Ratio: 0.25}},
		{Name: "broken", Error: "empty reference sequence"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, rep))
	assert.Equal(t, "ok: Hit Ratio = 1/4 = 0.250\nbroken: error: empty reference sequence\n", buf.String())
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleReport()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# cachesim Results\n"))
	assert.Contains(t, out, "Command: cachesim compare")
	assert.Contains(t, out, "## Hit Rate (memory size 32)")
	assert.Contains(t, out, "## Medals")
	assert.Contains(t, out, "|        2 | fifo | lru | - |")
	assert.Contains(t, out, "## Overall Rankings")
	assert.Contains(t, out, "|    1 | fifo          |    20 |    2 |      0 |      0 |")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded struct {
		Timestamp string `json:"timestamp"`
		Sweeps    []struct {
			Policy  string `json:"policy"`
			Results []struct {
				Capacity int     `json:"capacity"`
				Ratio    float64 `json:"ratio"`
			} `json:"results"`
		} `json:"sweeps"`
		Rankings []Ranking `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "2026-01-02T03:04:05Z", decoded.Timestamp)
	require.Len(t, decoded.Sweeps, 2)
	assert.Equal(t, "fifo", decoded.Sweeps[0].Policy)
	assert.Equal(t, "lru", decoded.Sweeps[1].Policy)
	assert.Equal(t, 4, decoded.Sweeps[0].Results[1].Capacity)
	require.Len(t, decoded.Rankings, 2)
	assert.Equal(t, "fifo", decoded.Rankings[0].Name)
}

func TestWriteJSON_SetsTimestamp(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Report{}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotEmpty(t, decoded["timestamp"])
}

func TestWrite(t *testing.T) {
	rep := sampleReport()
	for _, format := range append([]string{"", "md"}, Formats...) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, format, rep), format)
		assert.NotEmpty(t, buf.String(), format)
	}

	var buf bytes.Buffer
	err := Write(&buf, "yaml", rep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Empty(t, buf.String())
}

func TestWinnerLine(t *testing.T) {
	tests := []struct {
		name string
		fifo float64
		lru  float64
		want string
	}{
		{"clear winner", 0.5, 0.25, "winner: fifo (50.00% avg, +100.00% vs lru)"},
		{"lru wins", 0.3, 0.6, "winner: lru (60.00% avg, +100.00% vs fifo)"},
		{"runner-up never hits", 0.4, 0, "winner: fifo (40.00% avg, lru never hits)"},
		{"tie", 0.35, 0.35, "tie: [fifo lru] (35.00% avg)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sweeps := []engine.SweepResult{
				sweep(cache.FIFO, map[int]float64{4: tc.fifo}, 4),
				sweep(cache.LRU, map[int]float64{4: tc.lru}, 4),
			}
			assert.Equal(t, tc.want, winnerLine(sweeps))
		})
	}
}

func TestWinnerLine_SinglePolicy(t *testing.T) {
	sweeps := []engine.SweepResult{sweep(cache.LRU, map[int]float64{4: 0.5}, 4)}
	assert.Empty(t, winnerLine(sweeps))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteText_PropagatesWriteError(t *testing.T) {
	err := WriteText(failingWriter{}, sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
