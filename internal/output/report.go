// Package output provides result formatting and export.
package output

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/tstromberg/cachesim/internal/cache"
	"github.com/tstromberg/cachesim/internal/engine"
	"github.com/tstromberg/cachesim/internal/trace"
)

// Formats lists the report formats accepted by Write.
var Formats = []string{"text", "json", "markdown"}

// ErrUnknownFormat is returned by Write for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Write renders rep in the named format.
func Write(w io.Writer, format string, rep Report) error {
	switch format {
	case "text", "":
		return WriteText(w, rep)
	case "json":
		return WriteJSON(w, rep)
	case "markdown", "md":
		return WriteMarkdown(w, rep)
	}
	return fmt.Errorf("%w: %q (want one of %v)", ErrUnknownFormat, format, Formats)
}

// Report holds everything a compare or batch run produced.
type Report struct {
	Timestamp   string               `json:"timestamp"`
	MachineInfo MachineInfo          `json:"machine"`
	Trace       *TraceInfo           `json:"trace,omitempty"`
	MemorySize  int                  `json:"memory_size,omitempty"`
	Capacities  []int                `json:"capacities,omitempty"`
	Sweeps      []engine.SweepResult `json:"sweeps,omitempty"`
	Medals      []CapacityMedal      `json:"medals,omitempty"`
	Rankings    []Ranking            `json:"rankings,omitempty"`
	Scenarios   []ScenarioResult     `json:"scenarios,omitempty"`
}

// MachineInfo holds information about the simulation environment.
type MachineInfo struct {
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	NumCPU      int    `json:"num_cpu"`
	GoVersion   string `json:"go_version"`
	CommandLine string `json:"command_line"`
}

// CurrentMachine describes the running process.
func CurrentMachine(commandLine string) MachineInfo {
	return MachineInfo{
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		GoVersion:   runtime.Version(),
		CommandLine: commandLine,
	}
}

// TraceInfo summarizes the reference sequence a report was computed from.
type TraceInfo struct {
	Source     string `json:"source"`
	References int    `json:"references"`
	Distinct   int    `json:"distinct"`
	Digest     string `json:"digest"`
}

// NewTraceInfo summarizes refs.
func NewTraceInfo(source string, refs []cache.Block) *TraceInfo {
	seen := make(map[cache.Block]struct{}, len(refs))
	for _, b := range refs {
		seen[b] = struct{}{}
	}
	return &TraceInfo{
		Source:     source,
		References: len(refs),
		Distinct:   len(seen),
		Digest:     fmt.Sprintf("%016x", trace.Digest(refs)),
	}
}

// ScenarioResult is the outcome of one batch scenario. Exactly one of Result
// and Error is set.
type ScenarioResult struct {
	Name   string         `json:"name"`
	Result *engine.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Ratio writes the single-run summary line.
func Ratio(w io.Writer, r engine.Result) error {
	_, err := fmt.Fprintf(w, "Hit Ratio = %d/%d = %.3f\n", r.Hits, r.Total, r.Ratio)
	return err
}

// Percent converts a hit ratio to a percentage.
func Percent(ratio float64) float64 {
	return ratio * 100
}

// sortedSweeps returns sweeps ordered by average hit ratio, best first.
func sortedSweeps(sweeps []engine.SweepResult) []engine.SweepResult {
	sorted := make([]engine.SweepResult, len(sweeps))
	copy(sorted, sweeps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AvgRatio() > sorted[j].AvgRatio()
	})
	return sorted
}
