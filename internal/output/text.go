package output

import (
	"fmt"
	"io"
)

// WriteText writes the report as terminal tables.
func WriteText(out io.Writer, rep Report) error {
	ew := &errWriter{w: out}
	w := ew.printf

	if rep.Trace != nil {
		w("  trace: %s (%d refs, %d distinct, digest %s)\n\n",
			rep.Trace.Source, rep.Trace.References, rep.Trace.Distinct, rep.Trace.Digest)
	}

	if len(rep.Sweeps) > 0 {
		w("  | Policy        |")
		for _, c := range rep.Capacities {
			w(" %6d |", c)
		}
		w("    Avg |\n")

		w("  |---------------|")
		for range rep.Capacities {
			w("--------|")
		}
		w("--------|\n")

		for _, s := range sortedSweeps(rep.Sweeps) {
			w("  | %-13s |", s.Policy)
			for _, c := range rep.Capacities {
				w(" %5.2f%% |", Percent(s.Ratio(c)))
			}
			w(" %5.2f%% |\n", Percent(s.AvgRatio()))
		}

		if line := winnerLine(rep.Sweeps); line != "" {
			w("\n  %s\n", line)
		}
		w("\n")
	}

	for _, s := range rep.Scenarios {
		if s.Result == nil {
			w("%s: error: %s\n", s.Name, s.Error)
			continue
		}
		w("%s: Hit Ratio = %d/%d = %.3f\n", s.Name, s.Result.Hits, s.Result.Total, s.Result.Ratio)
	}

	return ew.err
}

// errWriter keeps the first write error so table code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
