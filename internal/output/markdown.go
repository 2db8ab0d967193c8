package output

import (
	"io"
	"strings"
)

// WriteMarkdown writes the report as Markdown.
func WriteMarkdown(out io.Writer, rep Report) error {
	ew := &errWriter{w: out}
	w := ew.printf

	w("# cachesim Results\n\n")
	w("```\n")
	if rep.MachineInfo.CommandLine != "" {
		w("Command: %s\n", rep.MachineInfo.CommandLine)
	}
	w("Environment: %s/%s, %d CPUs, %s\n", rep.MachineInfo.OS, rep.MachineInfo.Arch, rep.MachineInfo.NumCPU, rep.MachineInfo.GoVersion)
	if rep.Trace != nil {
		w("Trace: %s (%d refs, %d distinct, digest %s)\n", rep.Trace.Source, rep.Trace.References, rep.Trace.Distinct, rep.Trace.Digest)
	}
	w("```\n\n")

	if len(rep.Sweeps) > 0 {
		w("## Hit Rate (memory size %d)\n\n", rep.MemorySize)

		w("| Policy        |")
		for _, c := range rep.Capacities {
			w(" %6d |", c)
		}
		w("    Avg |\n")

		w("|---------------|")
		for range rep.Capacities {
			w("--------|")
		}
		w("--------|\n")

		for _, s := range sortedSweeps(rep.Sweeps) {
			w("| %-13s |", s.Policy)
			for _, c := range rep.Capacities {
				w(" %5.2f%% |", Percent(s.Ratio(c)))
			}
			w(" %5.2f%% |\n", Percent(s.AvgRatio()))
		}

		if line := winnerLine(rep.Sweeps); line != "" {
			w("\n%s\n", line)
		}
		w("\n")
	}

	if len(rep.Medals) > 0 {
		w("## Medals\n\n")
		w("| Capacity | Gold | Silver | Bronze |\n")
		w("|----------|------|--------|--------|\n")
		for _, m := range rep.Medals {
			w("| %8d | %s | %s | %s |\n", m.Capacity, joinOrDash(m.Gold), joinOrDash(m.Silver), joinOrDash(m.Bronze))
		}
		w("\n")
	}

	if len(rep.Rankings) > 0 {
		w("## Overall Rankings\n\n")
		w("| Rank | Policy        | Score | Gold | Silver | Bronze |\n")
		w("|------|---------------|-------|------|--------|--------|\n")
		for _, r := range rep.Rankings {
			w("| %4d | %-13s | %5.0f | %4d | %6d | %6d |\n", r.Rank, r.Name, r.Score, r.Gold, r.Silver, r.Bronze)
		}
		w("\n")
	}

	if len(rep.Scenarios) > 0 {
		w("## Scenarios\n\n")
		w("| Scenario | Policy | Capacity | Memory | Hits | Total | Ratio |\n")
		w("|----------|--------|----------|--------|------|-------|-------|\n")
		for _, s := range rep.Scenarios {
			if s.Result == nil {
				w("| %s | - | - | - | - | - | error: %s |\n", s.Name, s.Error)
				continue
			}
			r := s.Result
			w("| %s | %s | %d | %d | %d | %d | %.3f |\n", s.Name, r.Policy, r.Capacity, r.MemorySize, r.Hits, r.Total, r.Ratio)
		}
		w("\n")
	}

	return ew.err
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
