package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tstromberg/cachesim/internal/config"
	"github.com/tstromberg/cachesim/internal/engine"
	"github.com/tstromberg/cachesim/internal/output"
)

type batchOptions struct {
	format string
	out    string
	strict bool
}

func newBatchCmd() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <scenarios.yaml>",
		Short: "Run every scenario in a YAML file",
		Long: `Run each scenario from a YAML file and print one hit ratio per scenario.
A scenario that fails is reported in place and does not stop the others.

Example scenario file:
  scenarios:
    - name: small-fifo
      capacity: 8
      memory_size: 32
      policy: F
      references: [1, 2, 3, 1, 4, 2]
    - name: zipf-lru
      capacity: 16
      memory_size: 128
      policy: L
      zipf: {count: 10000, alpha: 0.8, seed: 42}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: "+strings.Join(output.Formats, ", "))
	cmd.Flags().StringVar(&opts.out, "out", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero if any scenario fails")
	return cmd
}

func runBatch(cmd *cobra.Command, path string, opts *batchOptions) error {
	f, err := config.Load(path)
	if err != nil {
		return err
	}

	results, failed := runScenarios(cmd.Context(), f.Scenarios)
	rep := output.Report{
		MachineInfo: output.CurrentMachine(strings.Join(os.Args, " ")),
		Scenarios:   results,
	}
	if err := writeReport(cmd.OutOrStdout(), opts.out, opts.format, rep); err != nil {
		return err
	}
	if opts.strict && failed > 0 {
		return &scenarioFailures{count: failed, total: len(results)}
	}
	return nil
}

// runScenarios simulates every scenario, a few at a time. Results keep the
// file order.
func runScenarios(ctx context.Context, scenarios []config.Scenario) ([]output.ScenarioResult, int) {
	results := make([]output.ScenarioResult, len(scenarios))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, s := range scenarios {
		g.Go(func() error {
			results[i] = runScenario(ctx, s)
			return nil
		})
	}
	_ = g.Wait() // scenario errors are recorded in results

	failed := 0
	for _, r := range results {
		if r.Result == nil {
			failed++
		}
	}
	return results, failed
}

func runScenario(ctx context.Context, s config.Scenario) output.ScenarioResult {
	log := logrus.WithField("scenario", s.Name)
	if err := ctx.Err(); err != nil {
		return output.ScenarioResult{Name: s.Name, Error: err.Error()}
	}

	req, err := s.Request()
	if err != nil {
		log.WithError(err).Warn("scenario rejected")
		return output.ScenarioResult{Name: s.Name, Error: err.Error()}
	}

	res, err := engine.Run(req)
	if err != nil {
		log.WithError(err).Warn("scenario failed")
		return output.ScenarioResult{Name: s.Name, Error: err.Error()}
	}

	log.WithFields(logrus.Fields{
		"policy": res.Policy,
		"hits":   res.Hits,
		"total":  res.Total,
	}).Debug("scenario complete")
	return output.ScenarioResult{Name: s.Name, Result: &res}
}

// scenarioFailures reports how many batch scenarios did not produce a result.
type scenarioFailures struct {
	count, total int
}

func (e *scenarioFailures) Error() string {
	return fmt.Sprintf("%d of %d scenarios failed", e.count, e.total)
}
