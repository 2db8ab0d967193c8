package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tstromberg/cachesim/internal/cache"
	"github.com/tstromberg/cachesim/internal/engine"
	"github.com/tstromberg/cachesim/internal/output"
	"github.com/tstromberg/cachesim/internal/trace"
	"github.com/tstromberg/cachesim/internal/workload"
)

var errNoSource = errors.New("choose exactly one of --refs, --trace, --zipf, --loop")

// sourceOptions selects where a reference sequence comes from.
type sourceOptions struct {
	refs  []int   // inline block numbers
	trace string  // trace file path
	zipf  int     // number of Zipf references
	alpha float64 // Zipf skew
	seed  uint64  // Zipf seed
	loop  int     // number of loop references
	span  int     // loop length in blocks; 0 means the whole memory
}

func (o *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntSliceVar(&o.refs, "refs", nil, "Comma-separated block references")
	cmd.Flags().StringVar(&o.trace, "trace", "", "Trace file of block references (.zst/.zstd are decompressed)")
	cmd.Flags().IntVar(&o.zipf, "zipf", 0, "Generate this many Zipf-distributed references")
	cmd.Flags().Float64Var(&o.alpha, "alpha", 0.8, "Zipf skew, between 0 and 1 exclusive")
	cmd.Flags().Uint64Var(&o.seed, "seed", 42, "Seed for generated references")
	cmd.Flags().IntVar(&o.loop, "loop", 0, "Generate this many references cycling over --span blocks")
	cmd.Flags().IntVar(&o.span, "span", 0, "Loop length in blocks (default: memory size)")
}

// blocks materializes the selected source and names it for reports.
func (o *sourceOptions) blocks(memorySize int) ([]cache.Block, string, error) {
	sources := 0
	for _, set := range []bool{len(o.refs) > 0, o.trace != "", o.zipf > 0, o.loop > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, "", errNoSource
	}

	switch {
	case o.trace != "":
		refs, err := trace.Load(o.trace)
		return refs, o.trace, err
	case o.zipf > 0:
		if o.alpha <= 0 || o.alpha >= 1 {
			return nil, "", fmt.Errorf("--alpha must be between 0 and 1 exclusive, got %v", o.alpha)
		}
		return workload.GenerateZipf(o.zipf, memorySize, o.alpha, o.seed),
			fmt.Sprintf("zipf(n=%d, alpha=%g, seed=%d)", o.zipf, o.alpha, o.seed), nil
	case o.loop > 0:
		span := o.span
		if span <= 0 {
			span = memorySize
		}
		return workload.GenerateLoop(o.loop, span), fmt.Sprintf("loop(n=%d, span=%d)", o.loop, span), nil
	}

	refs := make([]cache.Block, len(o.refs))
	for i, r := range o.refs {
		refs[i] = cache.Block(r)
	}
	return refs, "inline", nil
}

type compareOptions struct {
	source     sourceOptions
	memorySize int
	capacities []int
	policies   []string
	format     string
	out        string
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare replacement policies across cache capacities",
		Long: `Run every selected policy over one reference sequence at each capacity
and rank the policies by hit ratio.

Examples:
  cachesim compare --refs 1,2,3,1,4,2,12,5,3,6 --memory 32 --capacities 2,4,8
  cachesim compare --zipf 100000 --alpha 0.9 --format markdown
  cachesim compare --trace refs.txt.zst --format json --out report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().IntVar(&opts.memorySize, "memory", 128, "Main memory size in blocks (32, 64 or 128)")
	cmd.Flags().IntSliceVar(&opts.capacities, "capacities", nil, "Comma-separated cache capacities to sweep (default: 1,2,4,...,memory/4)")
	cmd.Flags().StringSliceVar(&opts.policies, "policies", nil, "Policies to compare, F and/or L (default: all)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: "+strings.Join(output.Formats, ", "))
	cmd.Flags().StringVar(&opts.out, "out", "", "Write the report to this file instead of stdout")
	return cmd
}

// defaultCapacities sweeps powers of two up to the largest capacity the
// memory size allows.
func defaultCapacities(memorySize int) []int {
	var out []int
	for c := 1; c <= engine.MaxCapacity(memorySize); c *= 2 {
		out = append(out, c)
	}
	return out
}

func runCompare(cmd *cobra.Command, opts *compareOptions) error {
	kinds, err := cache.Select(opts.policies)
	if err != nil {
		return err
	}
	if !engine.ValidMemorySize(opts.memorySize) {
		return fmt.Errorf("--memory must be one of %v, got %d", engine.MemorySizes, opts.memorySize)
	}

	capacities := opts.capacities
	if !cmd.Flags().Changed("capacities") {
		capacities = defaultCapacities(opts.memorySize)
	}
	if len(capacities) == 0 {
		return errors.New("--capacities needs at least one value")
	}

	refs, source, err := opts.source.blocks(opts.memorySize)
	if err != nil {
		return err
	}
	req, err := engine.NewRequest(capacities[0], opts.memorySize, kinds[0], refs)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"source":     source,
		"references": len(refs),
		"policies":   kinds,
		"capacities": capacities,
	}).Info("comparing policies")

	sweeps, err := engine.Sweep(cmd.Context(), req, kinds, capacities)
	if err != nil {
		return err
	}

	rankings, medals := output.ComputeRankings(sweeps)
	rep := output.Report{
		MachineInfo: output.CurrentMachine(strings.Join(os.Args, " ")),
		Trace:       output.NewTraceInfo(source, refs),
		MemorySize:  opts.memorySize,
		Capacities:  capacities,
		Sweeps:      sweeps,
		Medals:      medals,
		Rankings:    rankings,
	}
	return writeReport(cmd.OutOrStdout(), opts.out, opts.format, rep)
}

// writeReport renders rep to path, or to w when path is empty.
func writeReport(w io.Writer, path, format string, rep output.Report) error {
	if path == "" {
		return output.Write(w, format, rep)
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, format, rep); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logrus.Infof("report written to %s", path)
	return nil
}
