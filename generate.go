package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tstromberg/cachesim/internal/engine"
	"github.com/tstromberg/cachesim/internal/trace"
)

type generateOptions struct {
	source     sourceOptions
	memorySize int
	out        string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a reference sequence as a trace file",
		Long: `Write a generated (or existing) reference sequence in trace format.
Paths ending in .zst or .zstd are compressed.

Examples:
  cachesim generate --zipf 100000 --alpha 0.9 --memory 64 --out zipf.txt.zst
  cachesim generate --loop 1000 --span 9 --memory 32
  cachesim generate --trace big.txt --out big.txt.zst`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().IntVar(&opts.memorySize, "memory", 128, "Main memory size in blocks (32, 64 or 128)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Trace file to write (default: stdout)")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	if !engine.ValidMemorySize(opts.memorySize) {
		return fmt.Errorf("--memory must be one of %v, got %d", engine.MemorySizes, opts.memorySize)
	}

	refs, source, err := opts.source.blocks(opts.memorySize)
	if err != nil {
		return err
	}

	log := logrus.WithFields(logrus.Fields{
		"source":     source,
		"references": len(refs),
		"digest":     fmt.Sprintf("%016x", trace.Digest(refs)),
	})
	if opts.out == "" {
		log.Debug("writing trace to stdout")
		return trace.Write(cmd.OutOrStdout(), refs)
	}
	if err := trace.Save(opts.out, refs); err != nil {
		return err
	}
	log.Infof("trace written to %s", opts.out)
	return nil
}
