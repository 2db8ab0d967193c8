// cachesim simulates FIFO and LRU cache replacement over main memory block
// references and reports the hit ratio.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tstromberg/cachesim/internal/engine"
	"github.com/tstromberg/cachesim/internal/loader"
	"github.com/tstromberg/cachesim/internal/output"
)

// globalOptions holds flags shared by every command.
type globalOptions struct {
	logLevel string // logrus level name
	verbose  bool   // log every simulation step
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "cachesim <capacity> <memory> <policy> <ref>...",
		Short: "Simulate FIFO and LRU cache replacement",
		Long: `cachesim replays main memory block references against a fully
associative cache and prints the hit ratio.

  capacity  cache size in blocks, 1..memory/4
  memory    main memory size in blocks: 32, 64 or 128
  policy    F (FIFO) or L (LRU)
  ref       block numbers in [0, memory)

Example:
  cachesim 8 32 F 1 2 3 1 4 2 12 5 3 6 8 11 9 12 10 7 1 9 5 7`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulate(cmd.OutOrStdout(), args, opts.verbose)
		},
	}

	// Block references may be negative numbers; stop flag parsing at the
	// first positional argument so they reach validation.
	root.Flags().SetInterspersed(false)
	root.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every reference with the resulting cache contents")
	root.PersistentFlags().StringVar(&opts.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	root.AddCommand(newCompareCmd(), newBatchCmd(), newGenerateCmd())
	return root
}

// setupLogging configures logrus to write to w at the requested level.
// Verbose runs log at least at debug level.
func setupLogging(w io.Writer, opts *globalOptions) error {
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
	}
	if opts.verbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(level)
	return nil
}

// simulate runs the positional invocation. Validation failures print their
// message to w and are returned so the process exits non-zero.
func simulate(w io.Writer, args []string, verbose bool) error {
	req, err := loader.Parse(args)
	if err != nil {
		if msg := loader.Message(err); msg != "" {
			fmt.Fprintln(w, msg)
		}
		return err
	}

	var observe func(engine.Step)
	if verbose {
		observe = func(s engine.Step) {
			logrus.WithFields(logrus.Fields{
				"step":     s.Index + 1,
				"block":    s.Block,
				"outcome":  s.Outcome,
				"hits":     s.Hits,
				"resident": s.Resident,
			}).Debug("reference processed")
		}
	}

	res, err := engine.Replay(req, observe)
	if err != nil {
		return err
	}
	logrus.Infof("%s: %d hits, %d misses over %d references", res.Policy, res.Hits, res.Misses(), res.Total)
	return output.Ratio(w, res)
}

// positionalArgs inserts "--" before a leading negative number, so
// "cachesim -1 32 F 1" reaches capacity validation instead of failing as an
// unknown shorthand flag. Root flags ahead of it are skipped with their values.
func positionalArgs(root *cobra.Command, args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" || !strings.HasPrefix(a, "-") {
			return args
		}
		if _, err := strconv.Atoi(a); err == nil {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
		if strings.Contains(a, "=") {
			continue
		}
		name := strings.TrimLeft(a, "-")
		f := root.Flags().Lookup(name)
		if f == nil {
			f = root.PersistentFlags().Lookup(name)
		}
		if f == nil && len(name) == 1 {
			f = root.Flags().ShorthandLookup(name)
		}
		if f != nil && f.NoOptDefVal == "" {
			i++ // value follows the flag
		}
	}
	return args
}

// execute runs root over the raw command-line arguments.
func execute(root *cobra.Command, args []string) error {
	root.SetArgs(positionalArgs(root, args))
	return root.Execute()
}

func main() {
	if err := execute(newRootCmd(), os.Args[1:]); err != nil {
		if !loader.IsValidation(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
