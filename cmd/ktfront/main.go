package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ktfront/internal/prof"
	"ktfront/internal/version"
)

// errHasErrors signals that diagnostics with error severity were already
// printed; main only sets the exit status.
var errHasErrors = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "ktfront",
	Short: "Lower Kotlin syntax trees to a declaration IR",
	Long: `ktfront reads concrete syntax trees produced by a Kotlin parser (YAML or
msgpack documents) and lowers them to a typed declaration IR.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupProfiling(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
}

var (
	traceCleanup func()
	profSession  *prof.Session
)

func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("memprofile"); err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if cfg.ExecTrace, err = flags.GetString("exectrace"); err != nil {
		return fmt.Errorf("failed to get exectrace flag: %w", err)
	}
	if cfg == (prof.Config{}) {
		return nil
	}
	profSession, err = prof.Start(cfg)
	return err
}

// finish flushes tracing and profiling after a command ran.
func finish() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if err := profSession.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "ktfront: profiling: %v\n", err)
	}
	profSession = nil
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress the summary line")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics kept per file (0=unlimited)")
	flags.String("manifest", "", "path to "+manifestHint+" (default: search upwards from the working directory)")
	flags.String("diagnostics", "pretty", "diagnostic output format (pretty|short|json)")
	flags.String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")

	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 0, "ring buffer capacity (0=default)")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")

	flags.String("cpuprofile", "", "write a CPU profile to this file")
	flags.String("memprofile", "", "write a heap profile to this file on exit")
	flags.String("exectrace", "", "write a Go execution trace to this file")
}

func main() {
	err := rootCmd.Execute()
	finish()
	if err != nil {
		if !errors.Is(err, errHasErrors) {
			fmt.Fprintf(os.Stderr, "ktfront: %v\n", err)
		}
		os.Exit(1)
	}
}
