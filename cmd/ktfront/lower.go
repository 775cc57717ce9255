package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ktfront/internal/driver"
	"ktfront/internal/trace"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] [file|directory]...",
	Short: "Lower CST documents and write their IR",
	Long: `Lower CST documents and write their IR. Without arguments the inputs
configured in ktfront.toml are used. Output goes to stdout unless --out or
[output].dir names a directory, which then receives one file per input.`,
	RunE: runLower,
}

func init() {
	addLowerFlags(lowerCmd)
	lowerCmd.Flags().String("format", "text", "IR output format (text|yaml|msgpack)")
	lowerCmd.Flags().String("out", "", "directory for output files (default: stdout)")
}

func runLower(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd.ErrOrStderr())

	rc, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}
	if rc.opts.Timer, err = newTimer(cmd); err != nil {
		return err
	}

	run, err := lowerRun(cmd.Context(), rc)
	if err != nil {
		return err
	}

	phase := rc.opts.Timer.Begin("write")
	err = writeOutputs(cmd.OutOrStdout(), rc, run)
	rc.opts.Timer.End(phase, rc.opts.Output.String())
	if err != nil {
		return err
	}

	if err := printDiagnostics(cmd, cmd.ErrOrStderr(), run); err != nil {
		return err
	}
	printTimings(cmd.ErrOrStderr(), rc.opts.Timer)
	if run.HasErrors() {
		dumpTrace(cmd.ErrOrStderr())
		return errHasErrors
	}
	return nil
}

// lowerRun wraps driver.LowerFiles in the driver-level trace span.
func lowerRun(ctx context.Context, rc *runConfig) (*driver.Run, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "ktfront")
	run, err := driver.LowerFiles(ctx, rc.paths, rc.opts)
	detail := "ok"
	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	return run, err
}

func writeOutputs(stdout io.Writer, rc *runConfig, run *driver.Run) error {
	for _, res := range run.Results {
		if res.Output == nil {
			continue
		}
		if rc.outDir == "" {
			if _, err := stdout.Write(res.Output); err != nil {
				return err
			}
			continue
		}
		dest := rc.outputName(res.Path)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, res.Output, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
	}
	return nil
}
