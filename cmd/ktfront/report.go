package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ktfront/internal/diag"
	"ktfront/internal/diagfmt"
	"ktfront/internal/driver"
	"ktfront/internal/observ"
)

// isTerminal reports whether f is an interactive terminal, Cygwin and MSYS
// ptys included.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd)
}

// useColor resolves the --color flag for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (expected auto|on|off)", mode)
	}
}

// printDiagnostics renders every diagnostic of run on w and, unless quiet,
// a one-line summary.
func printDiagnostics(cmd *cobra.Command, w io.Writer, run *driver.Run) error {
	flags := cmd.Root().PersistentFlags()
	format, err := flags.GetString("diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	minSev, err := flags.GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	least, err := diag.ParseSeverity(minSev)
	if err != nil {
		return err
	}

	bag := run.Diagnostics()
	bag.Filter(least)
	switch strings.ToLower(format) {
	case "pretty":
		err = diagfmt.Pretty(w, bag, run.Files, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   1,
			ShowNotes: true,
		})
	case "short":
		if bag.Len() > 0 {
			_, err = fmt.Fprintln(w, diag.FormatShort(bag.Items(), run.Files))
		}
	case "json":
		// JSON is the whole output; no summary.
		return diagfmt.JSON(w, bag, run.Files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	default:
		return fmt.Errorf("unknown diagnostics format %q (expected pretty|short|json)", format)
	}
	if err != nil || quiet {
		return err
	}
	return printSummary(w, run, bag, colored)
}

func printSummary(w io.Writer, run *driver.Run, bag *diag.Bag, colored bool) error {
	var errs, warns, cached int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		case diag.SevInfo:
		}
	}
	for i := range run.Results {
		if run.Results[i].Cached {
			cached++
		}
	}

	status := color.New(color.FgGreen, color.Bold)
	word := "ok"
	if errs > 0 {
		status = color.New(color.FgRed, color.Bold)
		word = "failed"
	}
	if colored {
		status.EnableColor()
	} else {
		status.DisableColor()
	}
	line := fmt.Sprintf("%s: %d files, %s, %s", status.Sprint(word), len(run.Results),
		plural(errs, "error"), plural(warns, "warning"))
	if cached > 0 {
		line += fmt.Sprintf(" (%d cached)", cached)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// newTimer returns a timer when --timings is set, nil otherwise.
func newTimer(cmd *cobra.Command) (*observ.Timer, error) {
	on, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !on {
		return nil, nil
	}
	return observ.NewTimer(), nil
}

func printTimings(w io.Writer, t *observ.Timer) {
	if t == nil {
		return
	}
	fmt.Fprint(w, t.Summary())
}
