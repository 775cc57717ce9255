package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"ktfront/internal/project"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file|directory]...",
	Short: "Lower CST documents and report diagnostics without writing IR",
	RunE:  runCheck,
}

// watchDebounce coalesces editor save bursts into one rerun.
const watchDebounce = 150 * time.Millisecond

func init() {
	addLowerFlags(checkCmd)
	checkCmd.Flags().Bool("watch", false, "re-run when an input changes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd.ErrOrStderr())

	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
	}
	if watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchCheck(ctx, cmd, args)
	}
	failed, err := checkOnce(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}
	if failed {
		dumpTrace(cmd.ErrOrStderr())
		return errHasErrors
	}
	return nil
}

// checkOnce reloads the configuration, so a watch picks up new files and
// manifest edits, and reports whether errors were found.
func checkOnce(ctx context.Context, cmd *cobra.Command, args []string) (bool, error) {
	rc, err := loadRunConfig(cmd, args)
	if err != nil {
		return false, err
	}
	if rc.opts.Timer, err = newTimer(cmd); err != nil {
		return false, err
	}
	run, err := lowerRun(ctx, rc)
	if err != nil {
		return false, err
	}
	if err := printDiagnostics(cmd, cmd.ErrOrStderr(), run); err != nil {
		return false, err
	}
	printTimings(cmd.ErrOrStderr(), rc.opts.Timer)
	return run.HasErrors(), nil
}

func watchCheck(ctx context.Context, cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(cmd, args)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	errOut := cmd.ErrOrStderr()
	rerun := func() {
		if _, err := checkOnce(ctx, cmd, args); err != nil && ctx.Err() == nil {
			fmt.Fprintf(errOut, "ktfront: %v\n", err)
		}
		fmt.Fprintf(errOut, "watching %d directories for changes...\n", len(dirs))
	}
	rerun()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			pending = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watch: %v\n", err)
		case <-pending:
			pending = nil
			rerun()
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(ev.Name)
	return project.IsInput(ev.Name) || name == project.ManifestName || filepath.Ext(name) == ""
}

// watchDirs lists the directories whose changes trigger a rerun: every
// directory holding an input, the argument directories themselves and the
// manifest root.
func watchDirs(cmd *cobra.Command, args []string) ([]string, error) {
	rc, err := loadRunConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, p := range rc.paths {
		dirs = append(dirs, filepath.Dir(p))
	}
	for _, a := range args {
		if info, err := os.Stat(a); err == nil && info.IsDir() {
			dirs = append(dirs, a)
		}
	}
	if rc.manifest != nil {
		dirs = append(dirs, rc.manifest.Root)
	}
	for i, d := range dirs {
		if abs, err := filepath.Abs(d); err == nil {
			dirs[i] = abs
		}
	}
	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}
