package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"ktfront/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a ktfront.toml with default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "package name (default: directory name)")
	initCmd.Flags().Bool("force", false, "overwrite an existing manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if name == "" {
		name = filepath.Base(abs)
	}
	path := filepath.Join(abs, project.ManifestName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(defaultConfig(name)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}

func defaultConfig(name string) project.Config {
	return project.Config{
		Package: project.PackageConfig{Name: name},
		Lower:   project.LowerConfig{Validate: true, MaxDiagnostics: 100},
		Input:   project.InputConfig{Dirs: []string{"cst"}},
		Output:  project.OutputConfig{Format: "text", Dir: "out"},
		Cache:   project.CacheConfig{Enabled: true, Dir: ".ktfront-cache"},
	}
}
