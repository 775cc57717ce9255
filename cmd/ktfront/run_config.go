package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ktfront/internal/cst"
	"ktfront/internal/driver"
	"ktfront/internal/ir"
	"ktfront/internal/project"
)

const manifestHint = project.ManifestName

// runConfig is what lower and check need after merging the manifest with
// command-line flags. Flags win when set explicitly.
type runConfig struct {
	manifest *project.Manifest
	paths    []string
	opts     driver.Options
	outDir   string
	// baseDir anchors output file names; without a manifest outputs are
	// named after the input's base name.
	baseDir string
}

// addLowerFlags registers the flags shared by lower and check.
func addLowerFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("stub", false, "keep declarations only; replace bodies and initializers with stubs")
	cmd.Flags().Bool("validate", false, "run structural IR validation after lowering")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("input-format", "", "force the CST encoding (yaml|msgpack); default guesses from the extension")
	cmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
}

func loadManifest(cmd *cobra.Command) (*project.Manifest, error) {
	path, err := cmd.Root().PersistentFlags().GetString("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	if path != "" {
		return project.LoadFile(path)
	}
	m, err := project.Load(".")
	if errors.Is(err, project.ErrNoManifest) {
		return nil, nil
	}
	return m, err
}

func loadRunConfig(cmd *cobra.Command, args []string) (*runConfig, error) {
	m, err := loadManifest(cmd)
	if err != nil {
		return nil, err
	}
	rc := &runConfig{manifest: m}
	var mc project.Config
	if m != nil {
		mc = m.Config
		rc.baseDir = m.Root
		rc.outDir = m.OutputDir()
	}

	switch {
	case len(args) > 0:
		rc.paths, err = project.ExpandInputs(args)
	case m != nil:
		rc.paths, err = m.Inputs()
	default:
		return nil, fmt.Errorf("no inputs: pass files or directories, or add a %s", project.ManifestName)
	}
	if err != nil {
		return nil, err
	}
	if len(rc.paths) == 0 {
		return nil, errors.New("no CST files found")
	}

	flags := cmd.Flags()
	rc.opts.Stub = mc.Lower.Stub
	if flags.Changed("stub") {
		if rc.opts.Stub, err = flags.GetBool("stub"); err != nil {
			return nil, err
		}
	}
	rc.opts.Validate = mc.Lower.Validate
	if flags.Changed("validate") {
		if rc.opts.Validate, err = flags.GetBool("validate"); err != nil {
			return nil, err
		}
	}
	rc.opts.Jobs = mc.Lower.Jobs
	if flags.Changed("jobs") {
		if rc.opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}

	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if mc.Lower.MaxDiagnostics > 0 && !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		maxDiag = mc.Lower.MaxDiagnostics
	}
	rc.opts.MaxDiagnostics = maxDiag

	inputFormat := mc.Input.Format
	if flags.Changed("input-format") {
		if inputFormat, err = flags.GetString("input-format"); err != nil {
			return nil, err
		}
	}
	if inputFormat != "" {
		f, err := cst.ParseFormat(inputFormat)
		if err != nil {
			return nil, err
		}
		rc.opts.Input = &f
	}

	outFormat := mc.Output.Format
	if flags.Lookup("format") != nil && flags.Changed("format") {
		if outFormat, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if rc.opts.Output, err = ir.ParseFormat(outFormat); err != nil {
		return nil, err
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		out, err := flags.GetString("out")
		if err != nil {
			return nil, err
		}
		rc.outDir = out
	}

	useCache := mc.Cache.Enabled
	if flags.Changed("cache") {
		if useCache, err = flags.GetBool("cache"); err != nil {
			return nil, err
		}
	}
	if useCache {
		dir := ""
		if m != nil {
			dir = m.CacheDir()
		}
		if rc.opts.Cache, err = driver.OpenCache(dir); err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}
	return rc, nil
}

// outputName maps an input path to its output file under outDir.
func (rc *runConfig) outputName(input string) string {
	name := filepath.Base(input)
	if rc.baseDir != "" {
		if rel, err := filepath.Rel(rc.baseDir, input); err == nil && filepath.IsLocal(rel) {
			name = rel
		}
	}
	name = name[:len(name)-len(filepath.Ext(name))]
	return filepath.Join(rc.outDir, name+outputExt(rc.opts.Output))
}

func outputExt(f ir.Format) string {
	switch f {
	case ir.FormatText:
		return ".ir"
	case ir.FormatYAML:
		return ".ir.yaml"
	case ir.FormatMsgpack:
		return ".ir.mp"
	default:
		return ".ir"
	}
}
