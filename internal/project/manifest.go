// Package project loads the ktfront.toml manifest that configures a run.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file FindManifest looks for.
const ManifestName = "ktfront.toml"

// ErrNoManifest is returned by Load when no manifest is found.
var ErrNoManifest = errors.New("no " + ManifestName + " found")

// Manifest is a loaded ktfront.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest tables. Zero values mean "not set"; CLI flags
// fill them in.
type Config struct {
	Package PackageConfig `toml:"package"`
	Lower   LowerConfig   `toml:"lower"`
	Input   InputConfig   `toml:"input"`
	Output  OutputConfig  `toml:"output"`
	Cache   CacheConfig   `toml:"cache"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type LowerConfig struct {
	Stub           bool `toml:"stub"`
	Jobs           int  `toml:"jobs"`
	Validate       bool `toml:"validate"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
}

type InputConfig struct {
	// Dirs are scanned for CST files, relative to the manifest.
	Dirs []string `toml:"dirs"`
	// Format forces the CST encoding; empty guesses from the extension.
	Format string `toml:"format"`
}

type OutputConfig struct {
	// Format is text, yaml or msgpack.
	Format string `toml:"format"`
	// Dir receives one output file per input; empty writes to stdout.
	Dir string `toml:"dir"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// FindManifest walks up from startDir to locate ktfront.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest above startDir. It returns
// ErrNoManifest when there is none.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return LoadFile(path)
}

// LoadFile parses the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("package") && strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: [package].name must not be empty", path)
	}
	if cfg.Lower.Jobs < 0 {
		return nil, fmt.Errorf("%s: [lower].jobs must not be negative", path)
	}
	if cfg.Lower.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [lower].max_diagnostics must not be negative", path)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// InputExtensions are the file suffixes treated as CST inputs.
var InputExtensions = []string{".yaml", ".yml", ".mp", ".msgpack"}

// IsInput reports a CST input file name.
func IsInput(path string) bool {
	return slices.Contains(InputExtensions, strings.ToLower(filepath.Ext(path)))
}

// Inputs lists the CST files under the manifest's input dirs, sorted. With
// no dirs configured the manifest root is scanned. Files under the output
// dir are skipped.
func (m *Manifest) Inputs() ([]string, error) {
	dirs := m.Config.Input.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	outDir := m.OutputDir()
	var out []string
	for _, d := range dirs {
		files, err := ExpandInputs([]string{m.resolve(d)})
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			// Outputs may share an input extension.
			if outDir != "" && strings.HasPrefix(f, outDir+string(filepath.Separator)) {
				continue
			}
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// OutputDir returns the configured output directory resolved against the
// manifest root, or "" for stdout.
func (m *Manifest) OutputDir() string {
	if m.Config.Output.Dir == "" {
		return ""
	}
	return m.resolve(m.Config.Output.Dir)
}

// CacheDir returns the configured cache directory resolved against the
// manifest root, or "" for the user cache.
func (m *Manifest) CacheDir() string {
	if m.Config.Cache.Dir == "" {
		return ""
	}
	return m.resolve(m.Config.Cache.Dir)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

// ExpandInputs replaces directories in paths with the CST files below them.
// Files are kept as given even without a known extension. The result keeps
// argument order; files found in a directory are sorted.
func ExpandInputs(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != p && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !d.IsDir() && IsInput(path) && d.Name() != ManifestName {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		out = append(out, found...)
	}
	return out, nil
}
