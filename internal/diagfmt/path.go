package diagfmt

import (
	"os"
	"path/filepath"
	"strings"

	"ktfront/internal/source"
)

// autoPathLimit is the longest absolute path PathModeAuto prints in full.
const autoPathLimit = 40

const unknownPath = "<unknown>"

func displayPath(f *source.File, mode PathMode, base string) string {
	if f == nil || f.Path == "" {
		return unknownPath
	}
	p := f.Path
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	case PathModeRelative:
		if base == "" {
			wd, err := os.Getwd()
			if err != nil {
				return p
			}
			base = wd
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return p
		}
		rel, err := filepath.Rel(base, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			return p
		}
		return rel
	case PathModeBasename:
		return filepath.Base(p)
	case PathModeAuto:
		if filepath.IsAbs(p) && len(p) > autoPathLimit {
			return filepath.Base(p)
		}
		return p
	default:
		return p
	}
}
