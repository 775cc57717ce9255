package version_test

import (
	"testing"

	"github.com/fatih/color"

	"ktfront/internal/version"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origDate := version.Version, version.GitCommit, version.BuildDate
	t.Cleanup(func() {
		version.Version, version.GitCommit, version.BuildDate = origVersion, origCommit, origDate
	})

	version.Version = "1.2.3"
	version.GitCommit = ""
	version.BuildDate = ""
	if got := version.String(false); got != "ktfront 1.2.3" {
		t.Fatalf("String() = %q", got)
	}

	version.GitCommit = "abc123"
	version.BuildDate = "2024-01-15"
	if got := version.String(false); got != "ktfront 1.2.3 (commit abc123, built 2024-01-15)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestColoredPlain(t *testing.T) {
	orig, origNoColor := version.Version, color.NoColor
	t.Cleanup(func() { version.Version, color.NoColor = orig, origNoColor })

	color.NoColor = true
	version.Version = "0.4.1-rc.1"
	if got := version.Colored(); got != "0.4.1-rc.1" {
		t.Fatalf("Colored() without color = %q", got)
	}
	version.Version = "dev"
	if got := version.Colored(); got != "dev" {
		t.Fatalf("non-semver version should pass through, got %q", got)
	}
}
