package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"ktfront/internal/project"
)

const maxSeedBytes = 64 << 10

// minimalDoc is the smallest document that lowers to a declaration.
const minimalDoc = `path: min.kt
root:
  kind: FILE
  children:
    - kind: FUN
      children:
        - {kind: IDENTIFIER, text: f}
        - kind: VALUE_PARAMETER_LIST
        - kind: BLOCK
`

// addCorpusSeeds adds the CST fixtures found under the repository's
// testdata directories.
func addCorpusSeeds(f *testing.F) {
	root := filepath.Join("..")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() || filepath.Base(filepath.Dir(path)) != "testdata" || !project.IsInput(path) {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	f.Add([]byte(minimalDoc))
	f.Add([]byte{})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return append([]byte(nil), src...)
}
