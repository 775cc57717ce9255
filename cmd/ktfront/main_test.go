package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"

	"ktfront/internal/ir"
	"ktfront/internal/project"
)

const answerDoc = `path: answer.kt
source: "fun answer() = 42\n"
root:
  kind: FILE
  children:
    - kind: FUN
      children:
        - {kind: KEYWORD, text: fun}
        - {kind: IDENTIFIER, text: answer}
        - kind: VALUE_PARAMETER_LIST
        - {kind: INTEGER_CONSTANT, text: "42"}
`

const overflowDoc = `path: big.kt
source: "fun big() = 99999999999\n"
root:
  kind: FILE
  children:
    - kind: FUN
      children:
        - {kind: KEYWORD, text: fun}
        - {kind: IDENTIFIER, text: big}
        - kind: VALUE_PARAMETER_LIST
        - kind: INTEGER_CONSTANT
          text: "99999999999"
          span: {start: 12, end: 23}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	finish()
	return out.String(), errOut.String(), err
}

func TestLowerWritesOutputTree(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, project.ManifestName)
	writeFile(t, manifest, "[package]\nname = \"demo\"\n")
	writeFile(t, filepath.Join(root, "cst", "answer.yaml"), answerDoc)
	outDir := filepath.Join(root, "out")

	_, stderr, err := execute(t, "lower", "--manifest", manifest, "--color", "off", "--quiet",
		"--format", "yaml", "--out", outDir, filepath.Join(root, "cst"))
	if err != nil {
		t.Fatalf("lower: %v\n%s", err, stderr)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "cst", "answer.ir.yaml"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "answer") {
		t.Fatalf("output lacks the function:\n%s", data)
	}
}

func TestCheckReportsErrors(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, project.ManifestName)
	writeFile(t, manifest, "[lower]\nvalidate = true\n")
	input := filepath.Join(root, "big.yaml")
	writeFile(t, input, overflowDoc)

	_, stderr, err := execute(t, "check", "--manifest", manifest, "--color", "off", "--quiet=false",
		"--diagnostics", "short", input)
	if !errors.Is(err, errHasErrors) {
		t.Fatalf("expected errHasErrors, got %v", err)
	}
	for _, want := range []string{"ERROR LOW2002 big.kt:1:13", "failed: 1 files, 1 error, 0 warnings"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %q:\n%s", want, stderr)
		}
	}
}

func TestInitWritesLoadableManifest(t *testing.T) {
	root := t.TempDir()
	stdout, _, err := execute(t, "init", "--name", "demo", root)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(stdout, project.ManifestName) {
		t.Fatalf("unexpected output %q", stdout)
	}
	m, err := project.LoadFile(filepath.Join(root, project.ManifestName))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if m.Config.Package.Name != "demo" || !m.Config.Cache.Enabled || m.OutputDir() != filepath.Join(root, "out") {
		t.Fatalf("unexpected config %+v", m.Config)
	}

	if _, _, err := execute(t, "init", root); err == nil {
		t.Fatalf("second init should refuse to overwrite")
	}
}

func TestOutputName(t *testing.T) {
	rc := &runConfig{outDir: "/out", baseDir: "/proj"}
	rc.opts.Output = ir.FormatMsgpack
	if got := rc.outputName("/proj/cst/a.yaml"); got != filepath.FromSlash("/out/cst/a.ir.mp") {
		t.Fatalf("outputName = %q", got)
	}
	if got := rc.outputName("/elsewhere/b.mp"); got != filepath.FromSlash("/out/b.ir.mp") {
		t.Fatalf("outputName outside base = %q", got)
	}
}

func TestRelevantEvents(t *testing.T) {
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/p/a.yaml", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/p/a.yaml", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/p/notes.txt", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/p/" + project.ManifestName, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/p/newdir", Op: fsnotify.Create}, true},
	}
	for _, tc := range cases {
		if got := relevant(tc.ev); got != tc.want {
			t.Errorf("relevant(%v) = %v, want %v", tc.ev, got, tc.want)
		}
	}
}
