package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ktfront/internal/diag"
	"ktfront/internal/diagfmt"
	"ktfront/internal/source"
)

func literalBag(fs *source.FileSet, path string, content string) (*diag.Bag, source.FileID) {
	id := fs.Add(path, []byte(content))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LowMalformedLiteral,
		source.Span{File: id, Start: 12, End: 23},
		`integer literal "99999999999" does not fit Int`))
	return bag, id
}

func TestPrettyLayout(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := literalBag(fs, "big.kt", "fun big() = 99999999999\n")

	var buf bytes.Buffer
	if err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "big.kt:1:13: ERROR LOW2002: integer literal \"99999999999\" does not fit Int\n" +
		" 1 | fun big() = 99999999999\n" +
		"   |             ^~~~~~~~~~~\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyPathModes(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := literalBag(fs, "/home/user/project/src/big.kt", "fun big() = 99999999999\n")

	tests := []struct {
		name     string
		mode     diagfmt.PathMode
		base     string
		contains string
	}{
		{"absolute", diagfmt.PathModeAbsolute, "", "/home/user/project/src/big.kt:1:13"},
		{"relative", diagfmt.PathModeRelative, "/home/user/project", "src/big.kt:1:13"},
		{"basename", diagfmt.PathModeBasename, "", "big.kt:1:13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: tt.mode, BaseDir: tt.base}); err != nil {
				t.Fatalf("Pretty: %v", err)
			}
			first, _, _ := strings.Cut(buf.String(), "\n")
			if !strings.HasPrefix(first, tt.contains) {
				t.Errorf("expected line to start with %q, got %q", tt.contains, first)
			}
		})
	}
}

func TestPrettyAutoShortensLongPaths(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := literalBag(fs, "/very/long/absolute/path/to/some/nested/directory/big.kt", "fun big() = 99999999999\n")

	var buf bytes.Buffer
	if err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: diagfmt.PathModeAuto}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "big.kt:1:13:") {
		t.Fatalf("expected basename, got:\n%s", buf.String())
	}
}

func TestPrettyContextNotesAndWidth(t *testing.T) {
	fs := source.NewFileSet()
	content := "class A {\n\tval x: Int = 1\n\tfun f() = y\n}\n"
	id := fs.Add("a.kt", []byte(content))
	start := uint32(strings.Index(content, "y\n"))
	decl := uint32(strings.Index(content, "val"))

	d := diag.NewError(diag.LowMissingChild, source.Span{File: id, Start: start, End: start + 1}, "unresolved y").
		WithNote(source.Span{File: id, Start: decl, End: decl + 3}, "nearby declaration")
	bag := diag.NewBag(0)
	bag.Add(d)

	var buf bytes.Buffer
	err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Context: 1, ShowNotes: true, Width: 12})
	if err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"a.kt:3:12: ERROR LOW2001: unresolved y",
		" 2 |     val x...",
		" 3 |     fun f...",
		" 4 | }",
		"   |               ^",
		"  note: a.kt:2:2: nearby declaration",
		"   |     ^~~",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, " 1 | class") {
		t.Errorf("context leaked past one line:\n%s", out)
	}
}

func TestPrettyWithoutSource(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("gen.kt", nil)
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LowUnsupportedOperator, source.Span{File: id, Start: 4, End: 6}, "operator"))

	var buf bytes.Buffer
	if err := diagfmt.Pretty(&buf, bag, nil, diagfmt.PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if got := buf.String(); got != "<unknown>:1:5: WARNING LOW2003: operator\n" {
		t.Fatalf("unexpected output %q", got)
	}

	buf.Reset()
	if err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if got := buf.String(); got != "gen.kt:1:5: WARNING LOW2003: operator\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := literalBag(fs, "big.kt", "fun big() = 99999999999\n")

	var buf bytes.Buffer
	if err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Color: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := literalBag(fs, "big.kt", "fun big() = 99999999999\n")
	bag.Add(diag.New(diag.SevWarning, diag.LowUnsupportedOperator, source.Span{}, "second"))

	var buf bytes.Buffer
	if err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true, Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected Max to truncate to one entry, got %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "LOW2002" || d.Severity != "ERROR" || d.Location.File != "big.kt" {
		t.Fatalf("unexpected entry %+v", d)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 13 || d.Location.EndCol != 24 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
}
