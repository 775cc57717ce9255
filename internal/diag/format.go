package diag

import (
	"fmt"
	"strings"

	"ktfront/internal/source"
)

// FormatShort renders one line per diagnostic:
//
//	ERROR LOW2001 path:line:col message
//
// Notes follow indented with "note". The result is stable for golden tests.
func FormatShort(diags []Diagnostic, fs *source.FileSet) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s %s %s %s", d.Severity, d.Code.ID(), position(fs, d.Primary), d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "\n  note %s %s", position(fs, n.Span), n.Msg)
		}
	}
	return sb.String()
}

func position(fs *source.FileSet, sp source.Span) string {
	path := "<unknown>"
	var start source.LineCol
	if fs != nil {
		if f := fs.Get(sp.File); f != nil {
			path = f.Path
		}
		start, _ = fs.Resolve(sp)
	} else {
		start = source.LineCol{Line: 1, Col: sp.Start + 1}
	}
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}
