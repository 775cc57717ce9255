package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ktfront/internal/diag"
	"ktfront/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	note, gutter    *color.Color
	caret, bold     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	case diag.SevInfo:
		return p.info
	default:
		return p.info
	}
}

// Pretty writes bag in a human-readable layout. Callers sort the bag first.
// For every diagnostic it prints
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with the span underlined and, with
// ShowNotes, the notes in the same layout.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	bw := bufio.NewWriter(w)
	pr := &prettyPrinter{w: bw, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for _, d := range bag.Items() {
		pr.diagnostic(d)
	}
	return bw.Flush()
}

type prettyPrinter struct {
	w    *bufio.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (p *prettyPrinter) file(id source.FileID) *source.File {
	if p.fs == nil {
		return nil
	}
	return p.fs.Get(id)
}

func (p *prettyPrinter) location(span source.Span) string {
	f := p.file(span.File)
	start := source.LineCol{Line: 1, Col: span.Start + 1}
	if p.fs != nil {
		start, _ = p.fs.Resolve(span)
	}
	return fmt.Sprintf("%s:%d:%d", displayPath(f, p.opts.PathMode, p.opts.BaseDir), start.Line, start.Col)
}

func (p *prettyPrinter) diagnostic(d diag.Diagnostic) {
	sev := p.pal.severity(d.Severity)
	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		p.pal.bold.Sprint(p.location(d.Primary)),
		sev.Sprint(d.Severity.String()),
		sev.Sprint(d.Code.ID()),
		d.Message)
	p.snippet(d.Primary, p.opts.Context, p.pal.caret)

	if !p.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(p.w, "  %s %s: %s\n", p.pal.note.Sprint("note:"), p.location(n.Span), n.Msg)
		p.snippet(n.Span, 0, p.pal.note)
	}
}

// snippet prints the primary line of span with context lines around it and
// a caret underline. Spans into files without source text print nothing.
func (p *prettyPrinter) snippet(span source.Span, context int8, underline *color.Color) {
	f := p.file(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := p.fs.Resolve(span)
	total, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		return
	}
	ctx, err := safecast.Conv[uint32](max(context, 0))
	if err != nil {
		ctx = 0
	}
	first := max(start.Line, ctx+1) - ctx
	last := min(start.Line+ctx, total)
	gutterWidth := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		line := f.Line(n)
		fmt.Fprintf(p.w, " %s %s\n", p.pal.gutter.Sprintf("%*d |", gutterWidth, n), p.clip(line))
		if n != start.Line {
			continue
		}
		from := int(start.Col) - 1
		to := len(line)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		from = min(max(from, 0), len(line))
		to = min(max(to, from), len(line))
		pad := indentFor(line[:from])
		width := max(runewidth.StringWidth(expandTabs(line[from:to])), 1)
		fmt.Fprintf(p.w, " %s %s%s\n",
			p.pal.gutter.Sprintf("%*s |", gutterWidth, ""),
			pad,
			underline.Sprint("^"+strings.Repeat("~", width-1)))
	}
}

func (p *prettyPrinter) clip(line string) string {
	line = expandTabs(line)
	if p.opts.Width == 0 {
		return line
	}
	width := int(p.opts.Width)
	if runewidth.StringWidth(line) <= width {
		return line
	}
	if width <= 3 {
		return runewidth.Truncate(line, width, "")
	}
	return runewidth.Truncate(line, width, "...")
}

// indentFor returns blanks as wide as prefix is on screen.
func indentFor(prefix string) string {
	return strings.Repeat(" ", runewidth.StringWidth(expandTabs(prefix)))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
