package symbols

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NamePath is the stack of enclosing declaration names. It is the single
// source of truth for the current qualified name.
type NamePath struct {
	segments []string
}

// Push enters a nested declaration. Names are NFC-normalized so that
// canonically equal identifiers share an identity.
func (p *NamePath) Push(name string) {
	p.segments = append(p.segments, norm.NFC.String(name))
}

// Pop leaves the innermost declaration.
func (p *NamePath) Pop() {
	if len(p.segments) == 0 {
		panic("symbols.NamePath: pop on empty path")
	}
	p.segments = p.segments[:len(p.segments)-1]
}

// Depth reports the number of pushed segments.
func (p *NamePath) Depth() int { return len(p.segments) }

// Current returns the dotted path, e.g. "A.B.C".
func (p *NamePath) Current() string {
	return strings.Join(p.segments, ".")
}

// Child returns the dotted path of a direct child named name without
// pushing it.
func (p *NamePath) Child(name string) string {
	name = norm.NFC.String(name)
	if len(p.segments) == 0 {
		return name
	}
	return p.Current() + "." + name
}

// Segments returns a copy of the path.
func (p *NamePath) Segments() []string {
	return append([]string(nil), p.segments...)
}
