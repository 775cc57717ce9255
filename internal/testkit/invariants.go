// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ktfront/internal/ir"
	"ktfront/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a lowered
// file:
//  1. every span is well-formed (End >= Start)
//  2. every span that names a file names sf
//  3. every non-empty span lies within sf's content, when sf has content
//  4. every non-empty declaration span lies within the file span, when the
//     file span is non-empty
//
// Synthesized nodes may carry empty spans; they are only checked for 1 and 2.
func CheckSpanInvariants(f *ir.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file or source")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	check := func(what string, sp source.Span) error {
		if sp.End < sp.Start {
			return fmt.Errorf("%s: inverted span %v", what, sp)
		}
		if sp.File != source.NoFileID && sp.File != sf.ID {
			return fmt.Errorf("%s: span points to file %d, want %d", what, sp.File, sf.ID)
		}
		if sp.Empty() {
			return nil
		}
		if lenContent > 0 && sp.End > lenContent {
			return fmt.Errorf("%s: span end beyond content: %d > %d", what, sp.End, lenContent)
		}
		return nil
	}

	if err := check("file", f.Span); err != nil {
		return err
	}
	var first error
	ir.Inspect(f, func(n any) bool {
		if first != nil {
			return false
		}
		switch n := n.(type) {
		case *ir.Decl:
			what := fmt.Sprintf("%s %q", n.Kind, n.Name)
			first = check(what, n.Span)
			if first == nil && !n.Span.Empty() && !f.Span.Empty() && !f.Span.WithFile(n.Span.File).Contains(n.Span) {
				first = fmt.Errorf("%s: span %v outside file span %v", what, n.Span, f.Span)
			}
		case *ir.Expr:
			first = check(n.Kind.String(), n.Span)
		case *ir.TypeRef:
			first = check("type", n.Span)
		case *ir.Block:
			first = check("block", n.Span)
		}
		return first == nil
	})
	return first
}

// CheckTree reports the first IR node reachable along more than one path.
// Lowering must produce a tree: a type or expression needed twice is cloned.
func CheckTree(f *ir.File) error {
	seen := make(map[any]string)
	var first error
	ir.Inspect(f, func(n any) bool {
		if first != nil {
			return false
		}
		var what string
		switch n := n.(type) {
		case *ir.Decl:
			what = fmt.Sprintf("%s %q", n.Kind, n.Name)
		case *ir.Expr:
			what = n.Kind.String()
		case *ir.TypeRef:
			what = "type " + n.String()
		case *ir.Block:
			what = "block"
		default:
			return true
		}
		if prev, dup := seen[n]; dup {
			first = fmt.Errorf("%s is shared (first reached as %s)", what, prev)
			return false
		}
		seen[n] = what
		return true
	})
	return first
}
