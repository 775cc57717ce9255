package lower

import (
	"ktfront/internal/cst"
	"ktfront/internal/ir"
	"ktfront/internal/source"
)

// noName is used for declarations the source leaves unnamed.
const noName = "<no name provided>"

// header builds the common part of a declaration from n's modifier list.
// Modifiers that select a declaration form (enum, annotation, in, out, ...)
// are left for the caller.
func (l *lowerer) header(n *cst.Node, kind ir.DeclKind, name string) *ir.Decl {
	d := &ir.Decl{Kind: kind, Name: name, Span: n.Span}
	ml := n.First(cst.KindModifierList)
	for _, m := range ml.All(cst.KindModifier) {
		switch m.Text {
		case "public":
			d.Visibility = ir.VisibilityPublic
		case "private":
			d.Visibility = ir.VisibilityPrivate
		case "protected":
			d.Visibility = ir.VisibilityProtected
		case "internal":
			d.Visibility = ir.VisibilityInternal
		case "final":
			d.Modality = ir.ModalityFinal
		case "open":
			d.Modality = ir.ModalityOpen
		case "abstract":
			d.Modality = ir.ModalityAbstract
		case "sealed":
			d.Modality = ir.ModalitySealed
		default:
			if flag, ok := ir.FlagForModifier(m.Text); ok {
				d.Flags |= flag
			}
		}
	}
	d.Annotations = l.annotations(ml.All(cst.KindAnnotationEntry))
	return d
}

// synthetic builds a declaration that has no source node of its own.
func synthetic(kind ir.DeclKind, name string, span source.Span) *ir.Decl {
	return &ir.Decl{Kind: kind, Name: name, Span: span, Flags: ir.FlagSynthetic}
}

func (l *lowerer) annotations(entries []*cst.Node) []ir.Annotation {
	if len(entries) == 0 {
		return nil
	}
	out := make([]ir.Annotation, 0, len(entries))
	for _, e := range entries {
		out = append(out, l.annotation(e))
	}
	return out
}

func (l *lowerer) annotation(n *cst.Node) ir.Annotation {
	a := ir.Annotation{Span: n.Span}
	if t := n.First(cst.KindAnnotationTarget); t != nil {
		a.UseSite = t.Text
	}
	callee := n.First(cst.KindConstructorCallee)
	a.Type = l.typeRef(callee.First(cst.KindTypeReference), n, "annotation type")
	a.Args = l.callArgs(n.First(cst.KindValueArgumentList))
	return a
}
