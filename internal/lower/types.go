package lower

import (
	"ktfront/internal/cst"
	"ktfront/internal/ir"
)

// typeRef converts a required TYPE_REFERENCE. A missing one becomes an error
// type positioned at parent.
func (l *lowerer) typeRef(n, parent *cst.Node, what string) *ir.TypeRef {
	if n == nil {
		return ir.ErrorType(parent.Span, "missing "+what)
	}
	if n.Kind != cst.KindTypeReference {
		l.invariantf(n, "expected a type reference")
	}
	elem := n.FirstMatch(cst.Kind.IsTypeElement)
	if elem == nil {
		return ir.ErrorType(n.Span, "type reference without a type")
	}
	t := l.typeElement(elem)
	if anns := l.annotations(n.Annotations()); len(anns) > 0 {
		t.Annotations = append(anns, t.Annotations...)
	}
	t.Span = n.Span
	return t
}

// optionalType converts an optional TYPE_REFERENCE, leaving absent types
// implicit for inference.
func (l *lowerer) optionalType(n *cst.Node) *ir.TypeRef {
	if n == nil {
		return ir.ImplicitType()
	}
	return l.typeRef(n, n, "type")
}

func (l *lowerer) typeElement(n *cst.Node) *ir.TypeRef {
	switch n.Kind {
	case cst.KindUserType:
		return l.userType(n)

	case cst.KindNullableType:
		inner := n.FirstMatch(cst.Kind.IsTypeElement)
		if inner == nil {
			return ir.ErrorType(n.Span, "nullable type without an inner type")
		}
		t := l.typeElement(inner)
		t.Nullable = true
		return t

	case cst.KindFunctionType:
		t := &ir.TypeRef{Kind: ir.TypeFunction, Span: n.Span}
		if r := n.First(cst.KindFunctionTypeReceiver); r != nil {
			t.Receiver = l.typeRef(r.First(cst.KindTypeReference), r, "receiver type")
		}
		for _, p := range n.First(cst.KindValueParameterList).All(cst.KindValueParameter) {
			t.Params = append(t.Params, l.typeRef(p.First(cst.KindTypeReference), p, "parameter type"))
		}
		t.Return = l.typeRef(n.First(cst.KindTypeReference), n, "return type")
		return t

	case cst.KindDynamicType:
		return &ir.TypeRef{Kind: ir.TypeDynamic, Span: n.Span}

	default:
		l.invariantf(n, "unexpected node in type position")
		return nil
	}
}

// userType flattens the nested qualifier chain Outer<A>.Inner<B> into parts.
func (l *lowerer) userType(n *cst.Node) *ir.TypeRef {
	var parts []ir.QualifierPart
	for q := n; q != nil; q = q.First(cst.KindUserType) {
		name := q.Name()
		if name == "" {
			return ir.ErrorType(q.Span, "user type without a name")
		}
		parts = append(parts, ir.QualifierPart{
			Name: name,
			Args: l.typeArgs(q.First(cst.KindTypeArgumentList)),
		})
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return &ir.TypeRef{Kind: ir.TypeUser, Parts: parts, Span: n.Span}
}

func (l *lowerer) typeArgs(list *cst.Node) []ir.TypeArg {
	projections := list.All(cst.KindTypeProjection)
	if len(projections) == 0 {
		return nil
	}
	out := make([]ir.TypeArg, 0, len(projections))
	for _, p := range projections {
		if p.First(cst.KindStar) != nil {
			out = append(out, ir.TypeArg{Star: true})
			continue
		}
		out = append(out, ir.TypeArg{
			Variance: variance(p),
			Type:     l.typeRef(p.First(cst.KindTypeReference), p, "type argument"),
		})
	}
	return out
}

func variance(n *cst.Node) ir.Variance {
	switch {
	case n.HasModifier("in"):
		return ir.In
	case n.HasModifier("out"):
		return ir.Out
	default:
		return ir.Invariant
	}
}

// typeParams converts a type parameter list, folding bounds declared in a
// where-clause into the matching parameter.
func (l *lowerer) typeParams(list, constraints *cst.Node) []*ir.Decl {
	nodes := list.All(cst.KindTypeParameter)
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*ir.Decl, 0, len(nodes))
	byName := make(map[string]*ir.TypeParameterData, len(nodes))
	for _, p := range nodes {
		name := p.Name()
		d := l.header(p, ir.DeclTypeParameter, name)
		data := &ir.TypeParameterData{
			Symbol:   l.alloc.TypeParameter(name, p.Span),
			Variance: variance(p),
		}
		if b := p.First(cst.KindTypeReference); b != nil {
			data.Bounds = append(data.Bounds, l.typeRef(b, p, "bound"))
		}
		d.Data = data
		byName[name] = data
		out = append(out, d)
	}
	for _, c := range constraints.All(cst.KindTypeConstraint) {
		data, ok := byName[c.Name()]
		if !ok {
			continue
		}
		data.Bounds = append(data.Bounds, l.typeRef(c.First(cst.KindTypeReference), c, "bound"))
	}
	return out
}

// selfType is the user type naming the class fqName, applied to its own
// type parameters.
func selfType(fqName string, typeParams []*ir.Decl) *ir.TypeRef {
	args := make([]ir.TypeArg, 0, len(typeParams))
	for _, tp := range typeParams {
		args = append(args, ir.TypeArg{Type: ir.UserType(tp.Name)})
	}
	if len(args) == 0 {
		args = nil
	}
	return ir.UserType(fqName, args...)
}
