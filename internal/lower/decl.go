package lower

import (
	"ktfront/internal/cst"
	"ktfront/internal/ir"
)

// decl converts a node in declaration position.
func (l *lowerer) decl(n *cst.Node) *ir.Decl {
	switch n.Kind {
	case cst.KindClass:
		return l.class(n)
	case cst.KindObjectDeclaration:
		return l.object(n)
	case cst.KindTypeAlias:
		return l.typeAlias(n)
	case cst.KindFun:
		return l.function(n)
	case cst.KindProperty:
		return l.property(n, false)
	case cst.KindSecondaryConstructor:
		cls := l.currentClass()
		if cls == nil {
			l.invariantf(n, "secondary constructor outside of a class")
		}
		return l.secondaryConstructor(n, cls)
	case cst.KindAnonymousInitializer:
		return l.initializer(n)
	case cst.KindEnumEntry:
		cls := l.currentClass()
		if cls == nil || cls.kind != ir.ClassKindEnum {
			l.invariantf(n, "enum entry outside of an enum class")
		}
		return l.enumEntry(n, cls)
	default:
		l.invariantf(n, "unexpected node in declaration position")
		return nil
	}
}

// typeAround returns the TYPE_REFERENCE children found before and after the
// first child of kind mark.
func typeAround(n *cst.Node, mark cst.Kind) (before, after *cst.Node) {
	seen := false
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		switch {
		case c.Kind == mark:
			seen = true
		case c.Kind == cst.KindTypeReference && !seen && before == nil:
			before = c
		case c.Kind == cst.KindTypeReference && seen && after == nil:
			after = c
		}
	}
	return before, after
}

func declName(n *cst.Node) string {
	if name := n.Name(); name != "" {
		return name
	}
	return noName
}

func (l *lowerer) function(n *cst.Node) *ir.Decl {
	d := l.header(n, ir.DeclFunction, declName(n))
	data := &ir.FunctionData{ID: l.newFunc()}
	d.Data = data

	d.TypeParams = l.typeParams(n.First(cst.KindTypeParameterList), n.First(cst.KindTypeConstraintList))
	mark := cst.KindValueParameterList
	if n.First(mark) == nil {
		mark = cst.KindIdentifier
	}
	recv, ret := typeAround(n, mark)
	if recv != nil {
		data.Receiver = l.typeRef(recv, n, "receiver type")
	}
	body := n.Expression()
	switch {
	case ret != nil:
		data.ReturnType = l.typeRef(ret, n, "return type")
	case body != nil && body.Kind != cst.KindBlock:
		data.ReturnType = ir.ImplicitType()
	default:
		data.ReturnType = ir.UserType(ir.UnitTypeName)
	}

	l.withFunc(data.ID, func() {
		data.Params = l.valueParams(n.First(cst.KindValueParameterList), true)
		data.Body = l.body(body, data.ID)
	})
	return d
}

func (l *lowerer) valueParams(list *cst.Node, typed bool) []*ir.Decl {
	nodes := list.All(cst.KindValueParameter)
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*ir.Decl, 0, len(nodes))
	for _, p := range nodes {
		out = append(out, l.valueParam(p, typed))
	}
	return out
}

// valueParam converts a parameter. typed parameters require a declared
// type; lambda parameters may leave it implicit.
func (l *lowerer) valueParam(n *cst.Node, typed bool) *ir.Decl {
	d := l.header(n, ir.DeclValueParameter, declName(n))
	data := &ir.ValueParameterData{}
	switch {
	case n.HasKeyword("val"):
		data.ValOrVar = "val"
	case n.HasKeyword("var"):
		data.ValOrVar = "var"
	}
	if typed {
		data.Type = l.typeRef(n.First(cst.KindTypeReference), n, "parameter type")
	} else {
		data.Type = l.optionalType(n.First(cst.KindTypeReference))
	}
	if def := n.Expression(); def != nil {
		data.Default = l.value(def)
	}
	d.Data = data
	return d
}

func (l *lowerer) typeAlias(n *cst.Node) *ir.Decl {
	name := declName(n)
	d := l.header(n, ir.DeclTypeAlias, name)
	sym, cid := l.alloc.TypeAlias(name, n.Span)
	d.TypeParams = l.typeParams(n.First(cst.KindTypeParameterList), nil)
	d.Data = &ir.TypeAliasData{
		Symbol:   sym,
		ClassID:  cid,
		Expanded: l.typeRef(n.First(cst.KindTypeReference), n, "aliased type"),
	}
	return d
}

func (l *lowerer) initializer(n *cst.Node) *ir.Decl {
	d := l.header(n, ir.DeclAnonymousInitializer, "<init>")
	block := n.First(cst.KindBlock)
	data := &ir.InitializerData{}
	switch {
	case block == nil && l.opts.Stub:
		data.Body = ir.StubBlock(n.Span)
	case block == nil:
		data.Body = &ir.Block{Span: n.Span}
	default:
		data.Body = l.body(block, ir.NoFuncID)
	}
	d.Data = data
	return d
}

// body converts the body of a function-like declaration: a block, or an
// expression that becomes the returned value of fn. Stub mode replaces it
// whole.
func (l *lowerer) body(n *cst.Node, fn ir.FuncID) *ir.Block {
	if n == nil {
		return nil
	}
	if l.opts.Stub {
		return ir.StubBlock(n.Span)
	}
	var b *ir.Block
	l.alloc.WithLocal(func() {
		if n.Kind == cst.KindBlock {
			b = l.block(n)
			return
		}
		b = &ir.Block{Span: n.Span, Stmts: []*ir.Expr{
			mk(ir.ExprReturn, n.Span, ir.ReturnData{Target: fn, Value: l.expr(n)}),
		}}
	})
	return b
}
