package lower

import (
	"ktfront/internal/cst"
	"ktfront/internal/ir"
)

func (l *lowerer) property(n *cst.Node, local bool) *ir.Decl {
	d := l.header(n, ir.DeclProperty, declName(n))
	data := &ir.PropertyData{IsVar: n.HasKeyword("var"), Local: local}
	d.Data = data

	d.TypeParams = l.typeParams(n.First(cst.KindTypeParameterList), n.First(cst.KindTypeConstraintList))
	recv, typ := typeAround(n, cst.KindIdentifier)
	if recv != nil {
		data.Receiver = l.typeRef(recv, n, "receiver type")
	}
	data.Type = l.optionalType(typ)

	if init := n.Expression(); init != nil {
		data.Initializer = l.value(init)
	}
	if del := n.First(cst.KindPropertyDelegate); del != nil {
		data.Delegate = l.valueOrError(del.Expression(), del, "delegate expression")
	}
	if local {
		return d
	}
	l.accessors(d, data, n.All(cst.KindPropertyAccessor))
	return d
}

// accessors converts the declared accessors of a member or top-level
// property and synthesizes the default ones it lacks: every property gets a
// getter and every var a setter.
func (l *lowerer) accessors(prop *ir.Decl, data *ir.PropertyData, nodes []*cst.Node) {
	for _, n := range nodes {
		acc := l.accessor(n, prop, data)
		if acc.Data.(*ir.AccessorData).Getter {
			data.Getter = acc
		} else {
			data.Setter = acc
		}
	}
	if data.Getter == nil {
		data.Getter = l.defaultAccessor(synthetic(ir.DeclAccessor, "<get-"+prop.Name+">", prop.Span), prop, data, true)
	}
	if data.IsVar && data.Setter == nil {
		data.Setter = l.defaultAccessor(synthetic(ir.DeclAccessor, "<set-"+prop.Name+">", prop.Span), prop, data, false)
	}
}

func (l *lowerer) accessor(n *cst.Node, prop *ir.Decl, data *ir.PropertyData) *ir.Decl {
	getter := n.HasKeyword("get")
	name := "<set-" + prop.Name + ">"
	if getter {
		name = "<get-" + prop.Name + ">"
	}
	d := l.header(n, ir.DeclAccessor, name)
	body := n.Expression()
	if body == nil {
		// `private set` and friends: a modifier-only accessor keeps the
		// default body.
		return l.defaultAccessor(d, prop, data, getter)
	}

	acc := &ir.AccessorData{ID: l.newFunc(), Getter: getter}
	d.Data = acc
	if getter {
		acc.ReturnType = data.Type.Clone()
		if t := n.First(cst.KindTypeReference); t != nil {
			acc.ReturnType = l.typeRef(t, n, "getter type")
		}
	} else {
		acc.ReturnType = ir.UserType(ir.UnitTypeName)
	}

	l.withFunc(acc.ID, func() {
		if !getter {
			acc.Params = l.setterParams(n, prop, data)
		}
		l.accessorDepth++
		defer func() { l.accessorDepth-- }()
		acc.Body = l.body(body, acc.ID)
	})
	return d
}

// setterParams returns the single setter parameter, typed as the property
// when the source leaves the type out.
func (l *lowerer) setterParams(n *cst.Node, prop *ir.Decl, data *ir.PropertyData) []*ir.Decl {
	p := n.First(cst.KindValueParameterList).First(cst.KindValueParameter)
	if p == nil {
		return []*ir.Decl{setterValue(prop, data)}
	}
	param := l.valueParam(p, false)
	if pd := param.Data.(*ir.ValueParameterData); pd.Type.Kind == ir.TypeImplicit {
		pd.Type = data.Type.Clone()
	}
	return []*ir.Decl{param}
}

func setterValue(prop *ir.Decl, data *ir.PropertyData) *ir.Decl {
	return &ir.Decl{
		Kind:  ir.DeclValueParameter,
		Name:  "value",
		Span:  prop.Span,
		Flags: ir.FlagSynthetic,
		Data:  &ir.ValueParameterData{Type: data.Type.Clone()},
	}
}

// defaultAccessor fills d with a default getter (returns the backing field)
// or setter (stores its `value` parameter into the backing field).
func (l *lowerer) defaultAccessor(d *ir.Decl, prop *ir.Decl, data *ir.PropertyData, getter bool) *ir.Decl {
	acc := &ir.AccessorData{ID: l.newFunc(), Getter: getter, Default: true}
	d.Data = acc
	field := ir.Ref{Kind: ir.RefBackingField}
	span := d.Span

	if getter {
		acc.ReturnType = data.Type.Clone()
		acc.Body = &ir.Block{Span: span, Stmts: []*ir.Expr{
			mk(ir.ExprReturn, span, ir.ReturnData{
				Target: acc.ID,
				Value:  mk(ir.ExprPropertyGet, span, ir.PropertyGetData{Ref: field}),
			}),
		}}
	} else {
		value := setterValue(prop, data)
		acc.ReturnType = ir.UserType(ir.UnitTypeName)
		acc.Params = []*ir.Decl{value}
		acc.Body = &ir.Block{Span: span, Stmts: []*ir.Expr{
			mk(ir.ExprAssignment, span, ir.AssignmentData{
				Op:     ir.OpAssign,
				Target: field,
				Value:  mk(ir.ExprPropertyGet, span, ir.PropertyGetData{Ref: ir.Ref{Name: value.Name}}),
			}),
		}}
	}
	if l.opts.Stub {
		acc.Body = ir.StubBlock(span)
	}
	return d
}
