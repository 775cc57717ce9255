package lower

import (
	"fmt"

	"ktfront/internal/cst"
	"ktfront/internal/ir"
	"ktfront/internal/symbols"
)

func (l *lowerer) class(n *cst.Node) *ir.Decl {
	return l.classLike(n, l.classKind(n), declName(n))
}

func (l *lowerer) object(n *cst.Node) *ir.Decl {
	name := n.Name()
	if name == "" {
		name = noName
		if n.HasModifier("companion") {
			name = "Companion"
		}
	}
	return l.classLike(n, ir.ClassKindObject, name)
}

func (l *lowerer) classKind(n *cst.Node) ir.ClassKind {
	enum := n.HasModifier("enum")
	annotation := n.HasModifier("annotation")
	switch {
	case n.HasKeyword("interface"):
		if enum || annotation {
			l.invariantf(n, "interface declared as enum or annotation")
		}
		return ir.ClassKindInterface
	case enum && annotation:
		l.invariantf(n, "class declared as both enum and annotation")
	case enum:
		return ir.ClassKindEnum
	case annotation:
		return ir.ClassKindAnnotation
	}
	return ir.ClassKindClass
}

// classLike converts classes, interfaces and objects. The name is pushed for
// the whole conversion so nested declarations allocate under it.
func (l *lowerer) classLike(n *cst.Node, kind ir.ClassKind, name string) *ir.Decl {
	d := l.header(n, ir.DeclClass, name)
	l.alloc.WithClass(name, n.Span, func(sym symbols.SymbolID, cid symbols.ClassID) {
		data := &ir.ClassData{Symbol: sym, ClassID: cid, ClassKind: kind}
		d.Data = data
		d.TypeParams = l.typeParams(n.First(cst.KindTypeParameterList), n.First(cst.KindTypeConstraintList))
		data.SelfType = selfType(cid.FQName(), d.TypeParams)
		superArgs := l.superTypes(n.First(cst.KindSuperTypeList), data)

		scope := &classScope{kind: kind, self: data.SelfType, super: data.DelegatedSuperType}
		l.withClass(scope, func() {
			l.members(n, d, data, superArgs)
		})
	})
	return d
}

// superTypes converts the super-type list and fills in the default delegated
// super type. It returns the argument list of the super-class constructor
// call, if one was written.
func (l *lowerer) superTypes(list *cst.Node, data *ir.ClassData) *cst.Node {
	var superArgs *cst.Node
	explicit := false
	if list != nil {
		for _, e := range list.Children {
			if e == nil {
				continue
			}
			switch e.Kind {
			case cst.KindSuperTypeEntry:
				data.SuperTypes = append(data.SuperTypes, l.typeRef(e.First(cst.KindTypeReference), e, "super type"))
			case cst.KindSuperTypeCallEntry:
				t := l.typeRef(e.First(cst.KindConstructorCallee).First(cst.KindTypeReference), e, "super class")
				data.SuperTypes = append(data.SuperTypes, t)
				data.DelegatedSuperType = t.Clone()
				superArgs = e.First(cst.KindValueArgumentList)
				explicit = true
			case cst.KindDelegatedSuperTypeEntry:
				t := l.typeRef(e.First(cst.KindTypeReference), e, "delegated type")
				data.SuperTypes = append(data.SuperTypes, t)
				data.Delegates = append(data.Delegates, ir.Delegation{
					Type: t.Clone(),
					Expr: l.valueOrError(e.Expression(), e, "delegate expression"),
				})
			default:
				l.invariantf(e, "unexpected node in super-type list")
			}
		}
	}
	if explicit {
		return superArgs
	}
	if data.ClassKind == ir.ClassKindEnum {
		data.DelegatedSuperType = ir.EnumType(data.SelfType.Clone())
		data.SuperTypes = append([]*ir.TypeRef{data.DelegatedSuperType.Clone()}, data.SuperTypes...)
		return nil
	}
	data.DelegatedSuperType = ir.AnyType()
	if len(data.SuperTypes) == 0 {
		data.SuperTypes = []*ir.TypeRef{ir.AnyType()}
	}
	return nil
}

// members builds the class body: properties declared by val/var constructor
// parameters come first, then the primary constructor, then the members in
// source order, then synthesized enum and data-class members.
func (l *lowerer) members(n *cst.Node, cls *ir.Decl, data *ir.ClassData, superArgs *cst.Node) {
	body := n.First(cst.KindClassBody)
	primaryNode := n.First(cst.KindPrimaryConstructor)
	hasSecondary := len(body.All(cst.KindSecondaryConstructor)) > 0

	var primary *ir.Decl
	if data.ClassKind != ir.ClassKindInterface && (primaryNode != nil || !hasSecondary) {
		var props []*ir.Decl
		primary, props = l.primaryConstructor(primaryNode, cls, data, superArgs)
		data.Members = append(data.Members, props...)
		data.Members = append(data.Members, primary)
	}

	if body != nil {
		for _, c := range body.Children {
			if c == nil {
				continue
			}
			if !c.Kind.IsDeclaration() {
				l.invariantf(c, "unexpected node in class body")
			}
			data.Members = append(data.Members, l.decl(c))
		}
	}

	if data.ClassKind == ir.ClassKindEnum {
		data.Members = append(data.Members, l.enumMembers(cls, data)...)
	}
	if cls.Flags.Has(ir.FlagData) && primary != nil {
		data.Members = append(data.Members, l.dataMembers(cls, data, primary)...)
	}
}

// primaryConstructor converts n, or synthesizes an empty constructor when n
// is nil. It also returns the properties declared by val/var parameters.
func (l *lowerer) primaryConstructor(n *cst.Node, cls *ir.Decl, data *ir.ClassData, superArgs *cst.Node) (*ir.Decl, []*ir.Decl) {
	var d *ir.Decl
	if n != nil {
		d = l.header(n, ir.DeclConstructor, "<init>")
	} else {
		d = synthetic(ir.DeclConstructor, "<init>", cls.Span)
	}
	if data.ClassKind == ir.ClassKindObject {
		d.Visibility = ir.VisibilityPrivate
	}
	ctor := &ir.ConstructorData{ID: l.newFunc(), Primary: true, ReturnType: data.SelfType.Clone()}
	d.Data = ctor

	var props []*ir.Decl
	l.withFunc(ctor.ID, func() {
		for _, p := range n.First(cst.KindValueParameterList).All(cst.KindValueParameter) {
			param := l.valueParam(p, true)
			ctor.Params = append(ctor.Params, param)
			if param.Data.(*ir.ValueParameterData).ValOrVar != "" {
				props = append(props, l.parameterProperty(p, param))
			}
		}
		if data.ClassKind == ir.ClassKindAnnotation {
			return
		}
		ctor.Delegation = mk(ir.ExprDelegatedConstructorCall, d.Span, ir.DelegatedConstructorCallData{
			Type:     data.DelegatedSuperType.Clone(),
			Implicit: superArgs == nil,
			Args:     l.callArgs(superArgs),
		})
	})
	return d, props
}

// parameterProperty declares the property behind a val/var constructor
// parameter. It takes visibility and annotations from the parameter and is
// initialized from it.
func (l *lowerer) parameterProperty(n *cst.Node, param *ir.Decl) *ir.Decl {
	pd := param.Data.(*ir.ValueParameterData)
	d := l.header(n, ir.DeclProperty, param.Name)
	d.Flags &^= ir.FlagVararg
	data := &ir.PropertyData{
		Type:          pd.Type.Clone(),
		IsVar:         pd.ValOrVar == "var",
		FromParameter: true,
	}
	if l.opts.Stub {
		data.Initializer = ir.NewStub(n.Span)
	} else {
		data.Initializer = mk(ir.ExprPropertyGet, n.Span, ir.PropertyGetData{Ref: ir.Ref{Name: param.Name}})
	}
	d.Data = data
	l.accessors(d, data, nil)
	return d
}

func (l *lowerer) secondaryConstructor(n *cst.Node, cls *classScope) *ir.Decl {
	d := l.header(n, ir.DeclConstructor, "<init>")
	ctor := &ir.ConstructorData{ID: l.newFunc(), ReturnType: cls.self.Clone()}
	d.Data = ctor

	l.withFunc(ctor.ID, func() {
		ctor.Params = l.valueParams(n.First(cst.KindValueParameterList), true)
		call := ir.DelegatedConstructorCallData{Type: cls.super.Clone(), Implicit: true}
		if dc := n.First(cst.KindConstructorDelegationCall); dc != nil {
			call.Implicit = false
			if dc.HasKeyword("this") {
				call.This = true
				call.Type = cls.self.Clone()
			}
			call.Args = l.callArgs(dc.First(cst.KindValueArgumentList))
		}
		ctor.Delegation = mk(ir.ExprDelegatedConstructorCall, n.Span, call)
		ctor.Body = l.body(n.First(cst.KindBlock), ctor.ID)
	})
	return d
}

func (l *lowerer) enumEntry(n *cst.Node, cls *classScope) *ir.Decl {
	d := l.header(n, ir.DeclEnumEntry, declName(n))
	data := &ir.EnumEntryData{
		Type: cls.self.Clone(),
		Args: l.callArgs(n.First(cst.KindValueArgumentList)),
	}
	d.Data = data
	if body := n.First(cst.KindClassBody); body != nil {
		path := l.alloc.Path()
		path.Push(d.Name)
		defer path.Pop()
		for _, c := range body.Children {
			if c == nil {
				continue
			}
			if !c.Kind.IsDeclaration() {
				l.invariantf(c, "unexpected node in enum entry body")
			}
			data.Members = append(data.Members, l.decl(c))
		}
	}
	return d
}

// enumMembers synthesizes values() and valueOf(value: String).
func (l *lowerer) enumMembers(cls *ir.Decl, data *ir.ClassData) []*ir.Decl {
	values := synthetic(ir.DeclFunction, "values", cls.Span)
	values.Data = &ir.FunctionData{
		ID:         l.newFunc(),
		ReturnType: ir.UserType(ir.ArrayTypeName, ir.TypeArg{Type: data.SelfType.Clone()}),
	}

	valueOf := synthetic(ir.DeclFunction, "valueOf", cls.Span)
	param := synthetic(ir.DeclValueParameter, "value", cls.Span)
	param.Data = &ir.ValueParameterData{Type: ir.UserType(ir.StringTypeName)}
	valueOf.Data = &ir.FunctionData{
		ID:         l.newFunc(),
		Params:     []*ir.Decl{param},
		ReturnType: data.SelfType.Clone(),
	}
	return []*ir.Decl{values, valueOf}
}

// dataMembers synthesizes componentN() for each val/var constructor
// parameter and copy(...) with the current values as defaults.
func (l *lowerer) dataMembers(cls *ir.Decl, data *ir.ClassData, primary *ir.Decl) []*ir.Decl {
	var out []*ir.Decl
	var copyParams []*ir.Decl
	n := 0
	for _, p := range primary.Data.(*ir.ConstructorData).Params {
		pd := p.Data.(*ir.ValueParameterData)
		if pd.ValOrVar == "" {
			continue
		}
		n++
		comp := synthetic(ir.DeclFunction, fmt.Sprintf("component%d", n), cls.Span)
		comp.Flags |= ir.FlagOperator
		comp.Data = &ir.FunctionData{ID: l.newFunc(), ReturnType: pd.Type.Clone()}
		out = append(out, comp)

		cp := synthetic(ir.DeclValueParameter, p.Name, p.Span)
		def := ir.NewStub(p.Span)
		if !l.opts.Stub {
			def = mk(ir.ExprPropertyGet, p.Span, ir.PropertyGetData{
				Receiver: mk(ir.ExprThis, p.Span, ir.ThisData{}),
				Ref:      ir.Ref{Name: p.Name},
			})
		}
		cp.Data = &ir.ValueParameterData{Type: pd.Type.Clone(), Default: def}
		copyParams = append(copyParams, cp)
	}
	cp := synthetic(ir.DeclFunction, "copy", cls.Span)
	cp.Data = &ir.FunctionData{ID: l.newFunc(), Params: copyParams, ReturnType: data.SelfType.Clone()}
	return append(out, cp)
}
