package lower

import (
	"strings"

	"ktfront/internal/cst"
	"ktfront/internal/ir"
	"ktfront/internal/source"
)

func mk(kind ir.ExprKind, span source.Span, data ir.ExprData) *ir.Expr {
	return &ir.Expr{Kind: kind, Span: span, Data: data}
}

func missing(parent *cst.Node, what string) *ir.Expr {
	return ir.NewError(parent.Span, "missing "+what)
}

// value converts an expression outside of a body (initializer, default
// value, delegate). Stub mode does not convert it.
func (l *lowerer) value(n *cst.Node) *ir.Expr {
	if l.opts.Stub {
		return ir.NewStub(n.Span)
	}
	return l.expr(n)
}

// valueOrError is value for a required child.
func (l *lowerer) valueOrError(n, parent *cst.Node, what string) *ir.Expr {
	if n == nil {
		return missing(parent, what)
	}
	return l.value(n)
}

// required converts a required child expression.
func (l *lowerer) required(n, parent *cst.Node, what string) *ir.Expr {
	if n == nil {
		return missing(parent, what)
	}
	return l.expr(n)
}

// expr converts a node in expression position.
func (l *lowerer) expr(n *cst.Node) *ir.Expr {
	switch n.Kind {
	case cst.KindBlock:
		return mk(ir.ExprBlock, n.Span, ir.BlockData{Block: l.block(n)})
	case cst.KindCallExpression:
		return l.call(n, nil, false)
	case cst.KindReferenceExpression:
		return l.reference(n, nil, false)
	case cst.KindDotQualifiedExpression:
		return l.qualified(n, false)
	case cst.KindSafeAccessExpression:
		return l.qualified(n, true)
	case cst.KindBinaryExpression:
		return l.binary(n)
	case cst.KindBinaryWithType, cst.KindIsExpression:
		return l.typeOperator(n)
	case cst.KindPrefixExpression:
		return l.prefix(n)
	case cst.KindPostfixExpression:
		return l.postfix(n)
	case cst.KindParenthesized:
		return l.required(n.Expression(), n, "parenthesized expression")
	case cst.KindArrayAccessExpression:
		return l.indexAccess(n)
	case cst.KindIf:
		return l.ifExpr(n)
	case cst.KindWhen:
		return l.when(n)
	case cst.KindWhile:
		return l.loop(n, "", ir.LoopWhile)
	case cst.KindDoWhile:
		return l.loop(n, "", ir.LoopDoWhile)
	case cst.KindFor:
		return l.forLoop(n, "")
	case cst.KindBreak:
		return mk(ir.ExprJump, n.Span, ir.JumpData{Kind: ir.JumpBreak, Label: label(n)})
	case cst.KindContinue:
		return mk(ir.ExprJump, n.Span, ir.JumpData{Kind: ir.JumpContinue, Label: label(n)})
	case cst.KindReturn:
		return l.returnExpr(n)
	case cst.KindThrow:
		return mk(ir.ExprThrow, n.Span, ir.ThrowData{Value: l.required(n.Expression(), n, "thrown value")})
	case cst.KindLabeledExpression:
		return l.labeled(n)
	case cst.KindThis:
		return mk(ir.ExprThis, n.Span, ir.ThisData{Label: label(n)})
	case cst.KindSuper:
		data := ir.ThisData{Super: true, Label: label(n)}
		if t := n.First(cst.KindTypeReference); t != nil {
			data.SuperType = l.typeRef(t, n, "super type")
		}
		return mk(ir.ExprThis, n.Span, data)
	case cst.KindTry:
		return l.try(n)
	case cst.KindLambdaExpression:
		return l.lambda(n, "")
	case cst.KindObjectLiteral:
		return l.objectLiteral(n)
	case cst.KindIntegerConstant, cst.KindFloatConstant, cst.KindCharacterConstant,
		cst.KindBooleanConstant, cst.KindNull:
		return l.constant(n)
	case cst.KindStringTemplate:
		return l.stringTemplate(n)
	default:
		l.invariantf(n, "unexpected node in expression position")
		return nil
	}
}

// block converts a BLOCK's statements. Declarations become LocalDecl
// statements.
func (l *lowerer) block(n *cst.Node) *ir.Block {
	b := &ir.Block{Span: n.Span}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		switch {
		case c.Kind.IsExpression():
			b.Stmts = append(b.Stmts, l.expr(c))
		case c.Kind.IsDeclaration():
			b.Stmts = append(b.Stmts, l.localDecl(c))
		default:
			l.invariantf(c, "unexpected node in block")
		}
	}
	return b
}

// stmtBlock wraps a branch or loop body. A BLOCK is converted in place, any
// other expression becomes a one-statement block and nil an empty one.
func (l *lowerer) stmtBlock(n *cst.Node, span source.Span) *ir.Block {
	switch {
	case n == nil:
		return &ir.Block{Span: span}
	case n.Kind == cst.KindBlock:
		return l.block(n)
	default:
		return &ir.Block{Span: n.Span, Stmts: []*ir.Expr{l.expr(n)}}
	}
}

func (l *lowerer) localDecl(n *cst.Node) *ir.Expr {
	var d *ir.Decl
	l.alloc.WithLocal(func() {
		switch n.Kind {
		case cst.KindProperty:
			d = l.property(n, true)
		case cst.KindClass, cst.KindObjectDeclaration, cst.KindTypeAlias, cst.KindFun:
			d = l.decl(n)
		default:
			l.invariantf(n, "unexpected local declaration")
		}
	})
	return mk(ir.ExprLocalDecl, n.Span, ir.LocalDeclData{Decl: d})
}

// label returns the label of break, continue, return, this and labeled
// expressions without its @ marker.
func label(n *cst.Node) string {
	lb := n.First(cst.KindLabel)
	if lb == nil {
		return ""
	}
	return strings.Trim(lb.Text, "@")
}

func (l *lowerer) reference(n *cst.Node, receiver *ir.Expr, safe bool) *ir.Expr {
	data := ir.PropertyGetData{Receiver: receiver, Safe: safe}
	switch {
	case n.Text == "":
		data.Ref = ir.Ref{Kind: ir.RefError, Message: "missing reference name"}
	case n.Text == "field" && receiver == nil && l.accessorDepth > 0:
		data.Ref = ir.Ref{Kind: ir.RefBackingField}
	default:
		data.Ref = ir.Ref{Name: n.Text}
	}
	return mk(ir.ExprPropertyGet, n.Span, data)
}

// call converts a CALL_EXPRESSION. A callee that is not a plain name (f()(),
// (lambda)()) is called through invoke.
func (l *lowerer) call(n *cst.Node, receiver *ir.Expr, safe bool) *ir.Expr {
	data := ir.CallData{Receiver: receiver, Safe: safe}
	callee := n.Expression()
	switch {
	case callee == nil:
		data.Callee = ir.Ref{Kind: ir.RefError, Message: "missing callee"}
	case callee.Kind == cst.KindReferenceExpression && callee.Text != "":
		data.Callee = ir.Ref{Name: callee.Text}
	case receiver != nil:
		data.Callee = ir.Ref{Kind: ir.RefError, Message: "unsupported callee expression"}
	default:
		data.Receiver = l.expr(callee)
		data.Callee = ir.Ref{Name: "invoke"}
	}
	data.TypeArgs = l.typeArgs(n.First(cst.KindTypeArgumentList))
	data.Args = l.callArgs(n.First(cst.KindValueArgumentList))
	for _, la := range n.All(cst.KindLambdaArgument) {
		data.Args = append(data.Args, ir.Arg{Value: l.argValue(la.Expression(), la)})
	}
	return mk(ir.ExprCall, n.Span, data)
}

func (l *lowerer) callArgs(list *cst.Node) []ir.Arg {
	nodes := list.All(cst.KindValueArgument)
	if len(nodes) == 0 {
		return nil
	}
	out := make([]ir.Arg, 0, len(nodes))
	for _, a := range nodes {
		arg := ir.Arg{Spread: a.First(cst.KindStar) != nil}
		if name := a.First(cst.KindValueArgumentName); name != nil {
			arg.Name = name.Name()
			if arg.Name == "" {
				arg.Name = name.Text
			}
		}
		arg.Value = l.argValue(a.Expression(), a)
		out = append(out, arg)
	}
	return out
}

// argValue converts a direct call argument. Stub mode still converts
// literal arguments since they are trivially small.
func (l *lowerer) argValue(n, parent *cst.Node) *ir.Expr {
	if n == nil {
		return missing(parent, "argument value")
	}
	if l.opts.Stub && !isLiteral(n) {
		return ir.NewStub(n.Span)
	}
	return l.expr(n)
}

func isLiteral(n *cst.Node) bool {
	switch n.Kind {
	case cst.KindIntegerConstant, cst.KindFloatConstant, cst.KindCharacterConstant,
		cst.KindBooleanConstant, cst.KindNull:
		return true
	case cst.KindStringTemplate:
		for _, e := range n.Children {
			if e != nil && e.Kind != cst.KindLiteralStringEntry && e.Kind != cst.KindEscapeStringEntry {
				return false
			}
		}
		return true
	}
	return false
}

// qualified converts receiver.selector and receiver?.selector.
func (l *lowerer) qualified(n *cst.Node, safe bool) *ir.Expr {
	exprs := n.Expressions()
	switch len(exprs) {
	case 0:
		return missing(n, "receiver")
	case 1:
		return missing(n, "selector")
	}
	recv := l.expr(exprs[0])
	sel := exprs[1]
	switch sel.Kind {
	case cst.KindCallExpression:
		return l.call(sel, recv, safe)
	case cst.KindReferenceExpression:
		return l.reference(sel, recv, safe)
	default:
		return ir.NewError(sel.Span, "unsupported selector "+sel.Kind.String())
	}
}

// indexAccess rewrites a[i, j] as a.get(i, j).
func (l *lowerer) indexAccess(n *cst.Node) *ir.Expr {
	data := ir.CallData{
		Receiver: l.required(n.Expression(), n, "indexed value"),
		Callee:   ir.Ref{Name: "get"},
	}
	for _, idx := range n.First(cst.KindIndices).Expressions() {
		data.Args = append(data.Args, ir.Arg{Value: l.expr(idx)})
	}
	return mk(ir.ExprCall, n.Span, data)
}

func (l *lowerer) returnExpr(n *cst.Node) *ir.Expr {
	data := ir.ReturnData{Label: label(n)}
	if v := n.Expression(); v != nil {
		data.Value = l.expr(v)
	}
	if data.Label == "" {
		data.Target = l.currentFunc()
		if !data.Target.IsValid() {
			return ir.NewError(n.Span, "return outside of a function")
		}
	}
	return mk(ir.ExprReturn, n.Span, data)
}

// labeled attaches the label to the loop or lambda it names. Labels on any
// other expression have no target here and are dropped.
func (l *lowerer) labeled(n *cst.Node) *ir.Expr {
	name := label(n)
	inner := n.Expression()
	if inner == nil {
		return missing(n, "labeled expression")
	}
	switch inner.Kind {
	case cst.KindWhile:
		return l.loop(inner, name, ir.LoopWhile)
	case cst.KindDoWhile:
		return l.loop(inner, name, ir.LoopDoWhile)
	case cst.KindFor:
		return l.forLoop(inner, name)
	case cst.KindLambdaExpression:
		return l.lambda(inner, name)
	default:
		return l.expr(inner)
	}
}

func (l *lowerer) try(n *cst.Node) *ir.Expr {
	data := ir.TryData{Block: l.stmtBlock(n.First(cst.KindBlock), n.Span)}
	for _, c := range n.All(cst.KindCatch) {
		p := c.First(cst.KindValueParameter)
		if p == nil {
			p = c.First(cst.KindValueParameterList).First(cst.KindValueParameter)
		}
		var param *ir.Decl
		if p != nil {
			param = l.valueParam(p, true)
		} else {
			param = synthetic(ir.DeclValueParameter, noName, c.Span)
			param.Data = &ir.ValueParameterData{Type: ir.ErrorType(c.Span, "missing catch parameter")}
		}
		data.Catches = append(data.Catches, ir.Catch{
			Param: param,
			Block: l.stmtBlock(c.First(cst.KindBlock), c.Span),
		})
	}
	if f := n.First(cst.KindFinally); f != nil {
		data.Finally = l.stmtBlock(f.First(cst.KindBlock), f.Span)
	}
	return mk(ir.ExprTry, n.Span, data)
}

// lambda converts a function literal. Lambdas are not return targets:
// unlabeled returns inside them bind to the enclosing function.
func (l *lowerer) lambda(n *cst.Node, name string) *ir.Expr {
	lit := n.First(cst.KindFunctionLiteral)
	if lit == nil {
		return missing(n, "function literal")
	}
	d := &ir.Decl{Kind: ir.DeclAnonymousFunction, Name: "<anonymous>", Span: lit.Span}
	fn := &ir.FunctionData{ID: l.newFunc(), Label: name, ReturnType: ir.ImplicitType()}
	d.Data = fn
	fn.Params = l.valueParams(lit.First(cst.KindValueParameterList), false)
	fn.Body = l.stmtBlock(lit.First(cst.KindBlock), lit.Span)
	return mk(ir.ExprLambda, n.Span, ir.LambdaData{Fn: d})
}

func (l *lowerer) objectLiteral(n *cst.Node) *ir.Expr {
	decl := n.First(cst.KindObjectDeclaration)
	if decl == nil {
		return missing(n, "object declaration")
	}
	var d *ir.Decl
	l.alloc.WithLocal(func() {
		d = l.classLike(decl, ir.ClassKindObject, noName)
	})
	return mk(ir.ExprAnonymousObject, n.Span, ir.AnonymousObjectData{Class: d})
}

var typeOperators = map[string]ir.Operation{
	"is":  ir.OpIs,
	"!is": ir.OpNotIs,
	"as":  ir.OpAs,
	"as?": ir.OpSafeAs,
}

func (l *lowerer) typeOperator(n *cst.Node) *ir.Expr {
	op := n.First(cst.KindOperationReference)
	if op == nil {
		return missing(n, "operator")
	}
	code, ok := typeOperators[op.Text]
	if !ok {
		return ir.NewError(op.Span, "unsupported type operator "+op.Text)
	}
	return mk(ir.ExprTypeOperator, n.Span, ir.TypeOperatorData{
		Op:    code,
		Value: l.required(n.Expression(), n, "operand"),
		Type:  l.typeRef(n.First(cst.KindTypeReference), n, "target type"),
	})
}
