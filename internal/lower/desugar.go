package lower

import (
	"unicode"

	"ktfront/internal/cst"
	"ktfront/internal/ir"
	"ktfront/internal/source"
)

// Operators that stay primitive operator calls.
var operatorCalls = map[string]ir.Operation{
	"==":  ir.OpEq,
	"!=":  ir.OpNotEq,
	"===": ir.OpIdentity,
	"!==": ir.OpNotIdentity,
	"<":   ir.OpLt,
	">":   ir.OpGt,
	"<=":  ir.OpLtEq,
	">=":  ir.OpGtEq,
	"&&":  ir.OpAnd,
	"||":  ir.OpOr,
}

// Operators lowered to calls of their conventional member function.
var conventionCalls = map[string]string{
	"+":   "plus",
	"-":   "minus",
	"*":   "times",
	"/":   "div",
	"%":   "rem",
	"..":  "rangeTo",
	"..<": "rangeUntil",
}

var assignments = map[string]ir.Operation{
	"=":  ir.OpAssign,
	"+=": ir.OpPlusAssign,
	"-=": ir.OpMinusAssign,
	"*=": ir.OpTimesAssign,
	"/=": ir.OpDivAssign,
	"%=": ir.OpRemAssign,
}

var prefixCalls = map[string]string{
	"-": "unaryMinus",
	"+": "unaryPlus",
	"!": "not",
}

var incrementCalls = map[string]string{
	"++": "inc",
	"--": "dec",
}

// Temporaries introduced by desugaring.
const (
	elvisTemp    = "<elvis>"
	iteratorTemp = "<iterator>"
)

func (l *lowerer) binary(n *cst.Node) *ir.Expr {
	op := n.First(cst.KindOperationReference)
	if op == nil {
		return missing(n, "operator")
	}
	var left, right *cst.Node
	exprs := n.Expressions()
	if len(exprs) > 0 {
		left = exprs[0]
	}
	if len(exprs) > 1 {
		right = exprs[1]
	}

	tok := op.Text
	if tok == "?:" {
		return l.elvis(n, left, right)
	}
	if code, ok := assignments[tok]; ok {
		return l.assignment(n, code, left, right)
	}
	if code, ok := operatorCalls[tok]; ok {
		return mk(ir.ExprOperatorCall, n.Span, ir.OperatorCallData{
			Op:   code,
			Args: []*ir.Expr{l.required(left, n, "left operand"), l.required(right, n, "right operand")},
		})
	}
	if name, ok := conventionCalls[tok]; ok {
		return conventionCall(n.Span, l.required(left, n, "left operand"), name, l.required(right, n, "right operand"))
	}
	switch tok {
	case "in":
		return contains(n.Span, l.required(right, n, "right operand"), l.required(left, n, "left operand"), false)
	case "!in":
		return contains(n.Span, l.required(right, n, "right operand"), l.required(left, n, "left operand"), true)
	}
	if isIdentifier(tok) {
		return conventionCall(n.Span, l.required(left, n, "left operand"), tok, l.required(right, n, "right operand"))
	}
	return ir.NewError(op.Span, "unsupported binary operator "+tok)
}

// conventionCall builds receiver.name(args...).
func conventionCall(span source.Span, receiver *ir.Expr, name string, args ...*ir.Expr) *ir.Expr {
	data := ir.CallData{Receiver: receiver, Callee: ir.Ref{Name: name}}
	for _, a := range args {
		data.Args = append(data.Args, ir.Arg{Value: a})
	}
	return mk(ir.ExprCall, span, data)
}

// contains builds container.contains(element), negated with not() for !in.
func contains(span source.Span, container, element *ir.Expr, negate bool) *ir.Expr {
	call := conventionCall(span, container, "contains", element)
	if negate {
		return conventionCall(span, call, "not")
	}
	return call
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// elvis rewrites `a ?: b` as
//
//	when (val <elvis> = a) { subject != null -> <elvis>; else -> b }
func (l *lowerer) elvis(n, left, right *cst.Node) *ir.Expr {
	span := n.Span
	temp := &ir.Decl{
		Kind:  ir.DeclProperty,
		Name:  elvisTemp,
		Span:  span,
		Flags: ir.FlagSynthetic,
		Data: &ir.PropertyData{
			Type:        ir.ImplicitType(),
			Local:       true,
			Initializer: l.required(left, n, "left operand"),
		},
	}
	notNull := mk(ir.ExprOperatorCall, span, ir.OperatorCallData{
		Op:   ir.OpNotEq,
		Args: []*ir.Expr{mk(ir.ExprWhenSubject, span, ir.WhenSubjectData{}), nullConst(span)},
	})
	return mk(ir.ExprWhen, span, ir.WhenData{
		SubjectVar: temp,
		Branches: []ir.WhenBranch{
			{
				Cond:   notNull,
				Result: &ir.Block{Span: span, Stmts: []*ir.Expr{temporary(span, elvisTemp)}},
				Span:   span,
			},
			elseBranch(span, l.stmtBlock(right, span), right == nil),
		},
	})
}

func temporary(span source.Span, name string) *ir.Expr {
	return mk(ir.ExprPropertyGet, span, ir.PropertyGetData{Ref: ir.Ref{Name: name}})
}

func nullConst(span source.Span) *ir.Expr {
	return mk(ir.ExprConstant, span, ir.ConstantData{Kind: ir.ConstNull})
}

func trueConst(span source.Span) *ir.Expr {
	return mk(ir.ExprConstant, span, ir.ConstantData{Kind: ir.ConstBoolean, Value: true})
}

// elseBranch is the trailing always-true branch. A missing right operand of
// an elvis is reported inside it.
func elseBranch(span source.Span, result *ir.Block, missingValue bool) ir.WhenBranch {
	if missingValue {
		result.Stmts = append(result.Stmts, ir.NewError(span, "missing right operand"))
	}
	return ir.WhenBranch{Cond: trueConst(span), Result: result, Else: true, Span: span}
}

// assignment lowers `target op value`. Only a simple name can be assigned;
// any other target becomes an error reference.
func (l *lowerer) assignment(n *cst.Node, op ir.Operation, left, right *cst.Node) *ir.Expr {
	return mk(ir.ExprAssignment, n.Span, ir.AssignmentData{
		Op:     op,
		Target: l.assignTarget(left),
		Value:  l.required(right, n, "assigned value"),
	})
}

func (l *lowerer) assignTarget(n *cst.Node) ir.Ref {
	if n == nil {
		return ir.Ref{Kind: ir.RefError, Message: "missing assignment target"}
	}
	switch n.Kind {
	case cst.KindParenthesized:
		return l.assignTarget(n.Expression())
	case cst.KindReferenceExpression:
		return l.reference(n, nil, false).Data.(ir.PropertyGetData).Ref
	case cst.KindDotQualifiedExpression, cst.KindSafeAccessExpression:
		return ir.Ref{Kind: ir.RefError, Message: "qualified assignment is not supported yet"}
	case cst.KindArrayAccessExpression:
		return ir.Ref{Kind: ir.RefError, Message: "indexed assignment is not supported yet"}
	}
	return ir.Ref{Kind: ir.RefError, Message: "unsupported assignment target " + n.Kind.String()}
}

func operatorToken(n *cst.Node) string {
	if op := n.First(cst.KindOperationReference); op != nil {
		return op.Text
	}
	return ""
}

func (l *lowerer) prefix(n *cst.Node) *ir.Expr {
	tok := operatorToken(n)
	operand := n.Expression()
	if name, ok := prefixCalls[tok]; ok {
		return conventionCall(n.Span, l.required(operand, n, "operand"), name)
	}
	if name, ok := incrementCalls[tok]; ok {
		return l.increment(n, operand, name)
	}
	if tok == "" {
		return missing(n, "operator")
	}
	return ir.NewError(n.Span, "unsupported prefix operator "+tok)
}

func (l *lowerer) postfix(n *cst.Node) *ir.Expr {
	tok := operatorToken(n)
	operand := n.Expression()
	if name, ok := incrementCalls[tok]; ok {
		return l.increment(n, operand, name)
	}
	switch tok {
	case "!!":
		return mk(ir.ExprOperatorCall, n.Span, ir.OperatorCallData{
			Op:   ir.OpCheckNotNull,
			Args: []*ir.Expr{l.required(operand, n, "operand")},
		})
	case "":
		return missing(n, "operator")
	}
	return ir.NewError(n.Span, "unsupported postfix operator "+tok)
}

// increment rewrites ++x and x++ as x = x.inc() (dec for --).
func (l *lowerer) increment(n, operand *cst.Node, name string) *ir.Expr {
	return mk(ir.ExprAssignment, n.Span, ir.AssignmentData{
		Op:     ir.OpAssign,
		Target: l.assignTarget(operand),
		Value:  conventionCall(n.Span, l.required(operand, n, "operand"), name),
	})
}

// ifExpr rewrites if/else as a subjectless when with the condition branch
// and a trailing always-true branch.
func (l *lowerer) ifExpr(n *cst.Node) *ir.Expr {
	cond := l.required(n.First(cst.KindCondition).Expression(), n, "if condition")
	then := l.stmtBlock(n.First(cst.KindThen).Expression(), n.Span)
	els := l.stmtBlock(n.First(cst.KindElse).Expression(), n.Span)
	return mk(ir.ExprWhen, n.Span, ir.WhenData{
		Branches: []ir.WhenBranch{
			{Cond: cond, Result: then, Span: n.Span},
			elseBranch(n.Span, els, false),
		},
	})
}

func (l *lowerer) when(n *cst.Node) *ir.Expr {
	data := ir.WhenData{}
	hasSubject := false
	if p := n.First(cst.KindProperty); p != nil {
		data.SubjectVar = l.property(p, true)
		hasSubject = true
	} else if s := n.Expression(); s != nil {
		data.Subject = l.expr(s)
		hasSubject = true
	}

	for _, e := range n.All(cst.KindWhenEntry) {
		br := ir.WhenBranch{Span: e.Span}
		result := e.Expression()
		if result == nil {
			br.Result = &ir.Block{Span: e.Span, Stmts: []*ir.Expr{missing(e, "when branch result")}}
		} else {
			br.Result = l.stmtBlock(result, e.Span)
		}
		if e.HasKeyword("else") {
			br.Else = true
			br.Cond = trueConst(e.Span)
		} else {
			br.Cond = l.whenCondition(e, hasSubject)
		}
		data.Branches = append(data.Branches, br)
	}
	return mk(ir.ExprWhen, n.Span, data)
}

func isWhenCondition(k cst.Kind) bool {
	switch k {
	case cst.KindWhenConditionExpression, cst.KindWhenConditionInRange, cst.KindWhenConditionIsPattern:
		return true
	}
	return false
}

// whenCondition builds a branch guard. With a subject the conditions of one
// branch are or-ed together; without one a branch takes exactly one boolean
// condition.
func (l *lowerer) whenCondition(entry *cst.Node, hasSubject bool) *ir.Expr {
	var conds []*cst.Node
	for _, c := range entry.Children {
		if c != nil && isWhenCondition(c.Kind) {
			conds = append(conds, c)
		}
	}
	if len(conds) == 0 {
		return missing(entry, "when condition")
	}
	if !hasSubject {
		if len(conds) != 1 || conds[0].Kind != cst.KindWhenConditionExpression {
			return ir.NewError(entry.Span, "when without subject takes exactly one boolean condition per branch")
		}
		return l.required(conds[0].Expression(), conds[0], "condition")
	}

	var out *ir.Expr
	for _, c := range conds {
		guard := l.subjectGuard(c)
		if out == nil {
			out = guard
			continue
		}
		out = mk(ir.ExprOperatorCall, entry.Span, ir.OperatorCallData{Op: ir.OpOr, Args: []*ir.Expr{out, guard}})
	}
	return out
}

func (l *lowerer) subjectGuard(c *cst.Node) *ir.Expr {
	subject := mk(ir.ExprWhenSubject, c.Span, ir.WhenSubjectData{})
	switch c.Kind {
	case cst.KindWhenConditionExpression:
		return mk(ir.ExprOperatorCall, c.Span, ir.OperatorCallData{
			Op:   ir.OpEq,
			Args: []*ir.Expr{subject, l.required(c.Expression(), c, "condition")},
		})
	case cst.KindWhenConditionInRange:
		negate := operatorToken(c) == "!in"
		return contains(c.Span, l.required(c.Expression(), c, "range"), subject, negate)
	case cst.KindWhenConditionIsPattern:
		return ir.NewError(c.Span, "type-test conditions are not supported yet")
	default:
		l.invariantf(c, "unexpected when condition")
		return nil
	}
}

func (l *lowerer) loop(n *cst.Node, name string, kind ir.LoopKind) *ir.Expr {
	return mk(ir.ExprLoop, n.Span, ir.LoopData{
		Kind:  kind,
		Label: name,
		Cond:  l.required(n.First(cst.KindCondition).Expression(), n, "loop condition"),
		Body:  l.stmtBlock(n.First(cst.KindBody).Expression(), n.Span),
	})
}

// forLoop rewrites `for (x in xs) body` as
//
//	{ val <iterator> = xs.iterator(); while (<iterator>.hasNext()) { val x = <iterator>.next(); body } }
func (l *lowerer) forLoop(n *cst.Node, name string) *ir.Expr {
	span := n.Span
	rng := l.required(n.First(cst.KindLoopRange).Expression(), n, "loop range")
	iter := &ir.Decl{
		Kind:  ir.DeclProperty,
		Name:  iteratorTemp,
		Span:  span,
		Flags: ir.FlagSynthetic,
		Data: &ir.PropertyData{
			Type:        ir.ImplicitType(),
			Local:       true,
			Initializer: conventionCall(span, rng, "iterator"),
		},
	}

	var first *ir.Expr
	if p := n.First(cst.KindValueParameter); p != nil {
		v := l.header(p, ir.DeclProperty, declName(p))
		v.Data = &ir.PropertyData{
			Type:        l.optionalType(p.First(cst.KindTypeReference)),
			Local:       true,
			Initializer: conventionCall(span, temporary(span, iteratorTemp), "next"),
		}
		first = mk(ir.ExprLocalDecl, p.Span, ir.LocalDeclData{Decl: v})
	} else {
		first = missing(n, "loop variable")
	}
	body := l.stmtBlock(n.First(cst.KindBody).Expression(), span)
	body.Stmts = append([]*ir.Expr{first}, body.Stmts...)

	loop := mk(ir.ExprLoop, span, ir.LoopData{
		Kind:  ir.LoopWhile,
		Label: name,
		Cond:  conventionCall(span, temporary(span, iteratorTemp), "hasNext"),
		Body:  body,
	})
	return mk(ir.ExprBlock, span, ir.BlockData{Block: &ir.Block{Span: span, Stmts: []*ir.Expr{
		mk(ir.ExprLocalDecl, span, ir.LocalDeclData{Decl: iter}),
		loop,
	}}})
}
