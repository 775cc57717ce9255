package lower

import (
	"strings"

	"ktfront/internal/cst"
	"ktfront/internal/ir"
	"ktfront/internal/literal"
)

// constant converts a literal token. Malformed numbers keep their kind with
// a nil value and the parse message; malformed characters become errors.
func (l *lowerer) constant(n *cst.Node) *ir.Expr {
	var data ir.ConstantData
	switch n.Kind {
	case cst.KindIntegerConstant:
		v, long, err := literal.Integer(n.Text)
		data.Kind = ir.ConstInt
		if long {
			data.Kind = ir.ConstLong
		}
		if err != nil {
			data.Message = err.Error()
		} else {
			data.Value = v
		}

	case cst.KindFloatConstant:
		v, single, err := literal.Float(n.Text)
		data.Kind = ir.ConstDouble
		if single {
			data.Kind = ir.ConstFloat
		}
		if err != nil {
			data.Message = err.Error()
		} else {
			data.Value = v
		}

	case cst.KindCharacterConstant:
		r, ok := literal.Character(n.Text)
		if !ok {
			return ir.NewError(n.Span, "malformed character literal "+n.Text)
		}
		data.Kind = ir.ConstChar
		data.Value = r

	case cst.KindBooleanConstant:
		b, err := literal.Boolean(n.Text)
		data.Kind = ir.ConstBoolean
		if err != nil {
			data.Message = err.Error()
		} else {
			data.Value = b
		}

	case cst.KindNull:
		data.Kind = ir.ConstNull

	default:
		l.invariantf(n, "unexpected literal")
	}
	return mk(ir.ExprConstant, n.Span, data)
}

// stringTemplate converts a string literal. A template made only of literal
// text and escapes folds into one String constant.
func (l *lowerer) stringTemplate(n *cst.Node) *ir.Expr {
	var parts []*ir.Expr
	var text strings.Builder
	constant := true
	for _, e := range n.Children {
		if e == nil {
			continue
		}
		part := l.templateEntry(e)
		parts = append(parts, part)
		if c, ok := part.Data.(ir.ConstantData); ok && c.Kind == ir.ConstString {
			text.WriteString(c.Value.(string))
			continue
		}
		constant = false
	}
	if constant {
		return mk(ir.ExprConstant, n.Span, ir.ConstantData{Kind: ir.ConstString, Value: text.String()})
	}
	return mk(ir.ExprStringTemplate, n.Span, ir.StringTemplateData{Parts: parts})
}

func (l *lowerer) templateEntry(e *cst.Node) *ir.Expr {
	switch e.Kind {
	case cst.KindLiteralStringEntry:
		return mk(ir.ExprConstant, e.Span, ir.ConstantData{Kind: ir.ConstString, Value: e.Text})
	case cst.KindEscapeStringEntry:
		r, ok := literal.Escape(e.Text)
		if !ok {
			return ir.NewError(e.Span, "malformed escape sequence "+e.Text)
		}
		return mk(ir.ExprConstant, e.Span, ir.ConstantData{Kind: ir.ConstString, Value: string(r)})
	case cst.KindShortStringEntry, cst.KindLongStringEntry:
		return l.required(e.Expression(), e, "template expression")
	default:
		l.invariantf(e, "unexpected node in string template")
		return nil
	}
}
