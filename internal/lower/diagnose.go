package lower

import (
	"strings"

	"ktfront/internal/diag"
	"ktfront/internal/ir"
	"ktfront/internal/source"
)

// Diagnose reports every error marker left in f: Error expressions, error
// types, error references and malformed constants. Lowering itself never
// reports; callers run Diagnose over its result. A type copied to derived
// positions (accessors, componentN, copy) keeps its span and message, so each
// gap is reported once. It returns the number of diagnostics reported.
func Diagnose(f *ir.File, r diag.Reporter) int {
	if f == nil || r == nil {
		return 0
	}
	type gap struct {
		code diag.Code
		span source.Span
		msg  string
	}
	seen := make(map[gap]struct{})
	report := func(code diag.Code, sp source.Span, msg string) {
		k := gap{code, sp, msg}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		diag.ReportError(r, code, sp, msg)
	}
	ir.Inspect(f, func(node any) bool {
		switch v := node.(type) {
		case *ir.TypeRef:
			if v.IsError() {
				report(typeCode(v.Message), v.Span, v.Message)
			}
		case *ir.Expr:
			switch data := v.Data.(type) {
			case ir.ErrorData:
				report(exprCode(data.Message), v.Span, data.Message)
			case ir.ConstantData:
				if data.Malformed() {
					report(diag.LowMalformedLiteral, v.Span, malformedMessage(data))
				}
			case ir.CallData:
				if data.Callee.IsError() {
					report(refCode(data.Callee.Message, diag.LowUnsupportedCallee), v.Span, data.Callee.Message)
				}
			case ir.PropertyGetData:
				if data.Ref.IsError() {
					report(refCode(data.Ref.Message, diag.LowMissingChild), v.Span, data.Ref.Message)
				}
			case ir.AssignmentData:
				if data.Target.IsError() {
					report(refCode(data.Target.Message, diag.LowUnsupportedTarget), v.Span, data.Target.Message)
				}
			}
		}
		return true
	})
	return len(seen)
}

// ReportInvariant converts a broken-shape error into a diagnostic.
func ReportInvariant(r diag.Reporter, err *InvariantError) {
	if err == nil {
		return
	}
	diag.ReportError(r, diag.LowInternal, err.Span, err.Error())
}

func exprCode(msg string) diag.Code {
	switch {
	case strings.HasPrefix(msg, "missing "):
		return diag.LowMissingChild
	case strings.HasPrefix(msg, "malformed "):
		return diag.LowMalformedLiteral
	case strings.HasPrefix(msg, "unsupported selector"):
		return diag.LowUnsupportedSelector
	case strings.HasPrefix(msg, "unsupported "):
		return diag.LowUnsupportedOperator
	case strings.HasPrefix(msg, "return outside"):
		return diag.LowReturnOutsideFunction
	case strings.Contains(msg, "condition"):
		return diag.LowUnsupportedCondition
	}
	return diag.LowInternal
}

func typeCode(msg string) diag.Code {
	if strings.HasPrefix(msg, "missing ") {
		return diag.LowMissingChild
	}
	return diag.LowInvalidType
}

func refCode(msg string, fallback diag.Code) diag.Code {
	if strings.HasPrefix(msg, "missing ") {
		return diag.LowMissingChild
	}
	return fallback
}

func malformedMessage(c ir.ConstantData) string {
	if c.Message != "" {
		return "malformed " + c.Kind.String() + " literal: " + c.Message
	}
	return "malformed " + c.Kind.String() + " literal"
}
