//nolint:errcheck // Type assertions are checked by construction
package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Printer dumps IR as indented pseudo-source.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new IR printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes the file to w.
func Dump(w io.Writer, f *File) error {
	return NewPrinter(w).PrintFile(f)
}

// PrintFile prints a complete file.
func (p *Printer) PrintFile(f *File) error {
	p.printf("file %s\n", f.Path)
	if f.Package != "" {
		p.printf("package %s\n", f.Package)
	}
	for _, imp := range f.Imports {
		p.printf("import %s", imp.Path)
		if imp.Wildcard {
			p.printf(".*")
		}
		if imp.Alias != "" {
			p.printf(" as %s", imp.Alias)
		}
		p.printf("\n")
	}
	for _, a := range f.Annotations {
		p.printAnnotation(a)
		p.printf("\n")
	}
	for _, d := range f.Decls {
		p.printf("\n")
		p.PrintDecl(d)
	}
	return p.err
}

// PrintDecl prints one declaration and its members.
func (p *Printer) PrintDecl(d *Decl) {
	p.printIndent()
	for _, a := range d.Annotations {
		p.printAnnotation(a)
		p.printf(" ")
	}
	if d.Visibility != VisibilityUnknown {
		p.printf("%s ", d.Visibility)
	}
	if d.Modality != ModalityUnset {
		p.printf("%s ", d.Modality)
	}
	if d.Flags != 0 {
		p.printf("%s ", d.Flags)
	}

	switch data := d.Data.(type) {
	case *ClassData:
		p.printf("%s %s", data.ClassKind, d.Name)
		p.printTypeParams(d.TypeParams)
		p.printf(" [%s #%d]", data.ClassID, data.Symbol)
		if len(data.SuperTypes) > 0 {
			p.printf(" : ")
			for i, t := range data.SuperTypes {
				if i > 0 {
					p.printf(", ")
				}
				p.printf("%s", t)
			}
		}
		if data.DelegatedSuperType != nil {
			p.printf(" (delegates to %s)", data.DelegatedSuperType)
		}
		p.printf(" {\n")
		p.indent++
		for _, dg := range data.Delegates {
			p.printIndent()
			p.printf("by %s = ", dg.Type)
			p.printExpr(dg.Expr)
			p.printf("\n")
		}
		for _, m := range data.Members {
			p.PrintDecl(m)
		}
		p.indent--
		p.printIndent()
		p.printf("}\n")

	case *TypeAliasData:
		p.printf("typealias %s", d.Name)
		p.printTypeParams(d.TypeParams)
		p.printf(" = %s [%s #%d]\n", data.Expanded, data.ClassID, data.Symbol)

	case *FunctionData:
		if d.Kind == DeclAnonymousFunction {
			p.printf("lambda")
			if data.Label != "" {
				p.printf("@%s", data.Label)
			}
		} else {
			p.printf("fun")
			p.printTypeParams(d.TypeParams)
			p.printf(" ")
			if data.Receiver != nil {
				p.printf("%s.", data.Receiver)
			}
			p.printf("%s", d.Name)
		}
		p.printParams(data.Params)
		p.printf(": %s (fn=%d)", data.ReturnType, data.ID)
		p.printBody(data.Body)

	case *ConstructorData:
		if data.Primary {
			p.printf("primary ")
		}
		p.printf("constructor")
		p.printParams(data.Params)
		p.printf(": %s (fn=%d)", data.ReturnType, data.ID)
		if data.Delegation != nil {
			p.printf(" : ")
			p.printExpr(data.Delegation)
		}
		p.printBody(data.Body)

	case *PropertyData:
		kw := "val"
		if data.IsVar {
			kw = "var"
		}
		p.printf("%s", kw)
		p.printTypeParams(d.TypeParams)
		p.printf(" ")
		if data.Receiver != nil {
			p.printf("%s.", data.Receiver)
		}
		p.printf("%s: %s", d.Name, data.Type)
		if data.FromParameter {
			p.printf(" (from parameter)")
		}
		if data.Initializer != nil {
			p.printf(" = ")
			p.printExpr(data.Initializer)
		}
		if data.Delegate != nil {
			p.printf(" by ")
			p.printExpr(data.Delegate)
		}
		p.printf("\n")
		p.indent++
		if data.Getter != nil {
			p.PrintDecl(data.Getter)
		}
		if data.Setter != nil {
			p.PrintDecl(data.Setter)
		}
		p.indent--

	case *AccessorData:
		if data.Default {
			p.printf("default ")
		}
		if data.Getter {
			p.printf("get")
		} else {
			p.printf("set")
		}
		p.printParams(data.Params)
		p.printf(": %s (fn=%d)", data.ReturnType, data.ID)
		p.printBody(data.Body)

	case *ValueParameterData:
		if data.ValOrVar != "" {
			p.printf("%s ", data.ValOrVar)
		}
		p.printf("%s: %s", d.Name, data.Type)
		if data.Default != nil {
			p.printf(" = ")
			p.printExpr(data.Default)
		}
		p.printf("\n")

	case *InitializerData:
		p.printf("init")
		p.printBody(data.Body)

	case *EnumEntryData:
		p.printf("entry %s: %s", d.Name, data.Type)
		if len(data.Args) > 0 {
			p.printArgs(data.Args)
		}
		if len(data.Members) == 0 {
			p.printf("\n")
			break
		}
		p.printf(" {\n")
		p.indent++
		for _, m := range data.Members {
			p.PrintDecl(m)
		}
		p.indent--
		p.printIndent()
		p.printf("}\n")

	case *TypeParameterData:
		p.printf("type-parameter %s #%d\n", d.Name, data.Symbol)

	default:
		p.printf("<%s %s>\n", d.Kind, d.Name)
	}
}

func (p *Printer) printTypeParams(tps []*Decl) {
	if len(tps) == 0 {
		return
	}
	p.printf("<")
	for i, tp := range tps {
		if i > 0 {
			p.printf(", ")
		}
		data := tp.Data.(*TypeParameterData)
		if data.Variance != Invariant {
			p.printf("%s ", data.Variance)
		}
		if tp.Flags.Has(FlagReified) {
			p.printf("reified ")
		}
		p.printf("%s", tp.Name)
		for j, b := range data.Bounds {
			if j == 0 {
				p.printf(" : ")
			} else {
				p.printf(" & ")
			}
			p.printf("%s", b)
		}
	}
	p.printf(">")
}

func (p *Printer) printParams(params []*Decl) {
	p.printf("(")
	for i, param := range params {
		if i > 0 {
			p.printf(", ")
		}
		data := param.Data.(*ValueParameterData)
		if param.Flags.Has(FlagVararg) {
			p.printf("vararg ")
		}
		p.printf("%s: %s", param.Name, data.Type)
		if data.Default != nil {
			p.printf(" = ")
			p.printExpr(data.Default)
		}
	}
	p.printf(")")
}

func (p *Printer) printBody(b *Block) {
	if b == nil {
		p.printf("\n")
		return
	}
	p.printf(" ")
	p.printBlock(b)
	p.printf("\n")
}

func (p *Printer) printBlock(b *Block) {
	if b.IsEmpty() {
		p.printf("{}")
		return
	}
	p.printf("{\n")
	p.indent++
	for _, s := range b.Stmts {
		p.printIndent()
		p.printExpr(s)
		p.printf("\n")
	}
	p.indent--
	p.printIndent()
	p.printf("}")
}

func (p *Printer) printAnnotation(a Annotation) {
	p.printf("@")
	if a.UseSite != "" {
		p.printf("%s:", a.UseSite)
	}
	p.printf("%s", a.Type)
	if len(a.Args) > 0 {
		p.printArgs(a.Args)
	}
}

func (p *Printer) printArgs(args []Arg) {
	p.printf("(")
	for i, a := range args {
		if i > 0 {
			p.printf(", ")
		}
		if a.Name != "" {
			p.printf("%s = ", a.Name)
		}
		if a.Spread {
			p.printf("*")
		}
		p.printExpr(a.Value)
	}
	p.printf(")")
}

func (p *Printer) printRef(r Ref) {
	switch r.Kind {
	case RefBackingField:
		p.printf("field")
	case RefError:
		p.printf("<error ref: %s>", r.Message)
	default:
		p.printf("%s", r.Name)
	}
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>")
		return
	}

	switch e.Kind {
	case ExprCall:
		data := e.Data.(CallData)
		if data.Receiver != nil {
			p.printExpr(data.Receiver)
			if data.Safe {
				p.printf("?.")
			} else {
				p.printf(".")
			}
		}
		p.printRef(data.Callee)
		if len(data.TypeArgs) > 0 {
			var sb strings.Builder
			writeArgs(&sb, data.TypeArgs)
			p.printf("%s", sb.String())
		}
		p.printArgs(data.Args)

	case ExprOperatorCall:
		data := e.Data.(OperatorCallData)
		p.printf("(")
		if len(data.Args) == 1 {
			p.printExpr(data.Args[0])
			p.printf("%s", data.Op)
		} else {
			for i, a := range data.Args {
				if i > 0 {
					p.printf(" %s ", data.Op)
				}
				p.printExpr(a)
			}
		}
		p.printf(")")

	case ExprPropertyGet:
		data := e.Data.(PropertyGetData)
		if data.Receiver != nil {
			p.printExpr(data.Receiver)
			if data.Safe {
				p.printf("?.")
			} else {
				p.printf(".")
			}
		}
		p.printRef(data.Ref)

	case ExprAssignment:
		data := e.Data.(AssignmentData)
		p.printRef(data.Target)
		p.printf(" %s ", data.Op)
		p.printExpr(data.Value)

	case ExprConstant:
		data := e.Data.(ConstantData)
		p.printConstant(data)

	case ExprStringTemplate:
		data := e.Data.(StringTemplateData)
		p.printf("template(")
		for i, part := range data.Parts {
			if i > 0 {
				p.printf(" + ")
			}
			p.printExpr(part)
		}
		p.printf(")")

	case ExprBlock:
		data := e.Data.(BlockData)
		p.printBlock(data.Block)

	case ExprWhen:
		data := e.Data.(WhenData)
		p.printf("when")
		if data.SubjectVar != nil {
			p.printf(" (val %s = ", data.SubjectVar.Name)
			if pd, ok := data.SubjectVar.Data.(*PropertyData); ok {
				p.printExpr(pd.Initializer)
			}
			p.printf(")")
		} else if data.Subject != nil {
			p.printf(" (")
			p.printExpr(data.Subject)
			p.printf(")")
		}
		p.printf(" {\n")
		p.indent++
		for _, b := range data.Branches {
			p.printIndent()
			if b.Else {
				p.printf("else")
			} else {
				p.printExpr(b.Cond)
			}
			p.printf(" -> ")
			p.printBlock(b.Result)
			p.printf("\n")
		}
		p.indent--
		p.printIndent()
		p.printf("}")

	case ExprWhenSubject:
		p.printf("$subj$")

	case ExprReturn:
		data := e.Data.(ReturnData)
		p.printf("return")
		if data.Label != "" {
			p.printf("@%s", data.Label)
		} else {
			p.printf("@fn%d", data.Target)
		}
		if data.Value != nil {
			p.printf(" ")
			p.printExpr(data.Value)
		}

	case ExprDelegatedConstructorCall:
		data := e.Data.(DelegatedConstructorCallData)
		if data.This {
			p.printf("this")
		} else {
			p.printf("super<%s>", data.Type)
		}
		p.printArgs(data.Args)

	case ExprStub:
		p.printf("STUB")

	case ExprError:
		data := e.Data.(ErrorData)
		p.printf("<error: %s>", data.Message)

	case ExprThis:
		data := e.Data.(ThisData)
		if data.Super {
			p.printf("super")
			if data.SuperType != nil {
				p.printf("<%s>", data.SuperType)
			}
		} else {
			p.printf("this")
		}
		if data.Label != "" {
			p.printf("@%s", data.Label)
		}

	case ExprTypeOperator:
		data := e.Data.(TypeOperatorData)
		p.printf("(")
		p.printExpr(data.Value)
		p.printf(" %s %s)", data.Op, data.Type)

	case ExprLambda:
		data := e.Data.(LambdaData)
		p.printf("\n")
		p.indent++
		p.PrintDecl(data.Fn)
		p.indent--
		p.printIndent()

	case ExprAnonymousObject:
		data := e.Data.(AnonymousObjectData)
		p.printf("\n")
		p.indent++
		p.PrintDecl(data.Class)
		p.indent--
		p.printIndent()

	case ExprLoop:
		data := e.Data.(LoopData)
		if data.Label != "" {
			p.printf("%s@ ", data.Label)
		}
		if data.Kind == LoopDoWhile {
			p.printf("do ")
			p.printBlock(data.Body)
			p.printf(" while (")
			p.printExpr(data.Cond)
			p.printf(")")
		} else {
			p.printf("while (")
			p.printExpr(data.Cond)
			p.printf(") ")
			p.printBlock(data.Body)
		}

	case ExprJump:
		data := e.Data.(JumpData)
		if data.Kind == JumpContinue {
			p.printf("continue")
		} else {
			p.printf("break")
		}
		if data.Label != "" {
			p.printf("@%s", data.Label)
		}

	case ExprThrow:
		data := e.Data.(ThrowData)
		p.printf("throw ")
		p.printExpr(data.Value)

	case ExprTry:
		data := e.Data.(TryData)
		p.printf("try ")
		p.printBlock(data.Block)
		for _, c := range data.Catches {
			p.printf(" catch (%s: %s) ", c.Param.Name, c.Param.Data.(*ValueParameterData).Type)
			p.printBlock(c.Block)
		}
		if data.Finally != nil {
			p.printf(" finally ")
			p.printBlock(data.Finally)
		}

	case ExprLocalDecl:
		data := e.Data.(LocalDeclData)
		p.printf("\n")
		p.PrintDecl(data.Decl)
		p.printIndent()

	default:
		p.printf("<%s>", e.Kind)
	}
}

func (p *Printer) printConstant(c ConstantData) {
	if c.Malformed() {
		p.printf("<malformed %s: %s>", c.Kind, c.Message)
		return
	}
	if r, ok := c.Value.(rune); ok && c.Kind == ConstChar {
		p.printf("%s", strconv.QuoteRune(r))
		return
	}
	switch v := c.Value.(type) {
	case nil:
		p.printf("null")
	case string:
		p.printf("%s", strconv.Quote(v))
	case int64:
		p.printf("%dL", v)
	case float32:
		p.printf("%vf", v)
	default:
		p.printf("%v", v)
	}
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
