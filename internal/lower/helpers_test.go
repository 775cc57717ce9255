package lower_test

import (
	"testing"

	"ktfront/internal/cst"
	"ktfront/internal/ir"
	"ktfront/internal/lower"
	"ktfront/internal/testkit"
)

func file(decls ...*cst.Node) *cst.Node {
	pkg := cst.New(cst.KindPackageDirective, cst.Leaf(cst.KindQualifiedName, "demo"))
	return cst.New(cst.KindFile, append([]*cst.Node{pkg}, decls...)...)
}

func typ(name string) *cst.Node {
	return cst.New(cst.KindTypeReference, cst.New(cst.KindUserType, cst.Ident(name)))
}

func params(ps ...*cst.Node) *cst.Node {
	return cst.New(cst.KindValueParameterList, ps...)
}

func param(keyword, name, typeName string) *cst.Node {
	var kw *cst.Node
	if keyword != "" {
		kw = cst.Keyword(keyword)
	}
	return cst.New(cst.KindValueParameter, kw, cst.Ident(name), typ(typeName))
}

// fun builds `fun name(params): ret body`; ret and body may be nil.
func fun(name string, ps *cst.Node, ret, body *cst.Node) *cst.Node {
	return cst.New(cst.KindFun, cst.Keyword("fun"), cst.Ident(name), ps, ret, body)
}

func block(stmts ...*cst.Node) *cst.Node {
	return cst.New(cst.KindBlock, stmts...)
}

func property(keyword, name string, typeRef, init *cst.Node) *cst.Node {
	return cst.New(cst.KindProperty, cst.Keyword(keyword), cst.Ident(name), typeRef, init)
}

func class(mods *cst.Node, name string, primary, body *cst.Node) *cst.Node {
	return cst.New(cst.KindClass, mods, cst.Keyword("class"), cst.Ident(name), primary, body)
}

func primary(ps ...*cst.Node) *cst.Node {
	return cst.New(cst.KindPrimaryConstructor, params(ps...))
}

func classBody(decls ...*cst.Node) *cst.Node {
	return cst.New(cst.KindClassBody, decls...)
}

func intLit(text string) *cst.Node { return cst.Leaf(cst.KindIntegerConstant, text) }

func binary(left *cst.Node, op string, right *cst.Node) *cst.Node {
	return cst.New(cst.KindBinaryExpression, left, cst.Op(op), right)
}

func build(t *testing.T, root *cst.Node, stub bool) *ir.File {
	t.Helper()
	f, err := lower.Build(root, lower.Options{Stub: stub, Path: "demo.kt"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if errs := ir.Validate(f, stub); len(errs) > 0 {
		t.Fatalf("Validate: %v", errs)
	}
	if err := testkit.CheckTree(f); err != nil {
		t.Fatalf("CheckTree: %v", err)
	}
	return f
}

func memberNames(d *ir.Decl) []string {
	var out []string
	for _, m := range d.Data.(*ir.ClassData).Members {
		out = append(out, m.Kind.String()+" "+m.Name)
	}
	return out
}

// onlyStmt returns the single statement of a body block.
func onlyStmt(t *testing.T, b *ir.Block) *ir.Expr {
	t.Helper()
	if b == nil || len(b.Stmts) != 1 {
		t.Fatalf("expected a one-statement block, got %+v", b)
	}
	return b.Stmts[0]
}

// initializer returns the initializer of the top-level property at index i.
func initializer(t *testing.T, f *ir.File, i int) *ir.Expr {
	t.Helper()
	pd, ok := f.Decls[i].Data.(*ir.PropertyData)
	if !ok {
		t.Fatalf("decl %d is %s, not a property", i, f.Decls[i].Kind)
	}
	return pd.Initializer
}
