package testkit_test

import (
	"strings"
	"testing"

	"ktfront/internal/ir"
	"ktfront/internal/source"
	"ktfront/internal/testkit"
)

func TestCheckSpanInvariants(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("a.kt", []byte("val x = 1\n"))
	sf := fs.Get(id)

	lit := &ir.Expr{Kind: ir.ExprConstant, Span: source.Span{File: id, Start: 8, End: 9}}
	decl := &ir.Decl{Kind: ir.DeclProperty, Name: "x", Span: source.Span{File: id, Start: 0, End: 9},
		Data: &ir.PropertyData{Initializer: lit}}
	f := &ir.File{Span: source.Span{File: id, Start: 0, End: 10}, Decls: []*ir.Decl{decl}}

	if err := testkit.CheckSpanInvariants(f, sf); err != nil {
		t.Fatalf("valid file rejected: %v", err)
	}

	lit.Span.File = id + 1
	if err := testkit.CheckSpanInvariants(f, sf); err == nil || !strings.Contains(err.Error(), "points to file") {
		t.Fatalf("expected a foreign file error, got %v", err)
	}
	lit.Span.File = id

	decl.Span.End = 40
	if err := testkit.CheckSpanInvariants(f, sf); err == nil || !strings.Contains(err.Error(), "beyond content") {
		t.Fatalf("expected an out-of-bounds error, got %v", err)
	}
}

func TestCheckTree(t *testing.T) {
	typ := ir.UserType("kotlin.Int")
	param := &ir.Decl{Kind: ir.DeclValueParameter, Name: "x", Data: &ir.ValueParameterData{Type: typ}}
	fn := &ir.Decl{Kind: ir.DeclFunction, Name: "f",
		Data: &ir.FunctionData{Params: []*ir.Decl{param}, ReturnType: typ.Clone()}}
	f := &ir.File{Decls: []*ir.Decl{fn}}

	if err := testkit.CheckTree(f); err != nil {
		t.Fatalf("tree rejected: %v", err)
	}
	fn.Data.(*ir.FunctionData).ReturnType = typ
	if err := testkit.CheckTree(f); err == nil || !strings.Contains(err.Error(), "shared") {
		t.Fatalf("expected a shared type error, got %v", err)
	}
}
