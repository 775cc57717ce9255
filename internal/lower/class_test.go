package lower_test

import (
	"slices"
	"strings"
	"testing"

	"ktfront/internal/cst"
	"ktfront/internal/diag"
	"ktfront/internal/ir"
	"ktfront/internal/lower"
	"ktfront/internal/source"
)

// classWithSupers builds `class name(params) : entries`.
func classWithSupers(name string, ctor *cst.Node, entries ...*cst.Node) *cst.Node {
	return cst.New(cst.KindClass, cst.Keyword("class"), cst.Ident(name), ctor,
		cst.New(cst.KindSuperTypeList, entries...))
}

func superEntry(name string) *cst.Node {
	return cst.New(cst.KindSuperTypeEntry, typ(name))
}

func typeNames(ts []*ir.TypeRef) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.String())
	}
	return out
}

func primaryDelegation(t *testing.T, cls *ir.ClassData) ir.DelegatedConstructorCallData {
	t.Helper()
	ctor := cls.PrimaryConstructor()
	if ctor == nil {
		t.Fatalf("class has no primary constructor")
	}
	call := ctor.Data.(*ir.ConstructorData).Delegation
	if call == nil || call.Kind != ir.ExprDelegatedConstructorCall {
		t.Fatalf("primary constructor delegation = %+v", call)
	}
	return call.Data.(ir.DelegatedConstructorCallData)
}

func TestSuperClassCall(t *testing.T) {
	call := cst.New(cst.KindSuperTypeCallEntry,
		cst.New(cst.KindConstructorCallee, typ("Base")),
		cst.New(cst.KindValueArgumentList, cst.New(cst.KindValueArgument, cst.Ref("v"))),
	)
	f := build(t, file(classWithSupers("Child", primary(param("", "v", "Int")), call, superEntry("Marker"))), false)
	cls := f.Decls[0].Data.(*ir.ClassData)

	if got := cls.DelegatedSuperType.String(); got != "Base" {
		t.Fatalf("delegated super type = %q, want Base", got)
	}
	if got := typeNames(cls.SuperTypes); !slices.Equal(got, []string{"Base", "Marker"}) {
		t.Fatalf("super types = %v", got)
	}
	del := primaryDelegation(t, cls)
	if del.Implicit || del.This || del.Type.String() != "Base" {
		t.Fatalf("delegation = %+v, want an explicit call of Base", del)
	}
	if len(del.Args) != 1 {
		t.Fatalf("delegation args = %+v", del.Args)
	}
	if got, ok := del.Args[0].Value.Data.(ir.PropertyGetData); !ok || got.Ref.Name != "v" {
		t.Fatalf("delegation argument = %+v, want a read of v", del.Args[0].Value)
	}
}

func TestDelegatedSuperType(t *testing.T) {
	entry := cst.New(cst.KindDelegatedSuperTypeEntry, typ("Shape"), cst.Ref("base"))
	root := file(classWithSupers("Square", primary(param("", "base", "Shape")), entry))

	for _, stub := range []bool{false, true} {
		f := build(t, root, stub)
		cls := f.Decls[0].Data.(*ir.ClassData)
		if len(cls.Delegates) != 1 || cls.Delegates[0].Type.String() != "Shape" {
			t.Fatalf("stub=%v: delegates = %+v", stub, cls.Delegates)
		}
		want := ir.ExprPropertyGet
		if stub {
			want = ir.ExprStub
		}
		if got := cls.Delegates[0].Expr.Kind; got != want {
			t.Errorf("stub=%v: delegate expression is %s, want %s", stub, got, want)
		}
		if got := cls.DelegatedSuperType.String(); got != ir.AnyTypeName {
			t.Errorf("stub=%v: delegated super type = %q, want %s", stub, got, ir.AnyTypeName)
		}
		if got := typeNames(cls.SuperTypes); !slices.Equal(got, []string{"Shape"}) {
			t.Errorf("stub=%v: super types = %v", stub, got)
		}
	}
}

func TestInterfacesOnlyDelegateToAny(t *testing.T) {
	f := build(t, file(classWithSupers("Impl", nil, superEntry("A"), superEntry("B"))), false)
	cls := f.Decls[0].Data.(*ir.ClassData)

	if got := cls.DelegatedSuperType.String(); got != ir.AnyTypeName {
		t.Fatalf("delegated super type = %q, want %s", got, ir.AnyTypeName)
	}
	if got := typeNames(cls.SuperTypes); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("super types = %v, Any must not be added next to written ones", got)
	}
	del := primaryDelegation(t, cls)
	if !del.Implicit || del.Type.String() != ir.AnyTypeName || len(del.Args) != 0 {
		t.Fatalf("delegation = %+v, want an implicit call of %s", del, ir.AnyTypeName)
	}
}

func TestMissingParameterTypeReportedOnce(t *testing.T) {
	untyped := cst.New(cst.KindValueParameter, cst.Keyword("val"), cst.Ident("x"))
	untyped.Span = source.Span{Start: 11, End: 16}
	f := build(t, file(class(cst.Modifiers("data"), "P", primary(untyped), nil)), false)

	// The type is copied into the property, its getter, component1 and copy.
	var errTypes int
	ir.Inspect(f, func(n any) bool {
		if tr, ok := n.(*ir.TypeRef); ok && tr.IsError() {
			errTypes++
		}
		return true
	})
	if errTypes < 2 {
		t.Fatalf("expected the error type in derived positions, found %d", errTypes)
	}

	bag := diag.NewBag(0)
	if n := lower.Diagnose(f, diag.BagReporter{Bag: bag}); n != 1 || bag.Len() != 1 {
		t.Fatalf("Diagnose = %d, want 1:\n%s", n, diag.FormatShort(bag.Items(), nil))
	}
	if got := bag.Items()[0]; got.Code != diag.LowMissingChild || !strings.Contains(got.Message, "parameter type") {
		t.Fatalf("unexpected diagnostic %+v", got)
	}
}

// Every expression kind, even without any children, lowers to exactly one
// IR expression and never to an invariant failure.
func TestEveryExpressionKindLowers(t *testing.T) {
	var kinds []cst.Kind
	for k := cst.Kind(1); !strings.HasPrefix(k.String(), "Kind("); k++ {
		if k.IsExpression() {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		t.Fatalf("no expression kinds")
	}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			f := build(t, file(fun("f", params(), nil, block(cst.New(k)))), false)
			body := f.Decls[0].Data.(*ir.FunctionData).Body
			if got := onlyStmt(t, body); got.Data == nil {
				t.Fatalf("%s lowered to %s without data", k, got.Kind)
			}
		})
	}
}
