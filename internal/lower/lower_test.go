package lower_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"ktfront/internal/cst"
	"ktfront/internal/ir"
	"ktfront/internal/lower"
	"ktfront/internal/symbols"
)

func TestExpressionBodyReturnsToItsFunction(t *testing.T) {
	f := build(t, file(fun("big", params(), nil, intLit("10L"))), false)

	fn := f.Decls[0].Data.(*ir.FunctionData)
	if fn.ReturnType.Kind != ir.TypeImplicit {
		t.Fatalf("expression body should leave the return type implicit, got %s", fn.ReturnType)
	}
	ret := onlyStmt(t, fn.Body)
	data, ok := ret.Data.(ir.ReturnData)
	if !ok || data.Target != fn.ID {
		t.Fatalf("expected return@%d, got %+v", fn.ID, ret.Data)
	}
	c := data.Value.Data.(ir.ConstantData)
	if c.Kind != ir.ConstLong || c.Value != int64(10) {
		t.Fatalf("unexpected constant %+v", c)
	}
}

func TestBlockBodyDefaultsToUnit(t *testing.T) {
	f := build(t, file(fun("main", params(), nil, block())), false)
	fn := f.Decls[0].Data.(*ir.FunctionData)
	if got := fn.ReturnType.QualifiedName(); got != ir.UnitTypeName {
		t.Fatalf("return type = %q, want %q", got, ir.UnitTypeName)
	}
}

func TestLiterals(t *testing.T) {
	cases := []struct {
		node  *cst.Node
		kind  ir.ConstKind
		value any
	}{
		{intLit("10"), ir.ConstInt, int32(10)},
		{intLit("10L"), ir.ConstLong, int64(10)},
		{intLit("0xFF"), ir.ConstInt, int32(255)},
		{intLit("9999999999"), ir.ConstInt, nil},
		{cst.Leaf(cst.KindFloatConstant, "3.14f"), ir.ConstFloat, float32(3.14)},
		{cst.Leaf(cst.KindFloatConstant, "2.5"), ir.ConstDouble, 2.5},
		{cst.Leaf(cst.KindCharacterConstant, `'\n'`), ir.ConstChar, '\n'},
		{cst.Leaf(cst.KindBooleanConstant, "true"), ir.ConstBoolean, true},
		{cst.Leaf(cst.KindNull, "null"), ir.ConstNull, nil},
	}
	for _, c := range cases {
		f := build(t, file(property("val", "x", nil, c.node)), false)
		got, ok := initializer(t, f, 0).Data.(ir.ConstantData)
		if !ok {
			t.Errorf("%s: not a constant: %+v", c.node.Text, initializer(t, f, 0))
			continue
		}
		if got.Kind != c.kind || got.Value != c.value {
			t.Errorf("%s: got %s %v, want %s %v", c.node.Text, got.Kind, got.Value, c.kind, c.value)
		}
	}
}

func TestOverflowingIntIsMalformed(t *testing.T) {
	f := build(t, file(property("val", "x", nil, intLit("9999999999"))), false)
	c := initializer(t, f, 0).Data.(ir.ConstantData)
	if !c.Malformed() || c.Message == "" {
		t.Fatalf("expected a malformed Int with a message, got %+v", c)
	}
}

func TestStringTemplateFolding(t *testing.T) {
	folded := cst.New(cst.KindStringTemplate,
		cst.Leaf(cst.KindLiteralStringEntry, "a"),
		cst.Leaf(cst.KindEscapeStringEntry, `\t`),
		cst.Leaf(cst.KindLiteralStringEntry, "b"),
	)
	mixed := cst.New(cst.KindStringTemplate,
		cst.Leaf(cst.KindLiteralStringEntry, "n="),
		cst.New(cst.KindShortStringEntry, cst.Ref("n")),
	)
	f := build(t, file(property("val", "a", nil, folded), property("val", "b", nil, mixed)), false)

	if c := initializer(t, f, 0).Data.(ir.ConstantData); c.Value != "a\tb" {
		t.Fatalf("folded template = %q", c.Value)
	}
	tmpl, ok := initializer(t, f, 1).Data.(ir.StringTemplateData)
	if !ok || len(tmpl.Parts) != 2 || tmpl.Parts[1].Kind != ir.ExprPropertyGet {
		t.Fatalf("unexpected template %+v", initializer(t, f, 1))
	}
}

func TestNestedClassNames(t *testing.T) {
	c := class(nil, "C", nil, nil)
	b := class(nil, "B", nil, classBody(c))
	a := class(nil, "A", nil, classBody(b))
	f := build(t, file(a), false)

	var names []string
	ir.Inspect(f, func(n any) bool {
		if d, ok := n.(*ir.Decl); ok && d.Kind == ir.DeclClass {
			names = append(names, d.Data.(*ir.ClassData).ClassID.FQName())
		}
		return true
	})
	want := []string{"demo.A", "demo.A.B", "demo.A.B.C"}
	if !slices.Equal(names, want) {
		t.Fatalf("class names = %v, want %v", names, want)
	}
}

func TestClassMemberOrder(t *testing.T) {
	point := class(nil, "Point",
		primary(param("val", "x", "Int"), param("", "scale", "Int")),
		classBody(fun("norm", params(), typ("Int"), block())),
	)
	f := build(t, file(point), false)

	want := []string{"property x", "constructor <init>", "fun norm"}
	if got := memberNames(f.Decls[0]); !slices.Equal(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}

	cls := f.Decls[0].Data.(*ir.ClassData)
	ctor := cls.PrimaryConstructor().Data.(*ir.ConstructorData)
	if len(ctor.Params) != 2 {
		t.Fatalf("expected 2 constructor parameters, got %d", len(ctor.Params))
	}
	call := ctor.Delegation.Data.(ir.DelegatedConstructorCallData)
	if !call.Implicit || call.Type.QualifiedName() != ir.AnyTypeName {
		t.Fatalf("expected an implicit super<Any>() call, got %+v", call)
	}
	if got := cls.SelfType.String(); got != "demo.Point" {
		t.Fatalf("self type = %q", got)
	}
}

func TestSecondaryOnlyClassHasNoPrimary(t *testing.T) {
	secondary := cst.New(cst.KindSecondaryConstructor, cst.Keyword("constructor"), params(param("", "v", "Int")), block())
	f := build(t, file(class(nil, "Box", nil, classBody(secondary))), false)
	cls := f.Decls[0].Data.(*ir.ClassData)
	if cls.PrimaryConstructor() != nil {
		t.Fatalf("unexpected primary constructor")
	}
	ctor := cls.Members[0].Data.(*ir.ConstructorData)
	if ctor.Primary || ctor.Delegation == nil {
		t.Fatalf("expected a secondary constructor with a delegation call, got %+v", ctor)
	}
}

func TestInterfaceHasNoConstructor(t *testing.T) {
	iface := cst.New(cst.KindClass, cst.Keyword("interface"), cst.Ident("Shape"),
		classBody(fun("area", params(), typ("Double"), nil)))
	f := build(t, file(iface), false)
	cls := f.Decls[0].Data.(*ir.ClassData)
	if cls.ClassKind != ir.ClassKindInterface || len(cls.Members) != 1 {
		t.Fatalf("unexpected interface %+v", memberNames(f.Decls[0]))
	}
}

func TestObjectConstructorIsPrivate(t *testing.T) {
	obj := cst.New(cst.KindObjectDeclaration, cst.Modifiers("companion"))
	f := build(t, file(class(nil, "Host", nil, classBody(obj))), false)
	companion := f.Decls[0].Data.(*ir.ClassData).Members[1]
	if companion.Name != "Companion" {
		t.Fatalf("unnamed companion should be Companion, got %q", companion.Name)
	}
	ctor := companion.Data.(*ir.ClassData).PrimaryConstructor()
	if ctor == nil || ctor.Visibility != ir.VisibilityPrivate {
		t.Fatalf("expected a private primary constructor, got %+v", ctor)
	}
}

func TestDefaultAccessors(t *testing.T) {
	f := build(t, file(property("var", "count", typ("Int"), intLit("0"))), false)
	pd := f.Decls[0].Data.(*ir.PropertyData)
	if pd.Getter == nil || pd.Setter == nil {
		t.Fatalf("var should get both accessors")
	}
	if pd.Getter.Name != "<get-count>" || pd.Setter.Name != "<set-count>" {
		t.Fatalf("accessor names = %q, %q", pd.Getter.Name, pd.Setter.Name)
	}
	get := pd.Getter.Data.(*ir.AccessorData)
	ret := onlyStmt(t, get.Body).Data.(ir.ReturnData)
	if ret.Target != get.ID || ret.Value.Data.(ir.PropertyGetData).Ref.Kind != ir.RefBackingField {
		t.Fatalf("default getter should return the backing field, got %+v", ret)
	}
	set := pd.Setter.Data.(*ir.AccessorData)
	if len(set.Params) != 1 || set.Params[0].Name != "value" {
		t.Fatalf("default setter should take value, got %+v", set.Params)
	}
	assign := onlyStmt(t, set.Body).Data.(ir.AssignmentData)
	if assign.Target.Kind != ir.RefBackingField {
		t.Fatalf("default setter should store into the backing field")
	}
}

func TestExplicitGetterReadsField(t *testing.T) {
	getter := cst.New(cst.KindPropertyAccessor, cst.Keyword("get"),
		binary(cst.Ref("field"), "+", intLit("1")))
	prop := cst.New(cst.KindProperty, cst.Keyword("val"), cst.Ident("next"), typ("Int"), intLit("0"), getter)
	f := build(t, file(prop, property("val", "other", nil, cst.Ref("field"))), false)

	acc := f.Decls[0].Data.(*ir.PropertyData).Getter.Data.(*ir.AccessorData)
	if acc.Default {
		t.Fatalf("explicit getter marked default")
	}
	call := onlyStmt(t, acc.Body).Data.(ir.ReturnData).Value.Data.(ir.CallData)
	if call.Callee.Name != "plus" || call.Receiver.Data.(ir.PropertyGetData).Ref.Kind != ir.RefBackingField {
		t.Fatalf("expected field.plus(1), got %+v", call)
	}
	if ref := initializer(t, f, 1).Data.(ir.PropertyGetData).Ref; ref.Kind != ir.RefSimple || ref.Name != "field" {
		t.Fatalf("field outside an accessor is a plain name, got %+v", ref)
	}
}

func TestEnumSynthesis(t *testing.T) {
	enum := class(cst.Modifiers("enum"), "Color", nil, classBody(
		cst.New(cst.KindEnumEntry, cst.Ident("RED")),
		cst.New(cst.KindEnumEntry, cst.Ident("GREEN")),
	))
	f := build(t, file(enum), false)

	want := []string{"constructor <init>", "enum-entry RED", "enum-entry GREEN", "fun values", "fun valueOf"}
	if got := memberNames(f.Decls[0]); !slices.Equal(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}
	cls := f.Decls[0].Data.(*ir.ClassData)
	if got := cls.SuperTypes[0].String(); got != "kotlin.Enum<demo.Color>" {
		t.Fatalf("enum super type = %q", got)
	}
	valueOf := cls.Members[4]
	if !valueOf.Flags.Has(ir.FlagSynthetic) {
		t.Fatalf("valueOf should be synthetic")
	}
}

func TestDataClassSynthesis(t *testing.T) {
	data := class(cst.Modifiers("data"), "Pair",
		primary(param("val", "first", "Int"), param("var", "second", "String")), nil)
	f := build(t, file(data), false)

	want := []string{
		"property first", "property second", "constructor <init>",
		"fun component1", "fun component2", "fun copy",
	}
	if got := memberNames(f.Decls[0]); !slices.Equal(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}
	members := f.Decls[0].Data.(*ir.ClassData).Members
	if !members[3].Flags.Has(ir.FlagOperator) {
		t.Fatalf("componentN should be an operator")
	}
	cp := members[5].Data.(*ir.FunctionData)
	def := cp.Params[1].Data.(*ir.ValueParameterData).Default
	if got := def.Data.(ir.PropertyGetData); got.Ref.Name != "second" || got.Receiver.Kind != ir.ExprThis {
		t.Fatalf("copy default should read this.second, got %+v", got)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lower.BuildContext(ctx, file(fun("f", params(), nil, block())), lower.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNilRoot(t *testing.T) {
	if _, err := lower.Build(nil, lower.Options{}); !errors.Is(err, lower.ErrNilRoot) {
		t.Fatalf("expected ErrNilRoot, got %v", err)
	}
}

func TestInvariantViolations(t *testing.T) {
	cases := map[string]*cst.Node{
		"root":        fun("f", params(), nil, nil),
		"top level":   file(cst.New(cst.KindValueArgument)),
		"enum entry":  file(class(nil, "Plain", nil, classBody(cst.New(cst.KindEnumEntry, cst.Ident("A"))))),
		"secondary":   file(cst.New(cst.KindSecondaryConstructor, params())),
		"class kinds": file(class(cst.Modifiers("enum", "annotation"), "Both", nil, nil)),
		"template":    file(property("val", "x", nil, cst.New(cst.KindStringTemplate, cst.Ident("x")))),
	}
	for name, root := range cases {
		_, err := lower.Build(root, lower.Options{})
		var ie *lower.InvariantError
		if !errors.As(err, &ie) {
			t.Errorf("%s: expected an InvariantError, got %v", name, err)
		}
	}
}

func TestSharedSymbolTable(t *testing.T) {
	table := symbols.NewTable(0)
	a, err := lower.Build(file(class(nil, "A", nil, nil)), lower.Options{Symbols: table})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := lower.Build(file(class(nil, "B", nil, nil)), lower.Options{Symbols: table})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Symbols != table || b.Symbols != table || table.Len() != 2 {
		t.Fatalf("expected both classes in the shared table, got %d symbols", table.Len())
	}
}
