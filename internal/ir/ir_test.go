package ir_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"ktfront/internal/ir"
	"ktfront/internal/source"
)

func param(name, typ string) *ir.Decl {
	return &ir.Decl{
		Kind: ir.DeclValueParameter,
		Name: name,
		Data: &ir.ValueParameterData{Type: ir.UserType(typ)},
	}
}

func sampleFile(stub bool) *ir.File {
	body := &ir.Block{Stmts: []*ir.Expr{{
		Kind: ir.ExprReturn,
		Data: ir.ReturnData{Target: 1, Value: &ir.Expr{
			Kind: ir.ExprConstant,
			Data: ir.ConstantData{Kind: ir.ConstLong, Value: int64(10)},
		}},
	}}}
	if stub {
		body = ir.StubBlock(source.Span{})
	}
	getterBody := &ir.Block{Stmts: []*ir.Expr{{
		Kind: ir.ExprReturn,
		Data: ir.ReturnData{Target: 3, Value: &ir.Expr{
			Kind: ir.ExprPropertyGet,
			Data: ir.PropertyGetData{Ref: ir.Ref{Kind: ir.RefBackingField}},
		}},
	}}}
	if stub {
		getterBody = ir.StubBlock(source.Span{})
	}
	self := ir.UserType("geo.Point")
	return &ir.File{
		Path:    "point.kt",
		Package: "geo",
		Imports: []ir.Import{{Path: "kotlin.math", Wildcard: true}},
		Decls: []*ir.Decl{{
			Kind: ir.DeclClass,
			Name: "Point",
			Data: &ir.ClassData{
				Symbol:             1,
				ClassKind:          ir.ClassKindClass,
				SelfType:           self,
				SuperTypes:         []*ir.TypeRef{ir.AnyType()},
				DelegatedSuperType: ir.AnyType(),
				Members: []*ir.Decl{
					{
						Kind: ir.DeclProperty,
						Name: "x",
						Data: &ir.PropertyData{
							Type:          ir.UserType("Int"),
							FromParameter: true,
							Getter: &ir.Decl{
								Kind: ir.DeclAccessor,
								Data: &ir.AccessorData{ID: 3, Getter: true, Default: true, ReturnType: ir.UserType("Int"), Body: getterBody},
							},
						},
					},
					{
						Kind: ir.DeclConstructor,
						Data: &ir.ConstructorData{
							ID:         2,
							Primary:    true,
							Params:     []*ir.Decl{param("x", "Int")},
							ReturnType: self,
							Delegation: &ir.Expr{
								Kind: ir.ExprDelegatedConstructorCall,
								Data: ir.DelegatedConstructorCallData{Implicit: true, Type: ir.AnyType()},
							},
						},
					},
					{
						Kind:       ir.DeclFunction,
						Name:       "big",
						Visibility: ir.VisibilityPublic,
						Flags:      ir.FlagOverride,
						Data: &ir.FunctionData{
							ID:         1,
							ReturnType: ir.UserType("Long"),
							Body:       body,
						},
					},
				},
			},
		}},
	}
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	if err := ir.Dump(&buf, sampleFile(false)); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"package geo",
		"import kotlin.math.*",
		"class Point",
		"primary constructor(x: Int)",
		"super<kotlin.Any>()",
		"public override fun big(): Long",
		"return@fn1 10L",
		"default get(): Int",
		"return@fn3 field",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q\n%s", want, out)
		}
	}
}

func TestDumpStub(t *testing.T) {
	var buf bytes.Buffer
	if err := ir.Dump(&buf, sampleFile(true)); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), "STUB") {
		t.Errorf("expected STUB marker in\n%s", buf.String())
	}
}

func TestEncodeYAMLUsesNames(t *testing.T) {
	var buf bytes.Buffer
	if err := ir.Encode(&buf, sampleFile(false), ir.FormatYAML); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if doc["version"] != ir.EncodingVersion {
		t.Errorf("version = %v", doc["version"])
	}
	out := buf.String()
	for _, want := range []string{"kind: class", "class_kind: class", "kind: Return", "flags: override"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml missing %q", want)
		}
	}
}

func TestEncodeMsgpack(t *testing.T) {
	var buf bytes.Buffer
	if err := ir.Encode(&buf, sampleFile(false), ir.FormatMsgpack); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var doc map[string]any
	if err := msgpack.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("msgpack output does not decode: %v", err)
	}
	file, ok := doc["file"].(map[string]any)
	if !ok {
		t.Fatalf("file entry has type %T", doc["file"])
	}
	if file["package"] != "geo" {
		t.Errorf("package = %v", file["package"])
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]ir.Format{"": ir.FormatText, "text": ir.FormatText, "YAML": ir.FormatYAML, "msgpack": ir.FormatMsgpack} {
		got, err := ir.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ir.ParseFormat("json"); !errors.Is(err, ir.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if errs := ir.Validate(sampleFile(false), false); len(errs) != 0 {
		t.Fatalf("unexpected violations: %v", errs)
	}
	if errs := ir.Validate(sampleFile(true), true); len(errs) != 0 {
		t.Fatalf("unexpected stub violations: %v", errs)
	}
	errs := ir.Validate(sampleFile(false), true)
	if len(errs) != 2 {
		t.Fatalf("expected 2 non-stub bodies, got %v", errs)
	}
	var verr *ir.ValidationError
	if !errors.As(errs[0], &verr) || !strings.HasPrefix(verr.Path, "Point.") {
		t.Errorf("unexpected error %v", errs[0])
	}
}

func TestValidateMissingConstructor(t *testing.T) {
	f := sampleFile(false)
	cls := f.Decls[0].Data.(*ir.ClassData)
	cls.Members = cls.Members[2:]
	errs := ir.Validate(f, false)
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "no constructor") {
		t.Fatalf("expected missing constructor, got %v", errs)
	}
}

func TestValidateParameterPropertyOrder(t *testing.T) {
	f := sampleFile(false)
	cls := f.Decls[0].Data.(*ir.ClassData)
	cls.Members[0], cls.Members[1] = cls.Members[1], cls.Members[0]
	errs := ir.Validate(f, false)
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "follows other members") {
		t.Fatalf("expected ordering violation, got %v", errs)
	}
}

func TestCount(t *testing.T) {
	counts := ir.Count(sampleFile(false))
	if counts[ir.ExprReturn] != 2 {
		t.Errorf("returns = %d, want 2", counts[ir.ExprReturn])
	}
	if counts[ir.ExprConstant] != 1 {
		t.Errorf("constants = %d, want 1", counts[ir.ExprConstant])
	}
}

func TestTypeRefString(t *testing.T) {
	fn := &ir.TypeRef{
		Kind:     ir.TypeFunction,
		Nullable: true,
		Receiver: ir.UserType("String"),
		Params:   []*ir.TypeRef{ir.UserType("Int")},
		Return:   ir.UserType("kotlin.Unit"),
	}
	if got := fn.String(); got != "(String.(Int) -> kotlin.Unit)?" {
		t.Errorf("got %q", got)
	}
	list := ir.UserType("List", ir.TypeArg{Variance: ir.Out, Type: ir.UserType("T")}, ir.TypeArg{Star: true})
	if got := list.String(); got != "List<out T, *>" {
		t.Errorf("got %q", got)
	}
}
