package lower_test

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"ktfront/internal/cst"
	"ktfront/internal/diag"
	"ktfront/internal/ir"
	"ktfront/internal/lower"
)

func decodeFixture(t *testing.T, name string) *cst.Document {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	doc, err := cst.Decode(bytes.NewReader(data), cst.FormatForPath(path))
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return doc
}

func TestAccountFixture(t *testing.T) {
	doc := decodeFixture(t, "account.yaml")
	f := build(t, doc.Root, false)

	if f.Package != "bank" || len(f.Imports) != 1 || f.Imports[0].Path != "kotlin.math.max" {
		t.Fatalf("unexpected file header: package %q imports %+v", f.Package, f.Imports)
	}
	want := []string{"property owner", "property balance", "constructor <init>", "fun deposit", "fun label"}
	if got := memberNames(f.Decls[0]); !slices.Equal(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}
	owner := f.Decls[0].Data.(*ir.ClassData).Members[0].Data.(*ir.PropertyData)
	if got := owner.Type.String(); got != "String?" {
		t.Fatalf("owner type = %q", got)
	}

	bag := diag.NewBag(0)
	if n := lower.Diagnose(f, diag.BagReporter{Bag: bag}); n != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(bag.Items(), nil))
	}

	var out strings.Builder
	if err := ir.Dump(&out, f); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	for _, s := range []string{"class Account", "fun deposit(amount: Long)", "<elvis>", `"anonymous"`} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("dump lacks %q:\n%s", s, out.String())
		}
	}
}

// declShape lists every declaration outside of bodies and expressions.
func declShape(f *ir.File) []string {
	var out []string
	ir.Inspect(f, func(n any) bool {
		switch v := n.(type) {
		case *ir.Block, *ir.Expr:
			return false
		case *ir.Decl:
			out = append(out, strings.Join([]string{v.Kind.String(), v.Name, v.Flags.String(), v.Visibility.String()}, "|"))
		case *ir.TypeRef:
			out = append(out, "type "+v.String())
			return false
		}
		return true
	})
	return out
}

func TestStubKeepsDeclarations(t *testing.T) {
	doc := decodeFixture(t, "account.yaml")
	full := build(t, doc.Root, false)
	stub := build(t, doc.Root, true)

	if got, want := declShape(stub), declShape(full); !slices.Equal(got, want) {
		t.Fatalf("stub declarations differ:\n got %v\nwant %v", got, want)
	}
	deposit := stub.Decls[0].Data.(*ir.ClassData).Members[3].Data.(*ir.FunctionData)
	if !deposit.Body.IsStub() {
		t.Fatalf("stub body expected, got %+v", deposit.Body)
	}
	balance := stub.Decls[0].Data.(*ir.ClassData).Members[1].Data.(*ir.PropertyData)
	if balance.Initializer.Kind != ir.ExprStub {
		t.Fatalf("parameter property initializer should be a stub, got %s", balance.Initializer.Kind)
	}
	if counts := ir.Count(stub); counts[ir.ExprCall] != 0 || counts[ir.ExprWhen] != 0 {
		t.Fatalf("stub tree still holds bodies: %v", counts)
	}
}

func TestStubKeepsLiteralArguments(t *testing.T) {
	ann := cst.New(cst.KindAnnotationEntry,
		cst.New(cst.KindConstructorCallee, typ("Deprecated")),
		cst.New(cst.KindValueArgumentList,
			cst.New(cst.KindValueArgument, cst.New(cst.KindStringTemplate, cst.Leaf(cst.KindLiteralStringEntry, "old"))),
			cst.New(cst.KindValueArgument, cst.Ref("level")),
		),
	)
	mods := cst.New(cst.KindModifierList, ann)
	f := build(t, file(cst.New(cst.KindFun, mods, cst.Keyword("fun"), cst.Ident("f"), params(), block())), true)

	args := f.Decls[0].Annotations[0].Args
	if args[0].Value.Kind != ir.ExprConstant || args[1].Value.Kind != ir.ExprStub {
		t.Fatalf("stub mode should keep literal arguments only, got %s, %s", args[0].Value.Kind, args[1].Value.Kind)
	}
}
