package symbols_test

import (
	"testing"

	"ktfront/internal/source"
	"ktfront/internal/symbols"
)

func TestNestedClassNames(t *testing.T) {
	table := symbols.NewTable(0)
	a := symbols.NewAllocator(table, "org.example")

	var c symbols.ClassID
	a.WithClass("A", source.Span{}, func(_ symbols.SymbolID, _ symbols.ClassID) {
		a.WithClass("Before", source.Span{}, func(symbols.SymbolID, symbols.ClassID) {})
		a.WithClass("B", source.Span{}, func(_ symbols.SymbolID, _ symbols.ClassID) {
			a.WithClass("C", source.Span{}, func(_ symbols.SymbolID, cid symbols.ClassID) {
				c = cid
			})
		})
		a.WithClass("After", source.Span{}, func(symbols.SymbolID, symbols.ClassID) {})
	})

	if c.Relative != "A.B.C" {
		t.Errorf("C relative name = %q, want A.B.C", c.Relative)
	}
	if c.FQName() != "org.example.A.B.C" {
		t.Errorf("C FQ name = %q", c.FQName())
	}
	if c.ShortName() != "C" {
		t.Errorf("short name = %q", c.ShortName())
	}
	if a.Path().Depth() != 0 {
		t.Errorf("path not unwound, depth %d", a.Path().Depth())
	}
	if table.Len() != 5 {
		t.Errorf("allocated %d symbols, want 5", table.Len())
	}
	after := table.Lookup(symbols.ClassID{Package: "org.example", Relative: "A.After"})
	if len(after) != 1 {
		t.Fatalf("A.After lookup = %v", after)
	}
	if sym := table.Get(after[0]); sym.Kind != symbols.SymbolClass || sym.Name != "After" {
		t.Errorf("A.After symbol = %+v", sym)
	}
}

func TestTypeAliasAndParameters(t *testing.T) {
	table := symbols.NewTable(4)
	a := symbols.NewAllocator(table, "")

	aliasID, cid := a.TypeAlias("Handler", source.Span{})
	if cid.Relative != "Handler" || cid.FQName() != "Handler" {
		t.Errorf("alias class id = %+v", cid)
	}
	if got := table.Lookup(cid); len(got) != 1 || got[0] != aliasID {
		t.Errorf("alias lookup = %v", got)
	}

	t1 := a.TypeParameter("T", source.Span{})
	t2 := a.TypeParameter("T", source.Span{})
	if t1 == t2 {
		t.Error("type parameters with the same name must get distinct identities")
	}
	if sym := table.Get(t1); sym.ClassID != (symbols.ClassID{}) {
		t.Errorf("type parameter should not be name addressable: %+v", sym.ClassID)
	}
	if table.Get(symbols.NoSymbolID) != nil {
		t.Error("NoSymbolID must not resolve")
	}
}

func TestLocalClasses(t *testing.T) {
	a := symbols.NewAllocator(nil, "p")
	var local symbols.ClassID
	a.WithLocal(func() {
		a.WithClass("L", source.Span{}, func(_ symbols.SymbolID, cid symbols.ClassID) { local = cid })
	})
	if !local.Local {
		t.Error("class allocated inside WithLocal should be local")
	}
	if a.ClassID().Local {
		t.Error("locality leaked out of WithLocal")
	}
}

func TestNamePathNormalizes(t *testing.T) {
	var p symbols.NamePath
	p.Push("Cafe\u0301")
	if p.Current() != "Caf\u00e9" {
		t.Errorf("path = %q, want NFC form", p.Current())
	}
	if p.Child("X") != "Caf\u00e9.X" {
		t.Errorf("child = %q", p.Child("X"))
	}
	p.Pop()
	defer func() {
		if recover() == nil {
			t.Error("pop on empty path should panic")
		}
	}()
	p.Pop()
}
