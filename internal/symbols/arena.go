package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// Table stores allocated symbols in a slice arena. Index 0 is the sentinel
// behind NoSymbolID. A Table is not safe for concurrent use; give each
// concurrent build its own.
type Table struct {
	data    []Symbol
	byClass map[ClassID][]SymbolID
}

// NewTable creates a table with an optional capacity hint.
func NewTable(capacity uint32) *Table {
	if capacity == 0 {
		capacity = 64
	}
	return &Table{
		data:    make([]Symbol, 1, capacity+1),
		byClass: make(map[ClassID][]SymbolID),
	}
}

// New allocates a symbol and returns its ID.
func (t *Table) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	id := SymbolID(value)
	t.data = append(t.data, *sym)
	if sym.Kind == SymbolClass || sym.Kind == SymbolTypeAlias {
		t.byClass[sym.ClassID] = append(t.byClass[sym.ClassID], id)
	}
	return id
}

// Get returns a symbol pointer or nil for an invalid ID.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// Lookup returns the symbols allocated for a class id in allocation order.
// More than one entry means the file redeclares the name.
func (t *Table) Lookup(id ClassID) []SymbolID {
	return t.byClass[id]
}

// Len reports the number of stored symbols excluding the sentinel.
func (t *Table) Len() int { return len(t.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (t *Table) Data() []Symbol {
	if len(t.data) <= 1 {
		return nil
	}
	return t.data[1:]
}
