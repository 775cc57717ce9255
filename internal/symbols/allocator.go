package symbols

import "ktfront/internal/source"

// Allocator hands out symbols for the declarations of one file. It owns the
// file's NamePath; class symbols are keyed by the path at the time of the
// visit.
type Allocator struct {
	table *Table
	pkg   string
	path  NamePath
	local int
}

// NewAllocator binds an allocator to table for a file in package pkg.
func NewAllocator(table *Table, pkg string) *Allocator {
	if table == nil {
		table = NewTable(0)
	}
	return &Allocator{table: table, pkg: pkg}
}

// Table returns the backing table.
func (a *Allocator) Table() *Table { return a.table }

// Path exposes the name-path stack for read access.
func (a *Allocator) Path() *NamePath { return &a.path }

// Package returns the package the allocator was created for.
func (a *Allocator) Package() string { return a.pkg }

// WithClass pushes name, allocates the class symbol for the resulting path
// and runs body before popping. Children visited inside body therefore see
// the pushed path and siblings never overlap.
func (a *Allocator) WithClass(name string, span source.Span, body func(id SymbolID, cid ClassID)) {
	a.path.Push(name)
	defer a.path.Pop()
	cid := a.currentClassID()
	id := a.table.New(&Symbol{Kind: SymbolClass, Name: name, ClassID: cid, Span: span})
	body(id, cid)
}

// TypeAlias allocates a symbol for an alias declared under the current path.
func (a *Allocator) TypeAlias(name string, span source.Span) (SymbolID, ClassID) {
	cid := ClassID{Package: a.pkg, Relative: a.path.Child(name), Local: a.local > 0}
	return a.table.New(&Symbol{Kind: SymbolTypeAlias, Name: name, ClassID: cid, Span: span}), cid
}

// TypeParameter allocates an identity-only symbol.
func (a *Allocator) TypeParameter(name string, span source.Span) SymbolID {
	return a.table.New(&Symbol{Kind: SymbolTypeParameter, Name: name, Span: span})
}

// WithLocal marks declarations allocated inside body as local (declared in a
// function or initializer body).
func (a *Allocator) WithLocal(body func()) {
	a.local++
	defer func() { a.local-- }()
	body()
}

// ClassID returns the identity of the innermost pushed declaration.
func (a *Allocator) ClassID() ClassID { return a.currentClassID() }

func (a *Allocator) currentClassID() ClassID {
	return ClassID{Package: a.pkg, Relative: a.path.Current(), Local: a.local > 0}
}
