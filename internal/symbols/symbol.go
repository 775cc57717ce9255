package symbols

import (
	"strings"

	"ktfront/internal/source"
)

// SymbolKind enumerates the declarations that get a symbol before resolution.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolClass
	SymbolTypeAlias
	SymbolTypeParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolClass:
		return "class"
	case SymbolTypeAlias:
		return "typealias"
	case SymbolTypeParameter:
		return "type-parameter"
	default:
		return "invalid"
	}
}

// ClassID is the name-addressable identity of a class-like declaration or a
// type alias: the package plus the dotted path of enclosing declarations.
type ClassID struct {
	Package  string `yaml:"package,omitempty" msgpack:"package,omitempty"`
	Relative string `yaml:"relative" msgpack:"relative"`
	Local    bool   `yaml:"local,omitempty" msgpack:"local,omitempty"`
}

// FQName joins package and relative name with dots.
func (id ClassID) FQName() string {
	if id.Package == "" {
		return id.Relative
	}
	return id.Package + "." + id.Relative
}

// ShortName returns the last segment of the relative name.
func (id ClassID) ShortName() string {
	if i := strings.LastIndexByte(id.Relative, '.'); i >= 0 {
		return id.Relative[i+1:]
	}
	return id.Relative
}

// String renders the id as package/Relative, marking local classes.
func (id ClassID) String() string {
	s := strings.ReplaceAll(id.Package, ".", "/") + "/" + id.Relative
	if id.Local {
		s = "<local>" + s
	}
	return s
}

// Symbol is the identity record behind a SymbolID. Type parameters have a
// zero ClassID: they are addressed by handle only.
type Symbol struct {
	Kind    SymbolKind
	Name    string
	ClassID ClassID
	Span    source.Span
}
