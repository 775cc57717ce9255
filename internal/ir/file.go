package ir

import (
	"ktfront/internal/source"
	"ktfront/internal/symbols"
)

// File is the IR of one source file.
type File struct {
	Path        string       `yaml:"path" msgpack:"path"`
	Package     string       `yaml:"package,omitempty" msgpack:"package,omitempty"`
	Imports     []Import     `yaml:"imports,omitempty" msgpack:"imports,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty" msgpack:"annotations,omitempty"`
	Decls       []*Decl      `yaml:"decls,omitempty" msgpack:"decls,omitempty"`
	Span        source.Span  `yaml:"-" msgpack:"-"`

	// Symbols is the table the file's class, alias and type-parameter
	// symbols were allocated in. It may be shared with other files.
	Symbols *symbols.Table `yaml:"-" msgpack:"-"`
}

// Import is one import directive.
type Import struct {
	Path     string      `yaml:"path" msgpack:"path"`
	Wildcard bool        `yaml:"wildcard,omitempty" msgpack:"wildcard,omitempty"`
	Alias    string      `yaml:"alias,omitempty" msgpack:"alias,omitempty"`
	Span     source.Span `yaml:"-" msgpack:"-"`
}

// Annotation is an annotation entry with its optional use-site target
// (field, get, file, ...).
type Annotation struct {
	UseSite string      `yaml:"use_site,omitempty" msgpack:"use_site,omitempty"`
	Type    *TypeRef    `yaml:"type" msgpack:"type"`
	Args    []Arg       `yaml:"args,omitempty" msgpack:"args,omitempty"`
	Span    source.Span `yaml:"-" msgpack:"-"`
}

// FindDecl returns the first top-level declaration with the given name.
func (f *File) FindDecl(name string) *Decl {
	for _, d := range f.Decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}
