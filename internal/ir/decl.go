package ir

import (
	"ktfront/internal/source"
	"ktfront/internal/symbols"
)

// DeclKind enumerates declaration variants.
type DeclKind uint8

const (
	DeclClass DeclKind = iota
	DeclTypeAlias
	DeclFunction
	DeclProperty
	DeclConstructor
	DeclAccessor
	DeclValueParameter
	DeclAnonymousInitializer
	DeclEnumEntry
	DeclTypeParameter
	DeclAnonymousFunction
)

// String returns a human-readable name for the declaration kind.
func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclTypeAlias:
		return "typealias"
	case DeclFunction:
		return "fun"
	case DeclProperty:
		return "property"
	case DeclConstructor:
		return "constructor"
	case DeclAccessor:
		return "accessor"
	case DeclValueParameter:
		return "parameter"
	case DeclAnonymousInitializer:
		return "init"
	case DeclEnumEntry:
		return "enum-entry"
	case DeclTypeParameter:
		return "type-parameter"
	case DeclAnonymousFunction:
		return "lambda"
	default:
		return "unknown"
	}
}

// Visibility of a declaration. Unknown means no modifier was written; the
// language default is applied by resolution, not here.
type Visibility uint8

const (
	VisibilityUnknown Visibility = iota
	VisibilityPublic
	VisibilityPrivate
	VisibilityProtected
	VisibilityInternal
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	case VisibilityInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Modality of a declaration; ModalityUnset when no modifier was written.
type Modality uint8

const (
	ModalityUnset Modality = iota
	ModalityFinal
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityFinal:
		return "final"
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return "unset"
	}
}

// DeclFlags is a bitmask of boolean modifiers.
type DeclFlags uint32

const (
	FlagExpect DeclFlags = 1 << iota
	FlagActual
	FlagOverride
	FlagInline
	FlagExternal
	FlagTailrec
	FlagSuspend
	FlagInfix
	FlagOperator
	FlagData
	FlagInner
	FlagCompanion
	FlagConst
	FlagLateinit
	FlagVararg
	FlagCrossinline
	FlagNoinline
	FlagReified
	FlagSynthetic
)

var flagNames = []struct {
	flag DeclFlags
	name string
}{
	{FlagExpect, "expect"},
	{FlagActual, "actual"},
	{FlagOverride, "override"},
	{FlagInline, "inline"},
	{FlagExternal, "external"},
	{FlagTailrec, "tailrec"},
	{FlagSuspend, "suspend"},
	{FlagInfix, "infix"},
	{FlagOperator, "operator"},
	{FlagData, "data"},
	{FlagInner, "inner"},
	{FlagCompanion, "companion"},
	{FlagConst, "const"},
	{FlagLateinit, "lateinit"},
	{FlagVararg, "vararg"},
	{FlagCrossinline, "crossinline"},
	{FlagNoinline, "noinline"},
	{FlagReified, "reified"},
	{FlagSynthetic, "synthetic"},
}

// FlagForModifier maps a modifier keyword to its flag.
func FlagForModifier(word string) (DeclFlags, bool) {
	for _, f := range flagNames {
		if f.name == word && f.flag != FlagSynthetic {
			return f.flag, true
		}
	}
	return 0, false
}

// Has reports whether flag is set.
func (f DeclFlags) Has(flag DeclFlags) bool { return f&flag != 0 }

func (f DeclFlags) String() string {
	s := ""
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			if s != "" {
				s += " "
			}
			s += fn.name
		}
	}
	return s
}

// Decl is a declaration node. Data holds the kind-specific payload.
type Decl struct {
	Kind        DeclKind     `yaml:"kind" msgpack:"kind"`
	Name        string       `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Visibility  Visibility   `yaml:"visibility" msgpack:"visibility"`
	Modality    Modality     `yaml:"modality" msgpack:"modality"`
	Flags       DeclFlags    `yaml:"flags,omitempty" msgpack:"flags,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty" msgpack:"annotations,omitempty"`
	TypeParams  []*Decl      `yaml:"type_params,omitempty" msgpack:"type_params,omitempty"`
	Span        source.Span  `yaml:"-" msgpack:"-"`
	Data        DeclData     `yaml:"data" msgpack:"data"`
}

// DeclData is the interface for declaration-specific data.
type DeclData interface {
	declData()
}

// ClassKind distinguishes class-like declarations.
type ClassKind uint8

const (
	ClassKindClass ClassKind = iota
	ClassKindInterface
	ClassKindEnum
	ClassKindAnnotation
	ClassKindObject
)

func (k ClassKind) String() string {
	switch k {
	case ClassKindClass:
		return "class"
	case ClassKindInterface:
		return "interface"
	case ClassKindEnum:
		return "enum class"
	case ClassKindAnnotation:
		return "annotation class"
	case ClassKindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Delegation is a `Type by expr` super-type entry.
type Delegation struct {
	Type *TypeRef `yaml:"type" msgpack:"type"`
	Expr *Expr    `yaml:"expr" msgpack:"expr"`
}

// ClassData holds data for DeclClass.
type ClassData struct {
	Symbol     symbols.SymbolID `yaml:"symbol" msgpack:"symbol"`
	ClassID    symbols.ClassID  `yaml:"class_id" msgpack:"class_id"`
	ClassKind  ClassKind        `yaml:"class_kind" msgpack:"class_kind"`
	SelfType   *TypeRef         `yaml:"self_type" msgpack:"self_type"`
	SuperTypes []*TypeRef       `yaml:"super_types,omitempty" msgpack:"super_types,omitempty"`
	// DelegatedSuperType is the type whose constructor the primary
	// constructor delegates to.
	DelegatedSuperType *TypeRef     `yaml:"delegated_super_type,omitempty" msgpack:"delegated_super_type,omitempty"`
	Delegates          []Delegation `yaml:"delegates,omitempty" msgpack:"delegates,omitempty"`
	Members            []*Decl      `yaml:"members,omitempty" msgpack:"members,omitempty"`
}

func (*ClassData) declData() {}

// PrimaryConstructor returns the primary constructor member, if any.
func (c *ClassData) PrimaryConstructor() *Decl {
	for _, m := range c.Members {
		if m.Kind != DeclConstructor {
			continue
		}
		if ctor, ok := m.Data.(*ConstructorData); ok && ctor.Primary {
			return m
		}
	}
	return nil
}

// TypeAliasData holds data for DeclTypeAlias.
type TypeAliasData struct {
	Symbol   symbols.SymbolID `yaml:"symbol" msgpack:"symbol"`
	ClassID  symbols.ClassID  `yaml:"class_id" msgpack:"class_id"`
	Expanded *TypeRef         `yaml:"expanded" msgpack:"expanded"`
}

func (*TypeAliasData) declData() {}

// FunctionData holds data for DeclFunction and DeclAnonymousFunction.
type FunctionData struct {
	ID         FuncID   `yaml:"id" msgpack:"id"`
	Label      string   `yaml:"label,omitempty" msgpack:"label,omitempty"`
	Receiver   *TypeRef `yaml:"receiver,omitempty" msgpack:"receiver,omitempty"`
	Params     []*Decl  `yaml:"params,omitempty" msgpack:"params,omitempty"`
	ReturnType *TypeRef `yaml:"return_type" msgpack:"return_type"`
	Body       *Block   `yaml:"body,omitempty" msgpack:"body,omitempty"`
}

func (*FunctionData) declData() {}

// ConstructorData holds data for DeclConstructor.
type ConstructorData struct {
	ID         FuncID   `yaml:"id" msgpack:"id"`
	Primary    bool     `yaml:"primary,omitempty" msgpack:"primary,omitempty"`
	Params     []*Decl  `yaml:"params,omitempty" msgpack:"params,omitempty"`
	ReturnType *TypeRef `yaml:"return_type" msgpack:"return_type"`
	// Delegation is an ExprDelegatedConstructorCall. Annotation class
	// constructors have none.
	Delegation *Expr  `yaml:"delegation,omitempty" msgpack:"delegation,omitempty"`
	Body       *Block `yaml:"body,omitempty" msgpack:"body,omitempty"`
}

func (*ConstructorData) declData() {}

// PropertyData holds data for DeclProperty.
type PropertyData struct {
	Receiver    *TypeRef `yaml:"receiver,omitempty" msgpack:"receiver,omitempty"`
	Type        *TypeRef `yaml:"type" msgpack:"type"`
	IsVar       bool     `yaml:"is_var,omitempty" msgpack:"is_var,omitempty"`
	Local       bool     `yaml:"local,omitempty" msgpack:"local,omitempty"`
	Initializer *Expr    `yaml:"initializer,omitempty" msgpack:"initializer,omitempty"`
	Delegate    *Expr    `yaml:"delegate,omitempty" msgpack:"delegate,omitempty"`
	Getter      *Decl    `yaml:"getter,omitempty" msgpack:"getter,omitempty"`
	Setter      *Decl    `yaml:"setter,omitempty" msgpack:"setter,omitempty"`
	// FromParameter marks properties declared by a val/var constructor
	// parameter.
	FromParameter bool `yaml:"from_parameter,omitempty" msgpack:"from_parameter,omitempty"`
}

func (*PropertyData) declData() {}

// AccessorData holds data for DeclAccessor.
type AccessorData struct {
	ID         FuncID   `yaml:"id" msgpack:"id"`
	Getter     bool     `yaml:"getter,omitempty" msgpack:"getter,omitempty"`
	Default    bool     `yaml:"default,omitempty" msgpack:"default,omitempty"`
	Params     []*Decl  `yaml:"params,omitempty" msgpack:"params,omitempty"`
	ReturnType *TypeRef `yaml:"return_type" msgpack:"return_type"`
	Body       *Block   `yaml:"body,omitempty" msgpack:"body,omitempty"`
}

func (*AccessorData) declData() {}

// ValueParameterData holds data for DeclValueParameter.
type ValueParameterData struct {
	Type    *TypeRef `yaml:"type" msgpack:"type"`
	Default *Expr    `yaml:"default,omitempty" msgpack:"default,omitempty"`
	// ValOrVar is "val", "var" or "" for plain parameters.
	ValOrVar string `yaml:"val_or_var,omitempty" msgpack:"val_or_var,omitempty"`
}

func (*ValueParameterData) declData() {}

// InitializerData holds data for DeclAnonymousInitializer.
type InitializerData struct {
	Body *Block `yaml:"body" msgpack:"body"`
}

func (*InitializerData) declData() {}

// EnumEntryData holds data for DeclEnumEntry.
type EnumEntryData struct {
	Type    *TypeRef `yaml:"type" msgpack:"type"`
	Args    []Arg    `yaml:"args,omitempty" msgpack:"args,omitempty"`
	Members []*Decl  `yaml:"members,omitempty" msgpack:"members,omitempty"`
}

func (*EnumEntryData) declData() {}

// Variance of a type parameter or type argument.
type Variance uint8

const (
	Invariant Variance = iota
	In
	Out
)

func (v Variance) String() string {
	switch v {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return ""
	}
}

// TypeParameterData holds data for DeclTypeParameter.
type TypeParameterData struct {
	Symbol   symbols.SymbolID `yaml:"symbol" msgpack:"symbol"`
	Variance Variance         `yaml:"variance,omitempty" msgpack:"variance,omitempty"`
	Bounds   []*TypeRef       `yaml:"bounds,omitempty" msgpack:"bounds,omitempty"`
}

func (*TypeParameterData) declData() {}

// Body returns the body block of any function-like declaration, or nil.
func (d *Decl) Body() *Block {
	switch data := d.Data.(type) {
	case *FunctionData:
		return data.Body
	case *ConstructorData:
		return data.Body
	case *AccessorData:
		return data.Body
	case *InitializerData:
		return data.Body
	}
	return nil
}

// Params returns the value parameters of a function-like declaration.
func (d *Decl) Params() []*Decl {
	switch data := d.Data.(type) {
	case *FunctionData:
		return data.Params
	case *ConstructorData:
		return data.Params
	case *AccessorData:
		return data.Params
	}
	return nil
}
