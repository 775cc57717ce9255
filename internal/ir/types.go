package ir

import (
	"strings"

	"ktfront/internal/source"
)

// TypeKind enumerates type reference variants.
type TypeKind uint8

const (
	// TypeImplicit defers the type to inference.
	TypeImplicit TypeKind = iota
	// TypeUser is a (possibly qualified) named type with type arguments.
	TypeUser
	// TypeFunction is `R.(P1, P2) -> T`.
	TypeFunction
	// TypeDynamic is the `dynamic` type.
	TypeDynamic
	// TypeError carries a message describing why no type could be built.
	TypeError
)

func (k TypeKind) String() string {
	switch k {
	case TypeImplicit:
		return "implicit"
	case TypeUser:
		return "user"
	case TypeFunction:
		return "function"
	case TypeDynamic:
		return "dynamic"
	case TypeError:
		return "error"
	default:
		return "unknown"
	}
}

// QualifierPart is one dotted segment of a user type with its own arguments,
// e.g. Outer<A>.Inner<B> has two parts.
type QualifierPart struct {
	Name string    `yaml:"name" msgpack:"name"`
	Args []TypeArg `yaml:"args,omitempty" msgpack:"args,omitempty"`
}

// TypeArg is a type projection; Star means `*`.
type TypeArg struct {
	Star     bool     `yaml:"star,omitempty" msgpack:"star,omitempty"`
	Variance Variance `yaml:"variance,omitempty" msgpack:"variance,omitempty"`
	Type     *TypeRef `yaml:"type,omitempty" msgpack:"type,omitempty"`
}

// TypeRef is a type reference. Fields beyond Kind, Nullable and Annotations
// are populated per kind.
type TypeRef struct {
	Kind        TypeKind     `yaml:"kind" msgpack:"kind"`
	Nullable    bool         `yaml:"nullable,omitempty" msgpack:"nullable,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty" msgpack:"annotations,omitempty"`
	Span        source.Span  `yaml:"-" msgpack:"-"`

	Parts []QualifierPart `yaml:"parts,omitempty" msgpack:"parts,omitempty"`

	Receiver *TypeRef   `yaml:"receiver,omitempty" msgpack:"receiver,omitempty"`
	Params   []*TypeRef `yaml:"params,omitempty" msgpack:"params,omitempty"`
	Return   *TypeRef   `yaml:"return,omitempty" msgpack:"return,omitempty"`

	Message string `yaml:"message,omitempty" msgpack:"message,omitempty"`
}

// ImplicitType returns a fresh implicit type.
func ImplicitType() *TypeRef { return &TypeRef{Kind: TypeImplicit} }

// ErrorType returns an error type carrying msg.
func ErrorType(span source.Span, msg string) *TypeRef {
	return &TypeRef{Kind: TypeError, Span: span, Message: msg}
}

// UserType builds a user type from dotted name segments; args apply to the
// last segment.
func UserType(name string, args ...TypeArg) *TypeRef {
	segs := strings.Split(name, ".")
	parts := make([]QualifierPart, len(segs))
	for i, s := range segs {
		parts[i] = QualifierPart{Name: s}
	}
	parts[len(parts)-1].Args = args
	return &TypeRef{Kind: TypeUser, Parts: parts}
}

// Builtin marker types.
const (
	AnyTypeName     = "kotlin.Any"
	EnumTypeName    = "kotlin.Enum"
	UnitTypeName    = "kotlin.Unit"
	StringTypeName  = "kotlin.String"
	ArrayTypeName   = "kotlin.Array"
	NothingTypeName = "kotlin.Nothing"
)

// AnyType is the default delegated super type.
func AnyType() *TypeRef { return UserType(AnyTypeName) }

// EnumType is the default delegated super type of an enum class.
func EnumType(self *TypeRef) *TypeRef {
	return UserType(EnumTypeName, TypeArg{Type: self})
}

// QualifiedName joins the part names with dots.
func (t *TypeRef) QualifiedName() string {
	if t == nil {
		return ""
	}
	names := make([]string, len(t.Parts))
	for i, p := range t.Parts {
		names[i] = p.Name
	}
	return strings.Join(names, ".")
}

// IsError reports an error type.
func (t *TypeRef) IsError() bool { return t != nil && t.Kind == TypeError }

// String renders the type in source syntax.
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *TypeRef) write(sb *strings.Builder) {
	if t == nil {
		sb.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case TypeImplicit:
		sb.WriteString("<implicit>")
	case TypeDynamic:
		sb.WriteString("dynamic")
	case TypeError:
		sb.WriteString("<error: ")
		sb.WriteString(t.Message)
		sb.WriteString(">")
	case TypeUser:
		for i, p := range t.Parts {
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(p.Name)
			writeArgs(sb, p.Args)
		}
	case TypeFunction:
		if t.Nullable {
			sb.WriteByte('(')
		}
		if t.Receiver != nil {
			t.Receiver.write(sb)
			sb.WriteByte('.')
		}
		sb.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.write(sb)
		}
		sb.WriteString(") -> ")
		t.Return.write(sb)
		if t.Nullable {
			sb.WriteByte(')')
		}
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
}

func writeArgs(sb *strings.Builder, args []TypeArg) {
	if len(args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch {
		case a.Star:
			sb.WriteByte('*')
		default:
			if a.Variance != Invariant {
				sb.WriteString(a.Variance.String())
				sb.WriteByte(' ')
			}
			a.Type.write(sb)
		}
	}
	sb.WriteByte('>')
}
