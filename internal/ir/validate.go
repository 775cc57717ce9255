package ir

import (
	"fmt"
	"strings"
)

// ValidationError describes one structural violation found by Validate.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Validate checks the structural guarantees the lowering stage makes about a
// file. With stub set it additionally requires every present body to be a
// single Stub statement.
func Validate(f *File, stub bool) []error {
	v := &validator{stub: stub}
	for _, d := range f.Decls {
		v.decl(d)
	}
	return v.errs
}

type validator struct {
	stub bool
	path []string
	errs []error
}

func (v *validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{
		Path:    strings.Join(v.path, "."),
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) push(name string) { v.path = append(v.path, name) }
func (v *validator) pop()             { v.path = v.path[:len(v.path)-1] }

func (v *validator) decl(d *Decl) {
	if d == nil {
		v.errorf("nil declaration")
		return
	}
	name := d.Name
	if name == "" {
		name = "<" + d.Kind.String() + ">"
	}
	v.push(name)
	defer v.pop()

	if d.Data == nil {
		v.errorf("%s has no data", d.Kind)
		return
	}

	switch data := d.Data.(type) {
	case *ClassData:
		v.class(data)
	case *FunctionData:
		v.params(data.Params)
		v.body(data.Body)
	case *ConstructorData:
		v.params(data.Params)
		if !data.Primary {
			v.body(data.Body)
		}
		if data.Delegation != nil && data.Delegation.Kind != ExprDelegatedConstructorCall && data.Delegation.Kind != ExprError {
			v.errorf("constructor delegation is %s", data.Delegation.Kind)
		}
	case *PropertyData:
		v.property(data)
	case *AccessorData:
		v.params(data.Params)
		v.body(data.Body)
	case *InitializerData:
		v.body(data.Body)
	case *EnumEntryData:
		for _, m := range data.Members {
			v.decl(m)
		}
	case *TypeAliasData:
		if data.Expanded == nil {
			v.errorf("type alias without expansion")
		}
	case *ValueParameterData:
		if data.Type == nil {
			v.errorf("parameter without type")
		}
	case *TypeParameterData:
	}
}

func (v *validator) class(c *ClassData) {
	if c.SelfType == nil {
		v.errorf("class without self type")
	}
	primary := c.PrimaryConstructor()
	secondary := 0
	seenOther := false
	for _, m := range c.Members {
		switch data := m.Data.(type) {
		case *ConstructorData:
			if !data.Primary {
				secondary++
			}
		case *PropertyData:
			if data.FromParameter && seenOther {
				v.errorf("parameter property %s follows other members", m.Name)
			}
			if data.FromParameter {
				continue
			}
		}
		seenOther = true
	}
	if c.ClassKind != ClassKindInterface && primary == nil && secondary == 0 {
		v.errorf("%s has no constructor", c.ClassKind)
	}
	for _, m := range c.Members {
		v.decl(m)
	}
}

func (v *validator) property(p *PropertyData) {
	if p.Type == nil {
		v.errorf("property without type")
	}
	if p.Local {
		return
	}
	if p.Getter == nil {
		v.errorf("property without getter")
	} else {
		v.decl(p.Getter)
	}
	if p.IsVar && p.Setter == nil {
		v.errorf("var property without setter")
	}
	if p.Setter != nil {
		v.decl(p.Setter)
	}
}

func (v *validator) params(params []*Decl) {
	for _, p := range params {
		if p.Kind != DeclValueParameter {
			v.errorf("parameter list holds %s", p.Kind)
			continue
		}
		v.decl(p)
	}
}

func (v *validator) body(b *Block) {
	if b == nil {
		return
	}
	if v.stub {
		if !b.IsStub() {
			v.errorf("body is not a stub")
		}
		return
	}
	Inspect(b, func(n any) bool {
		e, ok := n.(*Expr)
		if !ok {
			return true
		}
		if e.Data == nil {
			v.errorf("%s expression without data", e.Kind)
			return false
		}
		if e.Kind == ExprReturn {
			if r, ok := e.Data.(ReturnData); ok && r.Label == "" && !r.Target.IsValid() {
				v.errorf("unlabeled return without target")
			}
		}
		return true
	})
}
