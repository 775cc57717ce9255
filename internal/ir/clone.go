package ir

// Clone returns a deep copy of t. A type needed at more than one position
// is cloned for each extra use; the IR never shares nodes.
func (t *TypeRef) Clone() *TypeRef {
	if t == nil {
		return nil
	}
	c := *t
	c.Annotations = cloneAnnotations(t.Annotations)
	if t.Parts != nil {
		c.Parts = make([]QualifierPart, len(t.Parts))
		for i, p := range t.Parts {
			c.Parts[i] = QualifierPart{Name: p.Name, Args: cloneTypeArgs(p.Args)}
		}
	}
	c.Receiver = t.Receiver.Clone()
	if t.Params != nil {
		c.Params = make([]*TypeRef, len(t.Params))
		for i, p := range t.Params {
			c.Params[i] = p.Clone()
		}
	}
	c.Return = t.Return.Clone()
	return &c
}

func cloneTypeArgs(args []TypeArg) []TypeArg {
	if args == nil {
		return nil
	}
	out := make([]TypeArg, len(args))
	for i, a := range args {
		out[i] = TypeArg{Star: a.Star, Variance: a.Variance, Type: a.Type.Clone()}
	}
	return out
}

func cloneAnnotations(anns []Annotation) []Annotation {
	if anns == nil {
		return nil
	}
	out := make([]Annotation, len(anns))
	for i, a := range anns {
		out[i] = Annotation{UseSite: a.UseSite, Type: a.Type.Clone(), Args: cloneArgs(a.Args), Span: a.Span}
	}
	return out
}

func cloneArgs(args []Arg) []Arg {
	if args == nil {
		return nil
	}
	out := make([]Arg, len(args))
	for i, a := range args {
		out[i] = Arg{Name: a.Name, Spread: a.Spread, Value: cloneConstant(a.Value)}
	}
	return out
}

func cloneExprs(es []*Expr) []*Expr {
	if es == nil {
		return nil
	}
	out := make([]*Expr, len(es))
	for i, e := range es {
		out[i] = cloneConstant(e)
	}
	return out
}

// cloneConstant copies an annotation argument. Annotation arguments are
// constant expressions: literals, templates, references, calls and
// operators over those. Any other shape is copied as an error at the same
// span.
func cloneConstant(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	c := &Expr{Kind: e.Kind, Span: e.Span}
	switch data := e.Data.(type) {
	case ConstantData, ErrorData, StubData, WhenSubjectData:
		c.Data = data
	case StringTemplateData:
		c.Data = StringTemplateData{Parts: cloneExprs(data.Parts)}
	case PropertyGetData:
		data.Receiver = cloneConstant(data.Receiver)
		c.Data = data
	case CallData:
		data.Receiver = cloneConstant(data.Receiver)
		data.TypeArgs = cloneTypeArgs(data.TypeArgs)
		data.Args = cloneArgs(data.Args)
		c.Data = data
	case OperatorCallData:
		c.Data = OperatorCallData{Op: data.Op, Args: cloneExprs(data.Args)}
	case ThisData:
		data.SuperType = data.SuperType.Clone()
		c.Data = data
	case TypeOperatorData:
		c.Data = TypeOperatorData{Op: data.Op, Value: cloneConstant(data.Value), Type: data.Type.Clone()}
	default:
		return NewError(e.Span, "annotation argument is not a constant expression")
	}
	return c
}
