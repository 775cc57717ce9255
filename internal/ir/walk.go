package ir

// Inspect traverses the tree rooted at node in depth-first order, calling fn
// for every *File, *Decl, *Expr, *TypeRef and *Block. If fn returns false the
// children of that node are skipped.
func Inspect(node any, fn func(any) bool) {
	w := walker{fn: fn}
	w.walk(node)
}

type walker struct {
	fn func(any) bool
}

func (w *walker) walk(node any) {
	switch n := node.(type) {
	case *File:
		if n == nil || !w.fn(n) {
			return
		}
		for i := range n.Annotations {
			w.annotation(&n.Annotations[i])
		}
		for _, d := range n.Decls {
			w.walk(d)
		}
	case *Decl:
		if n == nil || !w.fn(n) {
			return
		}
		w.decl(n)
	case *Expr:
		if n == nil || !w.fn(n) {
			return
		}
		w.expr(n)
	case *TypeRef:
		if n == nil || !w.fn(n) {
			return
		}
		for i := range n.Annotations {
			w.annotation(&n.Annotations[i])
		}
		for _, p := range n.Parts {
			w.typeArgs(p.Args)
		}
		w.walk(n.Receiver)
		for _, p := range n.Params {
			w.walk(p)
		}
		w.walk(n.Return)
	case *Block:
		if n == nil || !w.fn(n) {
			return
		}
		for _, s := range n.Stmts {
			w.walk(s)
		}
	}
}

func (w *walker) annotation(a *Annotation) {
	w.walk(a.Type)
	w.args(a.Args)
}

func (w *walker) args(args []Arg) {
	for _, a := range args {
		w.walk(a.Value)
	}
}

func (w *walker) typeArgs(args []TypeArg) {
	for _, a := range args {
		w.walk(a.Type)
	}
}

func (w *walker) decls(ds []*Decl) {
	for _, d := range ds {
		w.walk(d)
	}
}

func (w *walker) decl(d *Decl) {
	for i := range d.Annotations {
		w.annotation(&d.Annotations[i])
	}
	w.decls(d.TypeParams)
	switch data := d.Data.(type) {
	case *ClassData:
		for _, t := range data.SuperTypes {
			w.walk(t)
		}
		for _, dg := range data.Delegates {
			w.walk(dg.Expr)
		}
		w.decls(data.Members)
	case *TypeAliasData:
		w.walk(data.Expanded)
	case *FunctionData:
		w.walk(data.Receiver)
		w.decls(data.Params)
		w.walk(data.ReturnType)
		w.walk(data.Body)
	case *ConstructorData:
		w.decls(data.Params)
		w.walk(data.Delegation)
		w.walk(data.Body)
	case *PropertyData:
		w.walk(data.Receiver)
		w.walk(data.Type)
		w.walk(data.Initializer)
		w.walk(data.Delegate)
		w.walk(data.Getter)
		w.walk(data.Setter)
	case *AccessorData:
		w.decls(data.Params)
		w.walk(data.ReturnType)
		w.walk(data.Body)
	case *ValueParameterData:
		w.walk(data.Type)
		w.walk(data.Default)
	case *InitializerData:
		w.walk(data.Body)
	case *EnumEntryData:
		w.args(data.Args)
		w.decls(data.Members)
	case *TypeParameterData:
		for _, b := range data.Bounds {
			w.walk(b)
		}
	}
}

func (w *walker) expr(e *Expr) {
	switch data := e.Data.(type) {
	case CallData:
		w.walk(data.Receiver)
		w.typeArgs(data.TypeArgs)
		w.args(data.Args)
	case OperatorCallData:
		for _, a := range data.Args {
			w.walk(a)
		}
	case PropertyGetData:
		w.walk(data.Receiver)
	case AssignmentData:
		w.walk(data.Value)
	case StringTemplateData:
		for _, p := range data.Parts {
			w.walk(p)
		}
	case BlockData:
		w.walk(data.Block)
	case WhenData:
		w.walk(data.Subject)
		w.walk(data.SubjectVar)
		for _, b := range data.Branches {
			w.walk(b.Cond)
			w.walk(b.Result)
		}
	case ReturnData:
		w.walk(data.Value)
	case DelegatedConstructorCallData:
		w.walk(data.Type)
		w.args(data.Args)
	case ThisData:
		w.walk(data.SuperType)
	case TypeOperatorData:
		w.walk(data.Value)
		w.walk(data.Type)
	case LambdaData:
		w.walk(data.Fn)
	case AnonymousObjectData:
		w.walk(data.Class)
	case LoopData:
		w.walk(data.Cond)
		w.walk(data.Body)
	case ThrowData:
		w.walk(data.Value)
	case TryData:
		w.walk(data.Block)
		for _, c := range data.Catches {
			w.walk(c.Param)
			w.walk(c.Block)
		}
		w.walk(data.Finally)
	case LocalDeclData:
		w.walk(data.Decl)
	}
}

// Count returns the number of expressions of each kind in the tree.
func Count(node any) map[ExprKind]int {
	out := make(map[ExprKind]int)
	Inspect(node, func(n any) bool {
		if e, ok := n.(*Expr); ok {
			out[e.Kind]++
		}
		return true
	})
	return out
}
