// Package lower converts a CST file into the IR.
//
// The conversion is one recursive pass over an immutable tree. Each CST node
// the pass reaches yields exactly one IR node, so callers may recurse freely
// without losing or duplicating nodes. Input the pass cannot convert becomes
// an Error node (or an error type, an error reference, or a constant without
// a value) at the point of failure and the rest of the file is still lowered.
//
// Node shapes the pass expects, by kind (children in order, ? optional,
// * repeated):
//
//	FILE                 PACKAGE_DIRECTIVE? FILE_ANNOTATION_LIST? IMPORT_LIST? decl*
//	IMPORT_DIRECTIVE     QUALIFIED_NAME STAR? IMPORT_ALIAS?
//	ANNOTATION_ENTRY     ANNOTATION_TARGET? CONSTRUCTOR_CALLEE VALUE_ARGUMENT_LIST?
//	CLASS                MODIFIER_LIST? KEYWORD IDENTIFIER TYPE_PARAMETER_LIST?
//	                     PRIMARY_CONSTRUCTOR? SUPER_TYPE_LIST? TYPE_CONSTRAINT_LIST? CLASS_BODY?
//	OBJECT_DECLARATION   MODIFIER_LIST? IDENTIFIER? SUPER_TYPE_LIST? CLASS_BODY?
//	FUN                  MODIFIER_LIST? TYPE_PARAMETER_LIST? TYPE_REFERENCE? IDENTIFIER
//	                     VALUE_PARAMETER_LIST TYPE_REFERENCE? TYPE_CONSTRAINT_LIST? expr?
//	PROPERTY             MODIFIER_LIST? KEYWORD TYPE_PARAMETER_LIST? TYPE_REFERENCE? IDENTIFIER
//	                     TYPE_REFERENCE? expr? PROPERTY_DELEGATE? PROPERTY_ACCESSOR*
//	PROPERTY_ACCESSOR    MODIFIER_LIST? KEYWORD VALUE_PARAMETER_LIST? TYPE_REFERENCE? expr?
//	VALUE_PARAMETER      MODIFIER_LIST? KEYWORD? IDENTIFIER TYPE_REFERENCE? expr?
//	USER_TYPE            USER_TYPE? IDENTIFIER TYPE_ARGUMENT_LIST?
//	CALL_EXPRESSION      expr? TYPE_ARGUMENT_LIST? VALUE_ARGUMENT_LIST? LAMBDA_ARGUMENT*
//	BINARY_EXPRESSION    expr OPERATION_REFERENCE expr
//	IF                   CONDITION THEN? ELSE?
//	WHEN                 (expr | PROPERTY)? WHEN_ENTRY*
//	WHEN_ENTRY           (KEYWORD | WHEN_CONDITION_*+) expr
//	FOR                  VALUE_PARAMETER LOOP_RANGE BODY?
//
// A type reference before the name of a function or property is its
// receiver; one after the parameter list (or the name) is its declared type.
package lower

import (
	"context"
	"errors"
	"fmt"

	"ktfront/internal/cst"
	"ktfront/internal/ir"
	"ktfront/internal/source"
	"ktfront/internal/symbols"
	"ktfront/internal/trace"
)

// Options controls a Build call.
type Options struct {
	// Stub keeps every declaration but replaces bodies and other expression
	// subtrees with Stub nodes.
	Stub bool
	// Path is recorded on the resulting file.
	Path string
	// Symbols is the arena symbols are allocated in. A new table is created
	// when nil. A table must not be shared by concurrent builds.
	Symbols *symbols.Table
}

// ErrNilRoot is returned when Build is called without a tree.
var ErrNilRoot = errors.New("lower: nil CST root")

// InvariantError reports a node the grammar guarantees cannot occur where
// it was found. It signals a defect in the parser or in this package, not a
// problem with the user's source.
type InvariantError struct {
	Kind    cst.Kind
	Span    source.Span
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("lower: internal invariant violated at %s %s: %s", e.Kind, e.Span, e.Message)
}

// Build lowers root, a FILE node, into an IR file.
func Build(root *cst.Node, opts Options) (*ir.File, error) {
	return BuildContext(context.Background(), root, opts)
}

// BuildContext is Build with cancellation checked between top-level
// declarations and per-declaration trace spans taken from ctx.
func BuildContext(ctx context.Context, root *cst.Node, opts Options) (file *ir.File, err error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ie, ok := r.(*InvariantError)
		if !ok {
			panic(r)
		}
		file, err = nil, ie
	}()

	l := &lowerer{opts: opts}
	return l.lowerFile(ctx, root)
}

// lowerer holds the traversal state of one Build call.
type lowerer struct {
	opts  Options
	alloc *symbols.Allocator

	// funcs is the stack of enclosing named functions, constructors and
	// accessors. Unlabeled returns bind to its top.
	funcs  []ir.FuncID
	nextFn ir.FuncID

	// classes is the stack of enclosing class-like declarations.
	classes []*classScope

	// accessorDepth counts enclosing accessor bodies, where `field` names the
	// backing field.
	accessorDepth int
}

type classScope struct {
	kind  ir.ClassKind
	self  *ir.TypeRef
	super *ir.TypeRef
}

func (l *lowerer) invariantf(n *cst.Node, format string, args ...any) {
	panic(&InvariantError{Kind: n.Kind, Span: n.Span, Message: fmt.Sprintf(format, args...)})
}

func (l *lowerer) newFunc() ir.FuncID {
	l.nextFn++
	return l.nextFn
}

// withFunc runs body with id as the target of unlabeled returns.
func (l *lowerer) withFunc(id ir.FuncID, body func()) {
	l.funcs = append(l.funcs, id)
	defer func() { l.funcs = l.funcs[:len(l.funcs)-1] }()
	body()
}

func (l *lowerer) currentFunc() ir.FuncID {
	if len(l.funcs) == 0 {
		return ir.NoFuncID
	}
	return l.funcs[len(l.funcs)-1]
}

func (l *lowerer) withClass(scope *classScope, body func()) {
	l.classes = append(l.classes, scope)
	defer func() { l.classes = l.classes[:len(l.classes)-1] }()
	body()
}

func (l *lowerer) currentClass() *classScope {
	if len(l.classes) == 0 {
		return nil
	}
	return l.classes[len(l.classes)-1]
}

func (l *lowerer) lowerFile(ctx context.Context, root *cst.Node) (*ir.File, error) {
	if root.Kind != cst.KindFile {
		l.invariantf(root, "root is not a file")
	}

	f := &ir.File{Path: l.opts.Path, Span: root.Span}
	if pd := root.First(cst.KindPackageDirective); pd != nil {
		f.Package = qualifiedName(pd)
	}
	l.alloc = symbols.NewAllocator(l.opts.Symbols, f.Package)
	f.Symbols = l.alloc.Table()

	f.Annotations = l.annotations(root.First(cst.KindFileAnnotationList).All(cst.KindAnnotationEntry))
	for _, imp := range root.First(cst.KindImportList).All(cst.KindImportDirective) {
		f.Imports = append(f.Imports, importDirective(imp))
	}

	tracer := trace.FromContext(ctx)
	parent := trace.ParentID(ctx)
	for _, c := range root.Children {
		if c == nil {
			continue
		}
		switch c.Kind {
		case cst.KindPackageDirective, cst.KindImportList, cst.KindFileAnnotationList:
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		span := trace.Begin(tracer, trace.ScopeDecl, "decl", parent).WithExtra("name", c.Name())
		f.Decls = append(f.Decls, l.decl(c))
		span.End("")
	}
	return f, nil
}

func qualifiedName(n *cst.Node) string {
	if q := n.First(cst.KindQualifiedName); q != nil {
		return q.Text
	}
	return n.Text
}

func importDirective(n *cst.Node) ir.Import {
	return ir.Import{
		Path:     qualifiedName(n),
		Wildcard: n.First(cst.KindStar) != nil,
		Alias:    n.First(cst.KindImportAlias).Name(),
		Span:     n.Span,
	}
}
