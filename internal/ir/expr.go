package ir

import (
	"ktfront/internal/source"
)

// ExprKind enumerates IR expression kinds.
type ExprKind uint8

const (
	// ExprCall is a call of a named callee, optionally on a receiver.
	ExprCall ExprKind = iota
	// ExprOperatorCall is a built-in operation (comparison, equality,
	// identity, logic, !!).
	ExprOperatorCall
	// ExprPropertyGet reads a variable or property.
	ExprPropertyGet
	// ExprAssignment writes a variable or property (plain or compound).
	ExprAssignment
	// ExprConstant is a literal value. A nil Value means the literal was
	// malformed; Message says why.
	ExprConstant
	// ExprStringTemplate concatenates literal and interpolated parts.
	ExprStringTemplate
	// ExprBlock is a statement sequence whose value is its last statement.
	ExprBlock
	// ExprWhen is the single conditional shape: if, when and elvis all
	// lower to it.
	ExprWhen
	// ExprWhenSubject refers to the subject of the enclosing when.
	ExprWhenSubject
	// ExprReturn returns from a function-like declaration.
	ExprReturn
	// ExprDelegatedConstructorCall is this(...) or super(...) in a
	// constructor header.
	ExprDelegatedConstructorCall
	// ExprStub replaces an elided expression in stub mode.
	ExprStub
	// ExprError marks a subtree that could not be converted.
	ExprError
	// ExprThis is `this` or `super`, optionally labeled.
	ExprThis
	// ExprTypeOperator is is, !is, as or as?.
	ExprTypeOperator
	// ExprLambda wraps an anonymous function declaration.
	ExprLambda
	// ExprAnonymousObject wraps an object literal's class declaration.
	ExprAnonymousObject
	// ExprLoop is while or do-while; for loops are desugared to while.
	ExprLoop
	// ExprJump is break or continue.
	ExprJump
	// ExprThrow throws its value.
	ExprThrow
	// ExprTry is try/catch/finally.
	ExprTry
	// ExprLocalDecl is a declaration in statement position.
	ExprLocalDecl
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprCall:
		return "Call"
	case ExprOperatorCall:
		return "OperatorCall"
	case ExprPropertyGet:
		return "PropertyGet"
	case ExprAssignment:
		return "Assignment"
	case ExprConstant:
		return "Constant"
	case ExprStringTemplate:
		return "StringTemplate"
	case ExprBlock:
		return "Block"
	case ExprWhen:
		return "When"
	case ExprWhenSubject:
		return "WhenSubject"
	case ExprReturn:
		return "Return"
	case ExprDelegatedConstructorCall:
		return "DelegatedConstructorCall"
	case ExprStub:
		return "Stub"
	case ExprError:
		return "Error"
	case ExprThis:
		return "This"
	case ExprTypeOperator:
		return "TypeOperator"
	case ExprLambda:
		return "Lambda"
	case ExprAnonymousObject:
		return "AnonymousObject"
	case ExprLoop:
		return "Loop"
	case ExprJump:
		return "Jump"
	case ExprThrow:
		return "Throw"
	case ExprTry:
		return "Try"
	case ExprLocalDecl:
		return "LocalDecl"
	default:
		return "Unknown"
	}
}

// Expr is an IR expression. Span points back at the CST node it came from.
type Expr struct {
	Kind ExprKind    `yaml:"kind" msgpack:"kind"`
	Span source.Span `yaml:"-" msgpack:"-"`
	Data ExprData    `yaml:"data,omitempty" msgpack:"data,omitempty"`
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// Block is a statement list.
type Block struct {
	Stmts []*Expr     `yaml:"stmts" msgpack:"stmts"`
	Span  source.Span `yaml:"-" msgpack:"-"`
}

// IsEmpty returns true if the block has no statements.
func (b *Block) IsEmpty() bool {
	return b == nil || len(b.Stmts) == 0
}

// IsStub reports the stub-mode body shape: exactly one Stub statement.
func (b *Block) IsStub() bool {
	return b != nil && len(b.Stmts) == 1 && b.Stmts[0] != nil && b.Stmts[0].Kind == ExprStub
}

// RefKind enumerates callee / target reference variants.
type RefKind uint8

const (
	// RefSimple is a by-name reference left for resolution.
	RefSimple RefKind = iota
	// RefBackingField is the `field` of the enclosing property.
	RefBackingField
	// RefError is a reference that could not be built.
	RefError
)

// Ref names the target of a call, read or write.
type Ref struct {
	Kind    RefKind `yaml:"kind" msgpack:"kind"`
	Name    string  `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Message string  `yaml:"message,omitempty" msgpack:"message,omitempty"`
}

// IsError reports an error reference.
func (r Ref) IsError() bool { return r.Kind == RefError }

// Arg is a call argument.
type Arg struct {
	Name   string `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Spread bool   `yaml:"spread,omitempty" msgpack:"spread,omitempty"`
	Value  *Expr  `yaml:"value" msgpack:"value"`
}

// CallData holds data for ExprCall.
type CallData struct {
	Receiver *Expr     `yaml:"receiver,omitempty" msgpack:"receiver,omitempty"`
	Callee   Ref       `yaml:"callee" msgpack:"callee"`
	TypeArgs []TypeArg `yaml:"type_args,omitempty" msgpack:"type_args,omitempty"`
	Args     []Arg     `yaml:"args,omitempty" msgpack:"args,omitempty"`
	Safe     bool      `yaml:"safe,omitempty" msgpack:"safe,omitempty"`
}

func (CallData) exprData() {}

// OperatorCallData holds data for ExprOperatorCall.
type OperatorCallData struct {
	Op   Operation `yaml:"op" msgpack:"op"`
	Args []*Expr   `yaml:"args" msgpack:"args"`
}

func (OperatorCallData) exprData() {}

// PropertyGetData holds data for ExprPropertyGet.
type PropertyGetData struct {
	Receiver *Expr `yaml:"receiver,omitempty" msgpack:"receiver,omitempty"`
	Ref      Ref   `yaml:"ref" msgpack:"ref"`
	Safe     bool  `yaml:"safe,omitempty" msgpack:"safe,omitempty"`
}

func (PropertyGetData) exprData() {}

// AssignmentData holds data for ExprAssignment. Op is OpAssign or one of the
// compound assignment operations.
type AssignmentData struct {
	Op     Operation `yaml:"op" msgpack:"op"`
	Target Ref       `yaml:"target" msgpack:"target"`
	Value  *Expr     `yaml:"value" msgpack:"value"`
}

func (AssignmentData) exprData() {}

// ConstKind enumerates constant value types.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstLong
	ConstFloat
	ConstDouble
	ConstChar
	ConstBoolean
	ConstString
	ConstNull
)

func (k ConstKind) String() string {
	switch k {
	case ConstInt:
		return "Int"
	case ConstLong:
		return "Long"
	case ConstFloat:
		return "Float"
	case ConstDouble:
		return "Double"
	case ConstChar:
		return "Char"
	case ConstBoolean:
		return "Boolean"
	case ConstString:
		return "String"
	case ConstNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// ConstantData holds data for ExprConstant. Value is int32, int64, float32,
// float64, rune, bool, string or nil. A nil Value on a kind other than
// ConstNull means the literal was malformed.
type ConstantData struct {
	Kind    ConstKind `yaml:"kind" msgpack:"kind"`
	Value   any       `yaml:"value,omitempty" msgpack:"value,omitempty"`
	Message string    `yaml:"message,omitempty" msgpack:"message,omitempty"`
}

func (ConstantData) exprData() {}

// Malformed reports a constant without a usable value.
func (c ConstantData) Malformed() bool {
	return c.Value == nil && c.Kind != ConstNull
}

// StringTemplateData holds data for ExprStringTemplate.
type StringTemplateData struct {
	Parts []*Expr `yaml:"parts" msgpack:"parts"`
}

func (StringTemplateData) exprData() {}

// BlockData holds data for ExprBlock.
type BlockData struct {
	Block *Block `yaml:"block" msgpack:"block"`
}

func (BlockData) exprData() {}

// WhenBranch is one guarded branch. Else branches carry a constant true
// condition.
type WhenBranch struct {
	Cond   *Expr       `yaml:"cond" msgpack:"cond"`
	Result *Block      `yaml:"result" msgpack:"result"`
	Else   bool        `yaml:"else,omitempty" msgpack:"else,omitempty"`
	Span   source.Span `yaml:"-" msgpack:"-"`
}

// WhenData holds data for ExprWhen.
type WhenData struct {
	// Subject is the matched value. It is nil when SubjectVar is set: the
	// value is then the temporary's initializer and branches read it through
	// ExprWhenSubject.
	Subject    *Expr        `yaml:"subject,omitempty" msgpack:"subject,omitempty"`
	SubjectVar *Decl        `yaml:"subject_var,omitempty" msgpack:"subject_var,omitempty"`
	Branches   []WhenBranch `yaml:"branches" msgpack:"branches"`
}

func (WhenData) exprData() {}

// HasElse reports whether the last branch is an else branch.
func (w WhenData) HasElse() bool {
	return len(w.Branches) > 0 && w.Branches[len(w.Branches)-1].Else
}

// WhenSubjectData holds data for ExprWhenSubject.
type WhenSubjectData struct{}

func (WhenSubjectData) exprData() {}

// ReturnData holds data for ExprReturn. Target is NoFuncID for labeled
// returns; their label is kept for later resolution.
type ReturnData struct {
	Target FuncID `yaml:"target" msgpack:"target"`
	Label  string `yaml:"label,omitempty" msgpack:"label,omitempty"`
	Value  *Expr  `yaml:"value,omitempty" msgpack:"value,omitempty"`
}

func (ReturnData) exprData() {}

// DelegatedConstructorCallData holds data for ExprDelegatedConstructorCall.
type DelegatedConstructorCallData struct {
	This     bool     `yaml:"this,omitempty" msgpack:"this,omitempty"`
	Implicit bool     `yaml:"implicit,omitempty" msgpack:"implicit,omitempty"`
	Type     *TypeRef `yaml:"type" msgpack:"type"`
	Args     []Arg    `yaml:"args,omitempty" msgpack:"args,omitempty"`
}

func (DelegatedConstructorCallData) exprData() {}

// StubData holds data for ExprStub.
type StubData struct{}

func (StubData) exprData() {}

// ErrorData holds data for ExprError.
type ErrorData struct {
	Message string `yaml:"message" msgpack:"message"`
}

func (ErrorData) exprData() {}

// ThisData holds data for ExprThis.
type ThisData struct {
	Label     string   `yaml:"label,omitempty" msgpack:"label,omitempty"`
	Super     bool     `yaml:"super,omitempty" msgpack:"super,omitempty"`
	SuperType *TypeRef `yaml:"super_type,omitempty" msgpack:"super_type,omitempty"`
}

func (ThisData) exprData() {}

// TypeOperatorData holds data for ExprTypeOperator.
type TypeOperatorData struct {
	Op    Operation `yaml:"op" msgpack:"op"`
	Value *Expr     `yaml:"value" msgpack:"value"`
	Type  *TypeRef  `yaml:"type" msgpack:"type"`
}

func (TypeOperatorData) exprData() {}

// LambdaData holds data for ExprLambda.
type LambdaData struct {
	Fn *Decl `yaml:"fn" msgpack:"fn"`
}

func (LambdaData) exprData() {}

// AnonymousObjectData holds data for ExprAnonymousObject.
type AnonymousObjectData struct {
	Class *Decl `yaml:"class" msgpack:"class"`
}

func (AnonymousObjectData) exprData() {}

// LoopKind distinguishes loop forms.
type LoopKind uint8

const (
	LoopWhile LoopKind = iota
	LoopDoWhile
)

// LoopData holds data for ExprLoop.
type LoopData struct {
	Kind  LoopKind `yaml:"kind" msgpack:"kind"`
	Label string   `yaml:"label,omitempty" msgpack:"label,omitempty"`
	Cond  *Expr    `yaml:"cond" msgpack:"cond"`
	Body  *Block   `yaml:"body" msgpack:"body"`
}

func (LoopData) exprData() {}

// JumpKind distinguishes break and continue.
type JumpKind uint8

const (
	JumpBreak JumpKind = iota
	JumpContinue
)

// JumpData holds data for ExprJump.
type JumpData struct {
	Kind  JumpKind `yaml:"kind" msgpack:"kind"`
	Label string   `yaml:"label,omitempty" msgpack:"label,omitempty"`
}

func (JumpData) exprData() {}

// ThrowData holds data for ExprThrow.
type ThrowData struct {
	Value *Expr `yaml:"value" msgpack:"value"`
}

func (ThrowData) exprData() {}

// Catch is one catch clause; Param is a DeclValueParameter.
type Catch struct {
	Param *Decl  `yaml:"param" msgpack:"param"`
	Block *Block `yaml:"block" msgpack:"block"`
}

// TryData holds data for ExprTry.
type TryData struct {
	Block   *Block  `yaml:"block" msgpack:"block"`
	Catches []Catch `yaml:"catches,omitempty" msgpack:"catches,omitempty"`
	Finally *Block  `yaml:"finally,omitempty" msgpack:"finally,omitempty"`
}

func (TryData) exprData() {}

// LocalDeclData holds data for ExprLocalDecl.
type LocalDeclData struct {
	Decl *Decl `yaml:"decl" msgpack:"decl"`
}

func (LocalDeclData) exprData() {}

// NewStub returns a Stub expression at span.
func NewStub(span source.Span) *Expr {
	return &Expr{Kind: ExprStub, Span: span, Data: StubData{}}
}

// NewError returns an Error expression carrying msg.
func NewError(span source.Span, msg string) *Expr {
	return &Expr{Kind: ExprError, Span: span, Data: ErrorData{Message: msg}}
}

// StubBlock is the body shape every function-like declaration gets in stub
// mode.
func StubBlock(span source.Span) *Block {
	return &Block{Stmts: []*Expr{NewStub(span)}, Span: span}
}
