// Package ir defines the semantic tree produced by lowering one CST file.
//
// The IR is what resolution, inference and code generation consume. It is
// desugared (if, elvis and for loops become when/while shapes), carries
// explicit Error nodes wherever the input could not be converted, and refers
// to class-like declarations through symbol handles instead of pointers.
package ir

// FuncID identifies a function-like declaration (function, constructor,
// accessor, anonymous function) that a return can target.
type FuncID uint32

// NoFuncID marks an unresolved return target.
const NoFuncID FuncID = 0

// IsValid reports whether the id refers to an allocated function.
func (id FuncID) IsValid() bool { return id != NoFuncID }
