package ir

// Operation is the canonical form of a built-in operator.
type Operation uint8

const (
	OpEq Operation = iota
	OpNotEq
	OpIdentity
	OpNotIdentity
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd
	OpOr
	OpAssign
	OpPlusAssign
	OpMinusAssign
	OpTimesAssign
	OpDivAssign
	OpRemAssign
	OpIs
	OpNotIs
	OpAs
	OpSafeAs
	OpCheckNotNull
)

var opText = [...]string{
	OpEq:           "==",
	OpNotEq:        "!=",
	OpIdentity:     "===",
	OpNotIdentity:  "!==",
	OpLt:           "<",
	OpGt:           ">",
	OpLtEq:         "<=",
	OpGtEq:         ">=",
	OpAnd:          "&&",
	OpOr:           "||",
	OpAssign:       "=",
	OpPlusAssign:   "+=",
	OpMinusAssign:  "-=",
	OpTimesAssign:  "*=",
	OpDivAssign:    "/=",
	OpRemAssign:    "%=",
	OpIs:           "is",
	OpNotIs:        "!is",
	OpAs:           "as",
	OpSafeAs:       "as?",
	OpCheckNotNull: "!!",
}

// String returns the operator token.
func (op Operation) String() string {
	if int(op) < len(opText) {
		return opText[op]
	}
	return "?"
}

// IsAssignment reports = and the compound assignment family.
func (op Operation) IsAssignment() bool {
	return op >= OpAssign && op <= OpRemAssign
}
