package pyast

// Operator enumerates Python binary, unary, boolean and comparison operators.
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	MatMult
	Div
	TrueDiv // `from __future__ import division` marker
	FloorDiv
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd

	Eq
	NotEq
	NotEqAlt // <>
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn

	And
	Or

	Not
	USub
	UAdd
	Invert
)

var operatorText = [...]string{
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	MatMult:  "@",
	Div:      "/",
	TrueDiv:  "/",
	FloorDiv: "//",
	Mod:      "%",
	Pow:      "**",
	LShift:   "<<",
	RShift:   ">>",
	BitOr:    "|",
	BitXor:   "^",
	BitAnd:   "&",
	Eq:       "==",
	NotEq:    "!=",
	NotEqAlt: "<>",
	Lt:       "<",
	LtE:      "<=",
	Gt:       ">",
	GtE:      ">=",
	Is:       "is",
	IsNot:    "is not",
	In:       "in",
	NotIn:    "not in",
	And:      "and",
	Or:       "or",
	Not:      "not",
	USub:     "-",
	UAdd:     "+",
	Invert:   "~",
}

var operatorNames = [...]string{
	Add:      "Add",
	Sub:      "Subtract",
	Mul:      "Multiply",
	MatMult:  "MatrixMultiply",
	Div:      "Divide",
	TrueDiv:  "TrueDivide",
	FloorDiv: "FloorDivide",
	Mod:      "Mod",
	Pow:      "Power",
	LShift:   "LeftShift",
	RShift:   "RightShift",
	BitOr:    "BitwiseOr",
	BitXor:   "Xor",
	BitAnd:   "BitwiseAnd",
	Eq:       "Equal",
	NotEq:    "NotEqual",
	NotEqAlt: "NotEquals",
	Lt:       "LessThan",
	LtE:      "LessThanOrEqual",
	Gt:       "GreaterThan",
	GtE:      "GreaterThanOrEqual",
	Is:       "Is",
	IsNot:    "IsNot",
	In:       "In",
	NotIn:    "NotIn",
	And:      "And",
	Or:       "Or",
	Not:      "Not",
	USub:     "Negate",
	UAdd:     "Pos",
	Invert:   "Invert",
}

// Symbol returns the Python spelling of the operator.
func (o Operator) Symbol() string {
	if o < 0 || int(o) >= len(operatorText) {
		return "?"
	}
	return operatorText[o]
}

// String returns the operator's descriptive name.
func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorNames) {
		return "Unknown"
	}
	return operatorNames[o]
}

// IsComparison reports whether o is a comparison operator.
func (o Operator) IsComparison() bool {
	return o >= Eq && o <= NotIn
}
