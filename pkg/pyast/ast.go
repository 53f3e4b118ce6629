// Package pyast defines the Python syntax tree consumed by the translator.
//
// Design: Plain structs behind three marker interfaces. Every node carries its
// source span. The tree is built once by a frontend and never mutated.
package pyast

import "fmt"

// Position is a 1-based line and column in the source text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is the source range covered by a node.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Extent returns the span itself, so any struct embedding Span has a location.
func (s Span) Extent() Span { return s }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Node is any syntax tree element with a location.
type Node interface {
	Extent() Span
}

type Stmt interface {
	Node
	stmt()
}

type Expr interface {
	Node
	expr()
}

// Module is the root of a parsed source file.
type Module struct {
	Span
	Body []Stmt
}

// Statements

type FunctionDef struct {
	Span
	Name       string
	Params     []Param
	Body       []Stmt
	Decorators []Expr
}

// Param is one formal parameter. Default is nil for required parameters.
type Param struct {
	Span
	Name    string
	Default Expr
	// Star is "*" or "**" for variadic parameters.
	Star string
}

type ClassDef struct {
	Span
	Name       string
	Bases      []Expr
	Body       []Stmt
	Decorators []Expr
}

type Return struct {
	Span
	Value Expr
}

type Delete struct {
	Span
	Targets []Expr
}

// Assign is `t1 = t2 = value`; Targets are in source order.
type Assign struct {
	Span
	Targets []Expr
	Value   Expr
}

type AugAssign struct {
	Span
	Target Expr
	Op     Operator
	Value  Expr
}

type For struct {
	Span
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

type While struct {
	Span
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// If holds elif chains as a single nested If in Orelse.
type If struct {
	Span
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type With struct {
	Span
	Items []Expr
	Body  []Stmt
}

type Raise struct {
	Span
	Exc   Expr
	Cause Expr
}

type Try struct {
	Span
	Body     []Stmt
	Handlers []ExceptHandler
	Orelse   []Stmt
	Finally  []Stmt
}

// ExceptHandler is one except clause. Type and Name may be empty.
type ExceptHandler struct {
	Span
	Type Expr
	Name string
	Body []Stmt
}

type Assert struct {
	Span
	Test Expr
	Msg  Expr
}

type Import struct {
	Span
	Names []string
}

type ImportFrom struct {
	Span
	Module string
	Names  []string
}

type Global struct {
	Span
	Names []string
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Span
	Value Expr
}

type Pass struct{ Span }

type Break struct{ Span }

type Continue struct{ Span }

type Exec struct {
	Span
	Body Expr
}

// Print covers both the print statement and a statement-level print call.
type Print struct {
	Span
	Values []Expr
}

func (*FunctionDef) stmt() {}
func (*ClassDef) stmt()    {}
func (*Return) stmt()      {}
func (*Delete) stmt()      {}
func (*Assign) stmt()      {}
func (*AugAssign) stmt()   {}
func (*For) stmt()         {}
func (*While) stmt()       {}
func (*If) stmt()          {}
func (*With) stmt()        {}
func (*Raise) stmt()       {}
func (*Try) stmt()         {}
func (*Assert) stmt()      {}
func (*Import) stmt()      {}
func (*ImportFrom) stmt()  {}
func (*Global) stmt()      {}
func (*ExprStmt) stmt()    {}
func (*Pass) stmt()        {}
func (*Break) stmt()       {}
func (*Continue) stmt()    {}
func (*Exec) stmt()        {}
func (*Print) stmt()       {}

// Expressions

type Name struct {
	Span
	Id string
}

// Constant holds a literal value: nil, bool, int64, float64, *big.Int,
// string, Char, time.Time, uuid.UUID or a fmt.Stringer enum.
type Constant struct {
	Span
	Value any
}

// Char is a single-character literal.
type Char rune

type BinOp struct {
	Span
	Left  Expr
	Op    Operator
	Right Expr
}

type UnaryOp struct {
	Span
	Op      Operator
	Operand Expr
}

// BoolOp is a short-circuit chain; Op is And or Or.
type BoolOp struct {
	Span
	Op     Operator
	Values []Expr
}

type IfExp struct {
	Span
	Test   Expr
	Body   Expr
	Orelse Expr
}

type Call struct {
	Span
	Func Expr
	Args []Arg
}

// Arg is a call argument. Keyword is set for name=value arguments and Star
// for *args / **kwargs.
type Arg struct {
	Span
	Keyword string
	Star    string
	Value   Expr
}

type Attribute struct {
	Span
	Value Expr
	Attr  string
}

type Subscript struct {
	Span
	Value Expr
	Index Expr
}

type Slice struct {
	Span
	Lower Expr
	Upper Expr
	Step  Expr
}

type List struct {
	Span
	Elts []Expr
}

type Tuple struct {
	Span
	Elts []Expr
}

type Dict struct {
	Span
	Keys   []Expr
	Values []Expr
}

type ListComp struct {
	Span
	Elt        Expr
	Generators []Comprehension
}

// Comprehension is one `for target in iter if ...` clause.
type Comprehension struct {
	Span
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

type Lambda struct {
	Span
	Params []Param
	Body   Expr
}

// Paren is an explicitly parenthesized expression.
type Paren struct {
	Span
	Value Expr
}

type Yield struct {
	Span
	Value Expr
}

type GeneratorExp struct {
	Span
	Elt        Expr
	Generators []Comprehension
}

// Unsupported stands in for syntax the tree has no node for.
type Unsupported struct {
	Span
	Kind string
}

func (*Name) expr()         {}
func (*Constant) expr()     {}
func (*BinOp) expr()        {}
func (*UnaryOp) expr()      {}
func (*BoolOp) expr()       {}
func (*IfExp) expr()        {}
func (*Call) expr()         {}
func (*Attribute) expr()    {}
func (*Subscript) expr()    {}
func (*Slice) expr()        {}
func (*List) expr()         {}
func (*Tuple) expr()        {}
func (*Dict) expr()         {}
func (*ListComp) expr()     {}
func (*Lambda) expr()       {}
func (*Paren) expr()        {}
func (*Yield) expr()        {}
func (*GeneratorExp) expr() {}
func (*Unsupported) expr()  {}

// Unsupported is also usable where a statement is expected.
func (*Unsupported) stmt() {}
