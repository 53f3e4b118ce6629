package jsgen

import (
	"fmt"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

// JavaScript operator precedence levels used for parenthesization.
const (
	precLambda = iota + 2
	precConditional
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary   = precMultiplicative + 2
	precPrimary = 20
)

// binaryOps maps Python operators that have a direct JavaScript spelling.
var binaryOps = map[pyast.Operator]struct {
	text string
	prec int
}{
	pyast.Add:    {"+", precAdditive},
	pyast.Sub:    {"-", precAdditive},
	pyast.Div:    {"/", precMultiplicative},
	pyast.Mod:    {"%", precMultiplicative},
	pyast.BitAnd: {"&", precBitAnd},
	pyast.BitOr:  {"|", precBitOr},
	pyast.BitXor: {"^", precBitXor},
	pyast.LShift: {"<<", precShift},
	pyast.RShift: {">>", precShift},
	pyast.Lt:     {"<", precRelational},
	pyast.Gt:     {">", precRelational},
	pyast.LtE:    {"<=", precRelational},
	pyast.GtE:    {">=", precRelational},
	pyast.Eq:     {"===", precEquality},
	pyast.NotEq:  {"!=", precEquality},
}

// augmentedOps maps operators with an in-place JavaScript form.
var augmentedOps = map[pyast.Operator]string{
	pyast.Add:    "+=",
	pyast.BitAnd: "&=",
	pyast.BitOr:  "|=",
	pyast.Div:    "/=",
	pyast.BitXor: "^=",
	pyast.LShift: "<<=",
	pyast.Mod:    "%=",
	pyast.RShift: ">>=",
	pyast.Sub:    "-=",
}

// precedence returns the JavaScript binding strength of x's rendering.
func precedence(x pyast.Expr) int {
	switch x := x.(type) {
	case *pyast.BinOp:
		if op, ok := binaryOps[x.Op]; ok {
			return op.prec
		}
		if x.Op == pyast.NotIn {
			return precUnary
		}
		return precPrimary
	case *pyast.UnaryOp:
		return precUnary
	case *pyast.BoolOp:
		if x.Op == pyast.Or {
			return precOr
		}
		return precAnd
	case *pyast.IfExp:
		return precConditional
	case *pyast.Lambda:
		return precLambda
	case *pyast.Constant:
		if isNegativeNumber(x.Value) {
			return precUnary
		}
		return precPrimary
	default:
		return precPrimary
	}
}

func isNegativeNumber(v any) bool {
	switch n := v.(type) {
	case int:
		return n < 0
	case int64:
		return n < 0
	case float64:
		return n < 0
	}
	return false
}

// operand renders x and parenthesizes it when it binds looser than min.
func (g *generator) operand(x pyast.Expr, min int, e env) string {
	text := g.expr(x, e)
	if text != "" && precedence(x) < min {
		return "(" + text + ")"
	}
	return text
}

func (g *generator) binOp(b *pyast.BinOp, e env) string {
	if op, ok := binaryOps[b.Op]; ok {
		left := g.operand(b.Left, op.prec, e)
		right := g.operand(b.Right, op.prec+1, e)
		return left + " " + op.text + " " + right
	}

	switch b.Op {
	case pyast.FloorDiv:
		left := g.operand(b.Left, precMultiplicative, e)
		right := g.operand(b.Right, precMultiplicative+1, e)
		return fmt.Sprintf("Math.floor(%s / %s)", left, right)
	case pyast.Pow:
		return fmt.Sprintf("Math.pow(%s, %s)", g.expr(b.Left, e), g.expr(b.Right, e))
	case pyast.Mul:
		return fmt.Sprintf("%s(%s, %s)", g.names.Mul, g.expr(b.Left, e), g.expr(b.Right, e))
	case pyast.In:
		return fmt.Sprintf("%s(%s, %s)", g.names.IsIn, g.expr(b.Left, e), g.expr(b.Right, e))
	case pyast.NotIn:
		return fmt.Sprintf("!%s(%s, %s)", g.names.IsIn, g.expr(b.Left, e), g.expr(b.Right, e))
	}

	g.unsupportedOperator(b, b.Op)
	return ""
}

func (g *generator) unaryOp(u *pyast.UnaryOp, e env) string {
	switch u.Op {
	case pyast.USub:
		text := g.operand(u.Operand, precUnary, e)
		if len(text) > 0 && text[0] == '-' {
			return "-(" + text + ")"
		}
		return "-" + text
	case pyast.Not:
		return "!" + g.operand(u.Operand, precUnary, e)
	}
	g.unsupportedOperator(u, u.Op)
	return ""
}

func (g *generator) boolOp(b *pyast.BoolOp, e env) string {
	text, prec := "&&", precAnd
	switch b.Op {
	case pyast.And:
	case pyast.Or:
		text, prec = "||", precOr
	default:
		g.unsupportedOperator(b, b.Op)
		return ""
	}

	out := ""
	for i, v := range b.Values {
		min := prec
		if i > 0 {
			min = prec + 1
			out += " " + text + " "
		}
		out += g.operand(v, min, e)
	}
	return out
}

func (g *generator) unsupportedOperator(n pyast.Node, op pyast.Operator) {
	g.fatal(diag.UnsupportedOperator, n, "Operator %s is not supported.", op)
}

// augAssign renders `t op= v`, expanding operators without an in-place form.
func (g *generator) augAssign(a *pyast.AugAssign, e env) string {
	target := g.target(a.Target, e)
	if op, ok := augmentedOps[a.Op]; ok {
		return fmt.Sprintf("%s %s %s", target, op, g.expr(a.Value, e))
	}

	switch a.Op {
	case pyast.FloorDiv:
		value := g.operand(a.Value, precMultiplicative+1, e)
		return fmt.Sprintf("%s = Math.floor(%s / %s)", target, target, value)
	case pyast.Pow:
		return fmt.Sprintf("%s = Math.pow(%s, %s)", target, target, g.expr(a.Value, e))
	case pyast.Mul:
		return fmt.Sprintf("%s = %s(%s, %s)", target, g.names.Mul, target, g.expr(a.Value, e))
	}

	g.unsupportedOperator(a, a.Op)
	return ""
}
