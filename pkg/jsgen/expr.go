package jsgen

import (
	"fmt"
	"strings"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/jsruntime"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

// expr renders an expression. An empty result means the expression could not
// be translated and a diagnostic has been recorded.
func (g *generator) expr(x pyast.Expr, e env) string {
	switch x := x.(type) {
	case nil:
		return ""
	case *pyast.Name:
		g.checkName(x, x.Id)
		return x.Id
	case *pyast.Constant:
		return g.constant(x)
	case *pyast.BinOp:
		return g.binOp(x, e)
	case *pyast.UnaryOp:
		return g.unaryOp(x, e)
	case *pyast.BoolOp:
		return g.boolOp(x, e)
	case *pyast.IfExp:
		return fmt.Sprintf("%s ? %s : %s",
			g.operand(x.Test, precOr, e),
			g.operand(x.Body, precConditional, e),
			g.operand(x.Orelse, precConditional, e))
	case *pyast.Call:
		return g.call(x, e)
	case *pyast.Attribute:
		return g.operand(x.Value, precPrimary, e) + "." + x.Attr
	case *pyast.Subscript:
		return g.subscript(x, e)
	case *pyast.Slice:
		return g.slice(x, e)
	case *pyast.List:
		return "[" + strings.Join(g.exprList(x.Elts, e), ", ") + "]"
	case *pyast.Tuple:
		return "[" + strings.Join(g.exprList(x.Elts, e), ", ") + "]"
	case *pyast.Dict:
		return g.dict(x, e)
	case *pyast.ListComp:
		return g.comprehension(x.Generators, x.Elt, e)
	case *pyast.Lambda:
		return g.lambda(x, e)
	case *pyast.Paren:
		inner := g.expr(x.Value, e)
		if inner == "" {
			return ""
		}
		return "(" + inner + ")"
	case *pyast.Yield:
		g.fatal(diag.UnsupportedStatement, x, "YIELD statement is not supported.")
		return ""
	case *pyast.GeneratorExp:
		g.unsupported(x, "Generator expression")
		return ""
	case *pyast.Unsupported:
		g.unsupported(x, x.Kind)
		return ""
	default:
		g.fatal(diag.UnsupportedStatement, x, "Expression %T is not supported.", x)
		return ""
	}
}

func (g *generator) exprList(list []pyast.Expr, e env) []string {
	out := make([]string, len(list))
	for i, x := range list {
		out[i] = g.expr(x, e)
	}
	return out
}

// target renders an expression on the left side of an assignment.
func (g *generator) target(x pyast.Expr, e env) string {
	return g.expr(x, e)
}

func (g *generator) call(c *pyast.Call, e env) string {
	var callee string
	if n, ok := c.Func.(*pyast.Name); ok {
		if n.Id == "print" {
			return g.printCall(c.Args, e)
		}
		if renamed, ok := jsruntime.RenameBuiltin(n.Id); ok {
			callee = renamed
		}
	}
	if callee == "" {
		callee = g.operand(c.Func, precPrimary, e)
	}
	return callee + "(" + strings.Join(g.args(c.Args, e), ", ") + ")"
}

// args renders positional call arguments; named and star arguments are
// rejected at their own span.
func (g *generator) args(args []pyast.Arg, e env) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a.Keyword != "" || a.Star != "" {
			g.fatal(diag.NamedParameter, a, "Named parameters are not supported.")
			continue
		}
		out = append(out, g.expr(a.Value, e))
	}
	return out
}

func (g *generator) printCall(args []pyast.Arg, e env) string {
	return g.names.Print + "([" + strings.Join(g.args(args, e), ", ") + "])"
}

func (g *generator) subscript(s *pyast.Subscript, e env) string {
	target := g.operand(s.Value, precPrimary, e)

	sl, ok := s.Index.(*pyast.Slice)
	if !ok {
		return target + "[" + g.expr(s.Index, e) + "]"
	}

	start, stop := "null", "null"
	if sl.Lower != nil {
		start = g.expr(sl.Lower, e)
	}
	if sl.Upper != nil {
		stop = g.expr(sl.Upper, e)
	}
	if sl.Step != nil {
		// Array.prototype.slice has no stride.
		g.expr(sl.Step, e)
	}
	return fmt.Sprintf("%s.slice(%s, %s)", target, stop, start)
}

// slice renders a slice outside of an index as its present parts.
func (g *generator) slice(s *pyast.Slice, e env) string {
	var parts []string
	for _, x := range []pyast.Expr{s.Lower, s.Step, s.Upper} {
		if x != nil {
			parts = append(parts, g.expr(x, e))
		}
	}
	return strings.Join(parts, ": ")
}

func (g *generator) dict(d *pyast.Dict, e env) string {
	if len(d.Keys) == 0 {
		return "{}"
	}
	inner := e.nested()
	items := make([]string, len(d.Keys))
	for i := range d.Keys {
		var value string
		if i < len(d.Values) {
			value = g.expr(d.Values[i], inner)
		}
		items[i] = g.indent(inner.depth) + g.dictKey(d.Keys[i], inner) + ": " + value
	}
	return "{\n" + strings.Join(items, ",\n") + "\n" + g.indent(e.depth) + "}"
}

// dictKey renders names and constants as plain property names. Any other key
// becomes a computed property.
func (g *generator) dictKey(k pyast.Expr, e env) string {
	switch k.(type) {
	case *pyast.Name, *pyast.Constant:
		return g.expr(k, e)
	}
	key := g.expr(k, e)
	if key == "" {
		return ""
	}
	return "[" + key + "]"
}

// comprehension renders list comprehension clauses as nested calls of the
// runtime helper. Each helper call flattens the arrays its callback returns.
func (g *generator) comprehension(gens []pyast.Comprehension, elt pyast.Expr, e env) string {
	if len(gens) == 0 {
		return "[" + g.expr(elt, e) + "]"
	}

	c := gens[0]
	iter := g.expr(c.Iter, e)
	param, binds := g.comprehensionTarget(c.Target)

	cont := g.comprehension(gens[1:], elt, e)
	for i := len(c.Ifs) - 1; i >= 0; i-- {
		cont = fmt.Sprintf("%s ? %s : []", g.operand(c.Ifs[i], precOr, e), cont)
	}

	return fmt.Sprintf("%s(%s, function(%s) { %sreturn %s; })",
		g.names.ComprehensionFor, iter, param, binds, cont)
}

const comprehensionItem = "_item_"

func (g *generator) comprehensionTarget(target pyast.Expr) (string, string) {
	switch t := target.(type) {
	case *pyast.Name:
		g.checkName(t, t.Id)
		return t.Id, ""
	case *pyast.Tuple:
		var sb strings.Builder
		for i, elt := range t.Elts {
			n, ok := elt.(*pyast.Name)
			if !ok {
				g.unsupported(elt, "Nested comprehension target")
				continue
			}
			g.checkName(n, n.Id)
			fmt.Fprintf(&sb, "var %s = %s[%d]; ", n.Id, comprehensionItem, i)
		}
		return comprehensionItem, sb.String()
	default:
		g.unsupported(target, "Comprehension target")
		return comprehensionItem, ""
	}
}
