package jsgen

import (
	"fmt"
	"strings"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

// stmt renders one statement at e.depth. Block constructs return their own
// indentation and terminators; simple statements go through g.simple.
func (g *generator) stmt(s pyast.Stmt, e env) string {
	switch s := s.(type) {
	case *pyast.Pass, *pyast.Import, *pyast.ImportFrom:
		return ""
	case *pyast.Global:
		g.global(s)
		return ""
	case *pyast.ExprStmt:
		if isDocString(s.Value) {
			return ""
		}
		return g.simple(statementExpr(g.expr(s.Value, e)), e)
	case *pyast.Assign:
		return g.assign(s, e)
	case *pyast.AugAssign:
		return g.simple(g.augAssign(s, e), e)
	case *pyast.Return:
		if s.Value == nil {
			return g.simple("return", e)
		}
		value := g.expr(s.Value, e)
		if value == "" {
			return ""
		}
		return g.simple("return "+value, e)
	case *pyast.Break:
		return g.simple("break", e)
	case *pyast.Continue:
		return g.simple("continue", e)
	case *pyast.Delete:
		return g.delete(s, e)
	case *pyast.Print:
		return g.simple(g.names.Print+"(["+strings.Join(g.exprList(s.Values, e), ", ")+"])", e)
	case *pyast.If:
		return g.indent(e.depth) + g.ifChain(s, e)
	case *pyast.While:
		return g.while(s, e)
	case *pyast.For:
		return g.forLoop(s, e)
	case *pyast.FunctionDef:
		return g.functionDef(s, e)
	case *pyast.ClassDef:
		return g.classDef(s, e)
	case *pyast.Raise:
		return g.raise(s, e)
	case *pyast.Try:
		return g.try(s, e)
	case *pyast.Assert:
		return g.assert(s, e)
	case *pyast.With:
		g.fatal(diag.UnsupportedStatement, s, "WITH statement is not supported.")
		return ""
	case *pyast.Exec:
		g.fatal(diag.UnsupportedStatement, s, "EXEC statement is not supported.")
		return ""
	case *pyast.Unsupported:
		g.unsupported(s, s.Kind)
		return ""
	default:
		g.fatal(diag.UnsupportedStatement, s, "Statement %T is not supported.", s)
		return ""
	}
}

// statementExpr parenthesizes an expression that JavaScript would otherwise
// read as a function declaration or a block.
func statementExpr(text string) string {
	if strings.HasPrefix(text, "function(") || strings.HasPrefix(text, "{") {
		return "(" + text + ")"
	}
	return text
}

func isDocString(x pyast.Expr) bool {
	c, ok := x.(*pyast.Constant)
	if !ok {
		return false
	}
	_, ok = c.Value.(string)
	return ok
}

// global marks names as declared so later assignments do not emit var.
func (g *generator) global(s *pyast.Global) {
	for _, name := range s.Names {
		if g.scopes.IsDefined(name, false) {
			g.warn(diag.ParamAsGlobalVariable, s,
				"Variable %q is already declared before or some value already is assigned to it.", name)
		}

		msg := fmt.Sprintf("Variable %q will point to GLOBAL variable. Incorrect usage of global variables my lead to hardly detectable bugs.", name)
		if !g.scopes.IsDefined(name, true) {
			msg += " No enclosing declaration was found."
		}
		g.warn(diag.GlobalVariable, s, "%s", msg)
		g.scopes.Define(name)
	}
}

func (g *generator) delete(s *pyast.Delete, e env) string {
	lines := make([]string, 0, len(s.Targets))
	for _, t := range s.Targets {
		if text := g.expr(t, e); text != "" {
			lines = append(lines, g.simple("delete "+text, e))
		}
	}
	return strings.Join(lines, "\n")
}

// ifChain renders an if statement without leading indentation so elif
// branches can follow `else` on the same line.
func (g *generator) ifChain(s *pyast.If, e env) string {
	out := g.braced("if ("+g.expr(s.Test, e)+")", g.suite(s.Body, e), e.depth)
	if len(s.Orelse) == 0 {
		return out
	}
	if elif, ok := s.Orelse[0].(*pyast.If); ok && len(s.Orelse) == 1 {
		return out + " else " + g.ifChain(elif, e)
	}
	return out + " " + g.braced("else", g.suite(s.Orelse, e), e.depth)
}

func (g *generator) raise(s *pyast.Raise, e env) string {
	if s.Exc == nil {
		if e.catchVar == "" {
			g.unsupported(s, "RAISE statement without exception outside of EXCEPT block")
			return ""
		}
		return g.simple("throw "+e.catchVar, e)
	}
	exc := g.expr(s.Exc, e)
	if exc == "" {
		return ""
	}
	return g.simple("throw "+exc, e)
}

const catchVar = "_ex_"

// try lowers try/except/else/finally. Handlers become an instanceof chain
// inside one catch block; unmatched exceptions are rethrown.
func (g *generator) try(s *pyast.Try, e env) string {
	ind := g.indent(e.depth)

	body := g.suite(append(append([]pyast.Stmt{}, s.Body...), s.Orelse...), e)
	out := ind + g.braced("try", body, e.depth)

	if len(s.Handlers) > 0 {
		out += " " + g.braced("catch ("+catchVar+")", g.handlers(s.Handlers, e.nested()), e.depth)
	}
	if len(s.Finally) > 0 || len(s.Handlers) == 0 {
		out += " " + g.braced("finally", g.suite(s.Finally, e), e.depth)
	}
	return out
}

func (g *generator) handlers(hs []pyast.ExceptHandler, e env) string {
	inner := e
	inner.catchVar = catchVar

	if hs[0].Type == nil {
		// A leading bare except catches everything: it is the whole catch body.
		outer := inner
		outer.depth--
		return g.handlerBody(hs[0], outer)
	}

	var chain []string
	rethrow := g.indent(e.depth+1) + "throw " + catchVar + ";"
	for _, h := range hs {
		if h.Type == nil {
			rethrow = g.handlerBody(h, inner)
			break
		}
		cond := g.exceptionTest(h.Type, inner)
		chain = append(chain, g.braced("if ("+cond+")", g.handlerBody(h, inner), e.depth))
	}
	return g.indent(e.depth) + strings.Join(chain, " else ") + " " + g.braced("else", rethrow, e.depth)
}

func (g *generator) handlerBody(h pyast.ExceptHandler, e env) string {
	g.scopes.EnterBlock()
	defer g.scopes.ExitBlock()

	inner := e.nested()
	var lines []string
	if h.Name != "" {
		g.checkName(h, h.Name)
		lines = append(lines, g.indent(inner.depth)+g.bind(h.Name, catchVar))
	}
	if body := g.statements(h.Body, inner); body != "" {
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}

func (g *generator) exceptionTest(t pyast.Expr, e env) string {
	types := []pyast.Expr{t}
	if tuple, ok := t.(*pyast.Tuple); ok {
		types = tuple.Elts
	}
	tests := make([]string, 0, len(types))
	for _, x := range types {
		tests = append(tests, catchVar+" instanceof "+g.operand(x, precPrimary, e))
	}
	return strings.Join(tests, " || ")
}

func (g *generator) assert(s *pyast.Assert, e env) string {
	test := g.expr(s.Test, e)
	if test == "" {
		return ""
	}
	msg := QuoteString("AssertionError")
	if s.Msg != nil {
		msg = g.expr(s.Msg, e)
	}
	throw := g.indent(e.depth+1) + "throw new Error(" + msg + ");"
	return g.indent(e.depth) + g.braced("if (!("+test+"))", throw, e.depth)
}
