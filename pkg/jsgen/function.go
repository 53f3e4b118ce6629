package jsgen

import (
	"fmt"
	"strings"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

// validateParams checks that required parameters precede defaulted ones.
func (g *generator) validateParams(params []pyast.Param) {
	optional := false
	for _, p := range params {
		if p.Star != "" {
			g.unsupported(p, "Variadic parameter "+p.Star+p.Name)
			continue
		}
		if optional && p.Default == nil {
			g.error(diag.InvalidParamOrder, p, "All required parameters must be before all optional parameters")
		}
		optional = optional || p.Default != nil
	}
}

// functionDef renders a def statement. Inside a class body the result is a
// bare function expression for the class lowering to attach.
func (g *generator) functionDef(fn *pyast.FunctionDef, e env) string {
	if len(fn.Decorators) > 0 {
		g.unsupported(fn.Decorators[0], "Decorator")
		return ""
	}

	g.checkName(fn, fn.Name)
	g.validateParams(fn.Params)

	method := e.kind == kindClassBody
	if method && len(fn.Params) == 0 {
		g.error(diag.InvalidClassMethod, fn, "Class method must have at least one parameter.")
	}
	if !method {
		g.scopes.Define(fn.Name)
	}

	g.scopes.EnterFunction()
	defer g.scopes.ExitFunction()

	params := fn.Params
	var lines []string
	inner := env{kind: kindFunctionBody, depth: e.depth + 1, className: e.className}

	if method && len(params) > 0 {
		self := params[0]
		g.checkName(self, self.Name)
		g.scopes.Define(self.Name)
		lines = append(lines, g.indent(inner.depth)+fmt.Sprintf("var %s = this;", self.Name), "")
		params = params[1:]
	}

	names := g.declareParams(params)
	lines = append(lines, g.defaultGuards(params, inner.depth)...)
	if body := g.statements(fn.Body, inner); body != "" {
		lines = append(lines, body)
	}
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	head := "function " + fn.Name + "(" + strings.Join(names, ", ") + ")"
	if method {
		head = "function(" + strings.Join(names, ", ") + ")"
		return g.braced(head, strings.Join(lines, "\n"), e.depth)
	}
	return g.indent(e.depth) + g.braced(head, strings.Join(lines, "\n"), e.depth)
}

// lambda renders an anonymous function returning its body expression.
func (g *generator) lambda(l *pyast.Lambda, e env) string {
	g.validateParams(l.Params)

	g.scopes.EnterFunction()
	defer g.scopes.ExitFunction()

	inner := env{kind: kindLambda, depth: e.depth + 1, className: e.className}
	names := g.declareParams(l.Params)
	lines := g.defaultGuards(l.Params, inner.depth)

	body := g.expr(l.Body, inner)
	if body == "" {
		return ""
	}
	lines = append(lines, g.indent(inner.depth)+"return "+body+";")

	return g.braced("function("+strings.Join(names, ", ")+")", strings.Join(lines, "\n"), e.depth)
}

// declareParams defines parameters in the function's outermost block level
// and returns their JavaScript names.
func (g *generator) declareParams(params []pyast.Param) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		if p.Star != "" {
			continue
		}
		g.checkName(p, p.Name)
		g.scopes.Define(p.Name)
		names = append(names, p.Name)
	}
	return names
}

// defaultGuards assigns default values to parameters the caller omitted.
// Defaults are rendered by an isolated child generator so they neither see
// nor change this function's declarations or indentation.
func (g *generator) defaultGuards(params []pyast.Param, depth int) []string {
	var lines []string
	for _, p := range params {
		if p.Default == nil || p.Star != "" {
			continue
		}
		value := g.child().defaultValue(p.Default)
		lines = append(lines,
			fmt.Sprintf("%sif (typeof(%s) == 'undefined') {", g.indent(depth), p.Name),
			fmt.Sprintf("%s%s = %s;", g.indent(depth+1), p.Name, value),
			g.indent(depth)+"}",
		)
	}
	return lines
}

func (g *generator) defaultValue(x pyast.Expr) string {
	g.scopes.EnterFunction()
	defer g.scopes.ExitFunction()
	return g.expr(x, env{kind: kindFunctionBody})
}
