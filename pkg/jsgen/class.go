package jsgen

import (
	"fmt"
	"strings"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

const (
	constructorName = "__init__"
	toStringName    = "__str__"
	classSuffix     = "Class"
)

// classDef lowers a class to a factory function, a constructor function and
// prototype members:
//
//	Point = function(x, y) { return new PointClass(x, y); };
//	PointClass = function(x, y) { ... };
//	PointClass.prototype.toString = function() { ... };
func (g *generator) classDef(c *pyast.ClassDef, e env) string {
	if len(c.Decorators) > 0 {
		g.unsupported(c.Decorators[0], "Decorator")
		return ""
	}
	g.checkName(c, c.Name)
	g.scopes.Define(c.Name)

	for _, base := range c.Bases {
		if n, ok := base.(*pyast.Name); ok && n.Id == "object" {
			continue
		}
		g.warn(diag.UnsupportedStatement, base, "Class inheritance is not supported; base %s ignored.", baseName(base))
	}

	g.scopes.EnterBlock()
	defer g.scopes.ExitBlock()

	body := env{kind: kindClassBody, depth: e.depth, className: c.Name}
	factory := c.Name + classSuffix
	ind := g.indent(e.depth)

	var (
		ctor     *pyast.FunctionDef
		ctorText string
		toString string
		attrs    []string
		methods  []string
	)
	for _, s := range c.Body {
		switch s := s.(type) {
		case *pyast.FunctionDef:
			text := g.functionDef(s, body)
			switch s.Name {
			case constructorName:
				ctor, ctorText = s, text
			case toStringName:
				toString = text
			default:
				if text != "" {
					methods = append(methods, fmt.Sprintf("%s%s.prototype.%s = %s;", ind, factory, s.Name, text))
				}
			}
		case *pyast.Assign:
			attrs = append(attrs, g.classAttribute(s, factory, body)...)
		case *pyast.Pass:
		case *pyast.ExprStmt:
			if !isDocString(s.Value) {
				g.unsupported(s, "Expression in class body")
			}
		default:
			g.unsupported(s, "Statement in class body")
		}
	}

	var args []string
	if ctor != nil && len(ctor.Params) > 0 {
		for _, p := range ctor.Params[1:] {
			if p.Star == "" {
				args = append(args, p.Name)
			}
		}
	}
	argList := strings.Join(args, ", ")

	lines := []string{
		fmt.Sprintf("%s%s = function(%s) { return new %s(%s); };", ind, c.Name, argList, factory, argList),
	}
	if ctorText != "" {
		lines = append(lines, fmt.Sprintf("%s%s = %s;", ind, factory, ctorText))
	} else {
		lines = append(lines, fmt.Sprintf("%s%s = function() { };", ind, factory))
	}
	lines = append(lines, attrs...)
	if toString != "" {
		lines = append(lines, fmt.Sprintf("%s%s.prototype.toString = %s;", ind, factory, toString))
	}
	lines = append(lines, methods...)
	return strings.Join(lines, "\n")
}

// classAttribute lowers `name = value` in a class body to prototype members.
// Class body assignments never declare variables.
func (g *generator) classAttribute(a *pyast.Assign, factory string, e env) []string {
	value := g.expr(a.Value, e)
	if value == "" {
		return nil
	}

	ind := g.indent(e.depth)
	var lines []string
	for _, t := range a.Targets {
		n, ok := t.(*pyast.Name)
		if !ok {
			g.unsupported(t, "Class attribute target")
			return nil
		}
		g.checkName(n, n.Id)
		member := factory + ".prototype." + n.Id
		lines = append(lines, fmt.Sprintf("%s%s = %s;", ind, member, value))
		value = member
	}
	return lines
}

func baseName(x pyast.Expr) string {
	switch x := x.(type) {
	case *pyast.Name:
		return x.Id
	case *pyast.Attribute:
		return baseName(x.Value) + "." + x.Attr
	default:
		return fmt.Sprintf("%T", x)
	}
}
