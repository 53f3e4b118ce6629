package jsgen

import (
	"fmt"
	"strings"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

// validateAssign reports tuple shape problems before anything is rendered.
// List targets unpack the same way as tuples and get the same checks.
func (g *generator) validateAssign(a *pyast.Assign) {
	value := unparen(a.Value)
	_, constRight := value.(*pyast.Constant)
	rightElts, seqRight := sequenceElts(value)

	for _, t := range a.Targets {
		elts, ok := sequenceElts(t)
		if !ok {
			continue
		}
		if constRight {
			g.error(diag.TupleAssignment, a, "Cannot assign CONSTANT to TUPLE")
		}
		if seqRight && len(elts) != len(rightElts) {
			g.error(diag.TupleCountDiffers, a, "Tuple item count on LEFT and RIGHT side differs")
		}

		seen := make(map[string]bool, len(elts))
		for _, elt := range elts {
			n, ok := elt.(*pyast.Name)
			if !ok {
				continue
			}
			if seen[n.Id] {
				g.error(diag.TokenAlreadyDeclared, a, "Tuple definition already declares item with name %s", n.Id)
			}
			seen[n.Id] = true
		}
	}
}

func unparen(x pyast.Expr) pyast.Expr {
	for {
		p, ok := x.(*pyast.Paren)
		if !ok {
			return x
		}
		x = p.Value
	}
}

// sequenceElts returns the elements of a tuple or list display.
func sequenceElts(x pyast.Expr) ([]pyast.Expr, bool) {
	switch x := x.(type) {
	case *pyast.Tuple:
		return x.Elts, true
	case *pyast.List:
		return x.Elts, true
	}
	return nil, false
}

// assign lowers `t1 = t2 = ... = value`. Each simple target becomes the value
// of the next one, so the right side is evaluated once.
func (g *generator) assign(a *pyast.Assign, e env) string {
	g.validateAssign(a)

	value := g.expr(a.Value, e)
	if value == "" {
		return ""
	}

	ind := g.indent(e.depth)
	lines := make([]string, 0, len(a.Targets))
	for _, t := range a.Targets {
		switch t := t.(type) {
		case *pyast.Name:
			g.checkName(t, t.Id)
			lines = append(lines, ind+g.bind(t.Id, value))
			value = t.Id
		case *pyast.Attribute, *pyast.Subscript:
			text := g.target(t, e)
			lines = append(lines, fmt.Sprintf("%s%s = %s;", ind, text, value))
			value = text
		case *pyast.Tuple, *pyast.List:
			text := g.unpack(t, value, e)
			if text == "" {
				return ""
			}
			lines = append(lines, text)
		default:
			g.unsupported(t, "Assignment target")
			return ""
		}
	}
	return strings.Join(lines, "\n")
}

// bind renders `name = value;`, declaring name with var the first time it is
// seen in the current scope.
func (g *generator) bind(name, value string) string {
	if g.scopes.IsDefined(name, false) {
		return fmt.Sprintf("%s = %s;", name, value)
	}
	g.scopes.Define(name)
	return fmt.Sprintf("var %s = %s;", name, value)
}

// unpack lowers a tuple target. The first name temporarily holds the whole
// sequence, the others read their element from it, and finally the first
// name takes element 0.
func (g *generator) unpack(target pyast.Expr, value string, e env) string {
	elts, _ := sequenceElts(target)
	if len(elts) == 0 {
		g.unsupported(target, "Empty tuple target")
		return ""
	}

	first, ok := elts[0].(*pyast.Name)
	if !ok {
		g.unsupported(elts[0], "Tuple target element")
		return ""
	}
	g.checkName(first, first.Id)

	ind := g.indent(e.depth)
	lines := make([]string, 0, len(elts)+1)
	lines = append(lines, ind+g.bind(first.Id, value))
	for i, elt := range elts[1:] {
		item := fmt.Sprintf("%s[%d]", first.Id, i+1)
		switch elt := elt.(type) {
		case *pyast.Name:
			g.checkName(elt, elt.Id)
			lines = append(lines, ind+g.bind(elt.Id, item))
		case *pyast.Attribute, *pyast.Subscript:
			lines = append(lines, fmt.Sprintf("%s%s = %s;", ind, g.target(elt, e), item))
		default:
			g.unsupported(elt, "Tuple target element")
			return ""
		}
	}
	lines = append(lines, fmt.Sprintf("%s%s = %s[0];", ind, first.Id, first.Id))
	return strings.Join(lines, "\n")
}
