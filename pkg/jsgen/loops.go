package jsgen

import (
	"fmt"
	"strings"

	"github.com/valdisz/PyToJs/pkg/pyast"
)

// loopPrefix picks the helper name prefix for a loop over name. A loop nested
// in another loop over the same name gets a numeric suffix.
func loopPrefix(name string, active []string) string {
	prefix := name
	for n := 2; contains(active, prefix); n++ {
		prefix = fmt.Sprintf("%s%d", name, n)
	}
	return prefix
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// forLoop lowers `for x in seq` to an indexed loop over an array snapshot.
// An else clause runs at the end of the final iteration.
func (g *generator) forLoop(s *pyast.For, e env) string {
	iter := g.expr(s.Iter, e)
	if iter == "" {
		return ""
	}

	name := "item"
	switch t := s.Target.(type) {
	case *pyast.Name:
		g.checkName(t, t.Id)
		name = t.Id
	case *pyast.Tuple:
		if len(t.Elts) > 0 {
			if n, ok := t.Elts[0].(*pyast.Name); ok {
				name = n.Id
			}
		}
	default:
		g.unsupported(s.Target, "Loop target")
		return ""
	}

	prefix := loopPrefix(name, e.loops)
	list := "_" + prefix + "_list_"
	counter := "_" + prefix + "_cnt_"
	inner := e.withLoop(prefix).nested()
	ind := g.indent(e.depth)

	g.scopes.EnterBlock()
	defer g.scopes.ExitBlock()

	var bind string
	element := fmt.Sprintf("%s[%s]", list, counter)
	if n, ok := s.Target.(*pyast.Name); ok {
		bind = g.indent(inner.depth) + g.bind(n.Id, element)
	} else {
		bind = g.unpack(s.Target, element, inner)
		if bind == "" {
			return ""
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%svar %s = %s(%s);\n", ind, list, g.names.ToArray, iter)
	fmt.Fprintf(&sb, "%sfor (var %s = 0; %s < %s.length; %s++) {\n", ind, counter, counter, list, counter)
	sb.WriteString(bind)
	sb.WriteString("\n\n")

	if body := g.statements(s.Body, inner); body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	if len(s.Orelse) > 0 {
		test := fmt.Sprintf("if (%s == %s.length - 1)", counter, list)
		sb.WriteString(g.indent(inner.depth))
		sb.WriteString(g.braced(test, g.suite(s.Orelse, inner), inner.depth))
		sb.WriteString("\n")
	}
	sb.WriteString(ind + "}")
	return sb.String()
}

// while lowers a while loop. An else clause runs at the end of the iteration
// after which the condition no longer holds.
func (g *generator) while(s *pyast.While, e env) string {
	test := g.expr(s.Test, e)
	if test == "" {
		return ""
	}

	g.scopes.EnterBlock()
	defer g.scopes.ExitBlock()

	inner := e.nested()
	ind := g.indent(e.depth)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%swhile (%s) {\n", ind, test)
	body := g.statements(s.Body, inner)
	if body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	if len(s.Orelse) > 0 {
		sb.WriteString(g.indent(inner.depth))
		sb.WriteString(g.braced("if (!("+test+"))", g.suite(s.Orelse, inner), inner.depth))
		sb.WriteString("\n")
	}
	if body == "" && len(s.Orelse) == 0 {
		return ind + "while (" + test + ") { }"
	}
	sb.WriteString(ind + "}")
	return sb.String()
}
