// Package jsgen lowers a Python syntax tree to JavaScript source text.
//
// Design: One recursive pass. Each node returns its finished fragment to the
// caller, which combines child fragments into its own. Context that depends
// on ancestors (class body, lambda, active loops) travels down in env.
package jsgen

import (
	"strings"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/jsruntime"
	"github.com/valdisz/PyToJs/pkg/pyast"
	"github.com/valdisz/PyToJs/pkg/scope"
)

// DefaultIndentSize is the number of spaces per nesting level.
const DefaultIndentSize = 4

// Options tune the rendered output.
type Options struct {
	IndentSize int
	Runtime    jsruntime.Names
}

func DefaultOptions() Options {
	return Options{
		IndentSize: DefaultIndentSize,
		Runtime:    jsruntime.DefaultNames(),
	}
}

// Result is the outcome of one translation run. Output is empty when any
// Error or FatalError was recorded.
type Result struct {
	Output      string
	Diagnostics []diag.Diagnostic
	OK          bool
}

// Translate renders mod as JavaScript. Every call uses fresh scope and
// diagnostic state, so concurrent calls are independent.
func Translate(mod *pyast.Module, opts Options) *Result {
	g := newGenerator(opts, diag.NewCollector())
	output := g.module(mod)

	res := &Result{
		Diagnostics: g.diags.Diagnostics(),
		OK:          !g.diags.HasErrors(),
	}
	if res.OK {
		res.Output = output
	}
	return res
}

// kind is the syntactic container of the statements being rendered.
type kind int

const (
	kindModule kind = iota
	kindClassBody
	kindFunctionBody
	kindLambda
)

// env is the per-node rendering context passed down the recursion.
type env struct {
	kind      kind
	depth     int
	className string
	// catchVar names the exception variable of the innermost except clause.
	catchVar string
	// loops holds the helper prefixes of enclosing for loops.
	loops []string
}

func (e env) nested() env {
	e.depth++
	return e
}

func (e env) withLoop(prefix string) env {
	loops := make([]string, len(e.loops), len(e.loops)+1)
	copy(loops, e.loops)
	e.loops = append(loops, prefix)
	return e
}

type generator struct {
	unit   string
	names  jsruntime.Names
	diags  *diag.Collector
	scopes *scope.Tracker
}

func newGenerator(opts Options, diags *diag.Collector) *generator {
	size := opts.IndentSize
	if size <= 0 {
		size = DefaultIndentSize
	}
	return &generator{
		unit:   strings.Repeat(" ", size),
		names:  opts.Runtime.WithDefaults(),
		diags:  diags,
		scopes: scope.NewTracker(),
	}
}

// child returns a generator sharing the diagnostics sink but nothing else.
// Default parameter values are rendered through it.
func (g *generator) child() *generator {
	return &generator{
		unit:   g.unit,
		names:  g.names,
		diags:  g.diags,
		scopes: scope.NewTracker(),
	}
}

func (g *generator) indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(g.unit, depth)
}

func (g *generator) module(mod *pyast.Module) string {
	if mod == nil {
		return ""
	}
	g.scopes.EnterFunction()
	defer g.scopes.ExitFunction()

	body := g.statements(mod.Body, env{kind: kindModule})
	if body == "" {
		return ""
	}
	return body + "\n"
}

// statements renders a suite, one fragment per line, dropping empty ones.
func (g *generator) statements(stmts []pyast.Stmt, e env) string {
	lines := make([]string, 0, len(stmts))
	for _, s := range stmts {
		if frag := g.stmt(s, e); frag != "" {
			lines = append(lines, frag)
		}
	}
	return strings.Join(lines, "\n")
}

// suite renders stmts one level deeper inside a new block level.
func (g *generator) suite(stmts []pyast.Stmt, e env) string {
	g.scopes.EnterBlock()
	defer g.scopes.ExitBlock()
	return g.statements(stmts, e.nested())
}

// braced wraps an already rendered suite in `{`, `}` at depth. An empty body
// collapses to `{ }`.
func (g *generator) braced(head, body string, depth int) string {
	if body == "" {
		return head + " { }"
	}
	return head + " {\n" + body + "\n" + g.indent(depth) + "}"
}

// simple terminates a non-block statement at the current depth.
func (g *generator) simple(text string, e env) string {
	if text == "" {
		return ""
	}
	return g.indent(e.depth) + text + ";"
}

func (g *generator) fatal(code diag.Code, n pyast.Node, format string, args ...any) {
	g.diags.Addf(code, diag.FatalError, n.Extent(), format, args...)
}

func (g *generator) error(code diag.Code, n pyast.Node, format string, args ...any) {
	g.diags.Addf(code, diag.Error, n.Extent(), format, args...)
}

func (g *generator) warn(code diag.Code, n pyast.Node, format string, args ...any) {
	g.diags.Addf(code, diag.Warning, n.Extent(), format, args...)
}

func (g *generator) unsupported(n pyast.Node, what string) {
	g.fatal(diag.UnsupportedStatement, n, "%s is not supported.", what)
}
