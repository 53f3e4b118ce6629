package frontend

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/valdisz/PyToJs/pkg/pyast"
)

// block converts the statements of a module or block node.
func (c *converter) block(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	var out []pyast.Stmt
	for _, child := range children(n) {
		if s := c.stmt(child); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// body converts the block in field name of n.
func (c *converter) body(n *sitter.Node, field string) []pyast.Stmt {
	return c.block(n.ChildByFieldName(field))
}

func (c *converter) stmt(n *sitter.Node) pyast.Stmt {
	sp := c.span(n)
	switch n.Type() {
	case "expression_statement":
		return c.expressionStatement(n)
	case "return_statement":
		r := &pyast.Return{Span: sp}
		if kids := children(n); len(kids) > 0 {
			r.Value = c.expr(kids[0])
		}
		return r
	case "delete_statement":
		d := &pyast.Delete{Span: sp}
		for _, k := range children(n) {
			d.Targets = append(d.Targets, c.flatten(k)...)
		}
		return d
	case "pass_statement":
		return &pyast.Pass{Span: sp}
	case "break_statement":
		return &pyast.Break{Span: sp}
	case "continue_statement":
		return &pyast.Continue{Span: sp}
	case "raise_statement":
		return c.raise(n)
	case "global_statement":
		g := &pyast.Global{Span: sp}
		for _, k := range children(n) {
			g.Names = append(g.Names, c.text(k))
		}
		return g
	case "import_statement":
		imp := &pyast.Import{Span: sp}
		for _, k := range children(n) {
			imp.Names = append(imp.Names, c.text(k))
		}
		return imp
	case "import_from_statement", "future_import_statement":
		return c.importFrom(n)
	case "assert_statement":
		a := &pyast.Assert{Span: sp}
		kids := children(n)
		if len(kids) > 0 {
			a.Test = c.expr(kids[0])
		}
		if len(kids) > 1 {
			a.Msg = c.expr(kids[1])
		}
		return a
	case "print_statement":
		p := &pyast.Print{Span: sp}
		for _, k := range children(n) {
			if k.Type() == "chevron" {
				continue
			}
			p.Values = append(p.Values, c.expr(k))
		}
		return p
	case "exec_statement":
		e := &pyast.Exec{Span: sp}
		if code := n.ChildByFieldName("code"); code != nil {
			e.Body = c.expr(code)
		}
		return e
	case "if_statement":
		return c.ifStatement(n)
	case "for_statement":
		return c.forStatement(n)
	case "while_statement":
		return &pyast.While{
			Span:   sp,
			Test:   c.field(n, "condition"),
			Body:   c.body(n, "body"),
			Orelse: c.elseClause(n.ChildByFieldName("alternative")),
		}
	case "try_statement":
		return c.try(n)
	case "with_statement":
		return c.with(n)
	case "function_definition":
		return c.functionDef(n, nil)
	case "class_definition":
		return c.classDef(n, nil)
	case "decorated_definition":
		return c.decorated(n)
	default:
		return c.unsupported(n, strings.ReplaceAll(n.Type(), "_", " "))
	}
}

// expressionStatement covers bare expressions and all assignment forms.
func (c *converter) expressionStatement(n *sitter.Node) pyast.Stmt {
	kids := children(n)
	if len(kids) == 0 {
		return nil
	}
	if len(kids) == 1 {
		switch kids[0].Type() {
		case "assignment":
			return c.assignment(kids[0])
		case "augmented_assignment":
			return c.augAssign(kids[0])
		}
		return &pyast.ExprStmt{Span: c.span(n), Value: c.expr(kids[0])}
	}

	// a, b as a statement
	t := &pyast.Tuple{Span: c.span(n)}
	for _, k := range kids {
		t.Elts = append(t.Elts, c.expr(k))
	}
	return &pyast.ExprStmt{Span: t.Span, Value: t}
}

// assignment flattens `a = b = value`, which tree-sitter nests to the right.
func (c *converter) assignment(n *sitter.Node) pyast.Stmt {
	a := &pyast.Assign{Span: c.span(n)}
	cur := n
	for {
		left, right := cur.ChildByFieldName("left"), cur.ChildByFieldName("right")
		if right == nil {
			return c.unsupported(n, "Annotated declaration")
		}
		a.Targets = append(a.Targets, c.expr(left))
		if right.Type() != "assignment" {
			a.Value = c.expr(right)
			return a
		}
		cur = right
	}
}

var augmentedOperators = map[string]pyast.Operator{
	"+=":  pyast.Add,
	"-=":  pyast.Sub,
	"*=":  pyast.Mul,
	"@=":  pyast.MatMult,
	"/=":  pyast.Div,
	"//=": pyast.FloorDiv,
	"%=":  pyast.Mod,
	"**=": pyast.Pow,
	"<<=": pyast.LShift,
	">>=": pyast.RShift,
	"&=":  pyast.BitAnd,
	"|=":  pyast.BitOr,
	"^=":  pyast.BitXor,
}

func (c *converter) augAssign(n *sitter.Node) pyast.Stmt {
	opNode := n.ChildByFieldName("operator")
	op, ok := augmentedOperators[opNode.Type()]
	if !ok {
		return c.unsupported(n, "Operator "+opNode.Type())
	}
	return &pyast.AugAssign{
		Span:   c.span(n),
		Target: c.field(n, "left"),
		Op:     op,
		Value:  c.field(n, "right"),
	}
}

func (c *converter) raise(n *sitter.Node) pyast.Stmt {
	r := &pyast.Raise{Span: c.span(n)}
	cause := n.ChildByFieldName("cause")
	for _, k := range children(n) {
		if cause != nil && sameNode(k, cause) {
			continue
		}
		if r.Exc == nil {
			r.Exc = c.expr(k)
		}
	}
	if cause != nil {
		r.Cause = c.expr(cause)
	}
	return r
}

func (c *converter) importFrom(n *sitter.Node) pyast.Stmt {
	imp := &pyast.ImportFrom{Span: c.span(n), Module: "__future__"}
	mod := n.ChildByFieldName("module_name")
	if mod != nil {
		imp.Module = c.text(mod)
	}
	for _, k := range children(n) {
		if mod != nil && sameNode(k, mod) {
			continue
		}
		imp.Names = append(imp.Names, c.text(k))
	}
	return imp
}

// ifStatement folds elif clauses into nested If nodes in Orelse.
func (c *converter) ifStatement(n *sitter.Node) pyast.Stmt {
	root := &pyast.If{
		Span: c.span(n),
		Test: c.field(n, "condition"),
		Body: c.body(n, "consequence"),
	}

	tail := root
	for _, k := range children(n) {
		switch k.Type() {
		case "elif_clause":
			next := &pyast.If{
				Span: c.span(k),
				Test: c.field(k, "condition"),
				Body: c.body(k, "consequence"),
			}
			tail.Orelse = []pyast.Stmt{next}
			tail = next
		case "else_clause":
			tail.Orelse = c.body(k, "body")
		}
	}
	return root
}

func (c *converter) forStatement(n *sitter.Node) pyast.Stmt {
	if n.Child(0) != nil && n.Child(0).Type() == "async" {
		return c.unsupported(n, "Async for")
	}
	return &pyast.For{
		Span:   c.span(n),
		Target: c.field(n, "left"),
		Iter:   c.field(n, "right"),
		Body:   c.body(n, "body"),
		Orelse: c.elseClause(n.ChildByFieldName("alternative")),
	}
}

func (c *converter) elseClause(n *sitter.Node) []pyast.Stmt {
	if n == nil {
		return nil
	}
	return c.body(n, "body")
}

func (c *converter) try(n *sitter.Node) pyast.Stmt {
	t := &pyast.Try{Span: c.span(n), Body: c.body(n, "body")}
	for _, k := range children(n) {
		switch k.Type() {
		case "except_clause":
			t.Handlers = append(t.Handlers, c.exceptClause(k))
		case "except_group_clause":
			return c.unsupported(k, "Exception group")
		case "else_clause":
			t.Orelse = c.body(k, "body")
		case "finally_clause":
			for _, b := range children(k) {
				if b.Type() == "block" {
					t.Finally = c.block(b)
				}
			}
		}
	}
	return t
}

// exceptClause reads `except [Type [as|, name]]:`. The grammar leaves these
// parts unnamed, so they are taken by position.
func (c *converter) exceptClause(n *sitter.Node) pyast.ExceptHandler {
	h := pyast.ExceptHandler{Span: c.span(n)}
	var parts []*sitter.Node
	for _, k := range children(n) {
		if k.Type() == "block" {
			h.Body = c.block(k)
			continue
		}
		parts = append(parts, k)
	}
	if len(parts) == 1 && parts[0].Type() == "as_pattern" {
		as := children(parts[0])
		if len(as) > 0 {
			h.Type = c.expr(as[0])
		}
		if alias := parts[0].ChildByFieldName("alias"); alias != nil {
			h.Name = strings.TrimSpace(c.text(alias))
		}
		return h
	}
	if len(parts) > 0 {
		h.Type = c.expr(parts[0])
	}
	if len(parts) > 1 {
		h.Name = c.text(parts[1])
	}
	return h
}

func (c *converter) with(n *sitter.Node) pyast.Stmt {
	w := &pyast.With{Span: c.span(n), Body: c.body(n, "body")}
	var items func(*sitter.Node)
	items = func(k *sitter.Node) {
		for _, ch := range children(k) {
			switch ch.Type() {
			case "with_clause":
				items(ch)
			case "with_item":
				if v := ch.ChildByFieldName("value"); v != nil {
					w.Items = append(w.Items, c.expr(v))
				}
			}
		}
	}
	items(n)
	return w
}

func (c *converter) functionDef(n *sitter.Node, decorators []pyast.Expr) pyast.Stmt {
	if n.Child(0) != nil && n.Child(0).Type() == "async" {
		return c.unsupported(n, "Async function")
	}
	fn := &pyast.FunctionDef{
		Span:       c.span(n),
		Name:       c.text(n.ChildByFieldName("name")),
		Params:     c.params(n.ChildByFieldName("parameters")),
		Body:       c.body(n, "body"),
		Decorators: decorators,
	}
	return fn
}

func (c *converter) classDef(n *sitter.Node, decorators []pyast.Expr) pyast.Stmt {
	cls := &pyast.ClassDef{
		Span:       c.span(n),
		Name:       c.text(n.ChildByFieldName("name")),
		Body:       c.body(n, "body"),
		Decorators: decorators,
	}
	if bases := n.ChildByFieldName("superclasses"); bases != nil {
		for _, b := range children(bases) {
			cls.Bases = append(cls.Bases, c.expr(b))
		}
	}
	return cls
}

func (c *converter) decorated(n *sitter.Node) pyast.Stmt {
	var decorators []pyast.Expr
	for _, k := range children(n) {
		if k.Type() != "decorator" {
			continue
		}
		if kids := children(k); len(kids) > 0 {
			decorators = append(decorators, c.expr(kids[0]))
		}
	}

	def := n.ChildByFieldName("definition")
	if def == nil {
		return c.unsupported(n, "Decorated definition")
	}
	switch def.Type() {
	case "function_definition":
		return c.functionDef(def, decorators)
	case "class_definition":
		return c.classDef(def, decorators)
	default:
		return c.unsupported(def, strings.ReplaceAll(def.Type(), "_", " "))
	}
}

// params converts parameters or lambda_parameters.
func (c *converter) params(n *sitter.Node) []pyast.Param {
	if n == nil {
		return nil
	}
	var out []pyast.Param
	for _, k := range children(n) {
		p := pyast.Param{Span: c.span(k)}
		switch k.Type() {
		case "identifier":
			p.Name = c.text(k)
		case "typed_parameter":
			inner := children(k)
			if len(inner) == 0 {
				continue
			}
			if star := starOf(inner[0].Type()); star != "" {
				p.Star = star
				p.Name = c.splatName(inner[0])
			} else {
				p.Name = c.text(inner[0])
			}
		case "default_parameter", "typed_default_parameter":
			p.Name = c.text(k.ChildByFieldName("name"))
			p.Default = c.field(k, "value")
		case "list_splat_pattern", "dictionary_splat_pattern":
			p.Star = starOf(k.Type())
			p.Name = c.splatName(k)
		case "keyword_separator":
			p.Star = "*"
		case "positional_separator":
			continue
		default:
			c.fail(k, "unsupported parameter %q", c.text(k))
			continue
		}
		out = append(out, p)
	}
	return out
}

func starOf(nodeType string) string {
	switch nodeType {
	case "list_splat_pattern":
		return "*"
	case "dictionary_splat_pattern":
		return "**"
	}
	return ""
}

func (c *converter) splatName(n *sitter.Node) string {
	for _, k := range children(n) {
		if k.Type() == "identifier" {
			return c.text(k)
		}
	}
	return ""
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
