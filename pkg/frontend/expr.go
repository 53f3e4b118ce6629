package frontend

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/valdisz/PyToJs/pkg/pyast"
)

// field converts the expression in field name of n, or returns nil.
func (c *converter) field(n *sitter.Node, name string) pyast.Expr {
	child := n.ChildByFieldName(name)
	if child == nil {
		return nil
	}
	return c.expr(child)
}

// flatten converts an unparenthesized expression list to its elements.
func (c *converter) flatten(n *sitter.Node) []pyast.Expr {
	if n.Type() != "expression_list" {
		return []pyast.Expr{c.expr(n)}
	}
	var out []pyast.Expr
	for _, k := range children(n) {
		out = append(out, c.expr(k))
	}
	return out
}

var binaryOperators = map[string]pyast.Operator{
	"+":  pyast.Add,
	"-":  pyast.Sub,
	"*":  pyast.Mul,
	"@":  pyast.MatMult,
	"/":  pyast.Div,
	"//": pyast.FloorDiv,
	"%":  pyast.Mod,
	"**": pyast.Pow,
	"<<": pyast.LShift,
	">>": pyast.RShift,
	"|":  pyast.BitOr,
	"^":  pyast.BitXor,
	"&":  pyast.BitAnd,
}

var comparisonOperators = map[string]pyast.Operator{
	"==":     pyast.Eq,
	"!=":     pyast.NotEq,
	"<>":     pyast.NotEqAlt,
	"<":      pyast.Lt,
	"<=":     pyast.LtE,
	">":      pyast.Gt,
	">=":     pyast.GtE,
	"is":     pyast.Is,
	"is not": pyast.IsNot,
	"in":     pyast.In,
	"not in": pyast.NotIn,
}

func (c *converter) expr(n *sitter.Node) pyast.Expr {
	sp := c.span(n)
	switch n.Type() {
	case "identifier", "keyword_identifier":
		return &pyast.Name{Span: sp, Id: c.text(n)}
	case "integer":
		return c.integer(n)
	case "float":
		return c.float(n)
	case "string", "concatenated_string":
		return c.str(n)
	case "true":
		return &pyast.Constant{Span: sp, Value: true}
	case "false":
		return &pyast.Constant{Span: sp, Value: false}
	case "none":
		return &pyast.Constant{Span: sp, Value: nil}
	case "binary_operator":
		op, ok := binaryOperators[n.ChildByFieldName("operator").Type()]
		if !ok {
			return c.unsupported(n, "Operator "+n.ChildByFieldName("operator").Type())
		}
		return &pyast.BinOp{Span: sp, Left: c.field(n, "left"), Op: op, Right: c.field(n, "right")}
	case "unary_operator":
		u := &pyast.UnaryOp{Span: sp, Operand: c.field(n, "argument")}
		switch n.ChildByFieldName("operator").Type() {
		case "-":
			u.Op = pyast.USub
		case "+":
			u.Op = pyast.UAdd
		default:
			u.Op = pyast.Invert
		}
		return u
	case "not_operator":
		return &pyast.UnaryOp{Span: sp, Op: pyast.Not, Operand: c.field(n, "argument")}
	case "boolean_operator":
		op := pyast.And
		if n.ChildByFieldName("operator").Type() == "or" {
			op = pyast.Or
		}
		return &pyast.BoolOp{Span: sp, Op: op, Values: []pyast.Expr{c.field(n, "left"), c.field(n, "right")}}
	case "comparison_operator":
		return c.comparison(n)
	case "conditional_expression":
		kids := children(n)
		if len(kids) != 3 {
			return c.unsupported(n, "Conditional expression")
		}
		return &pyast.IfExp{Span: sp, Body: c.expr(kids[0]), Test: c.expr(kids[1]), Orelse: c.expr(kids[2])}
	case "call":
		return c.call(n)
	case "attribute":
		return &pyast.Attribute{
			Span:  sp,
			Value: c.field(n, "object"),
			Attr:  c.text(n.ChildByFieldName("attribute")),
		}
	case "subscript":
		return c.subscript(n)
	case "slice":
		return c.slice(n)
	case "list", "list_pattern":
		return &pyast.List{Span: sp, Elts: c.elements(n)}
	case "tuple", "tuple_pattern", "pattern_list", "expression_list":
		return &pyast.Tuple{Span: sp, Elts: c.elements(n)}
	case "dictionary":
		return c.dict(n)
	case "list_comprehension":
		return &pyast.ListComp{Span: sp, Elt: c.field(n, "body"), Generators: c.generators(n)}
	case "generator_expression":
		return &pyast.GeneratorExp{Span: sp, Elt: c.field(n, "body"), Generators: c.generators(n)}
	case "lambda":
		return &pyast.Lambda{
			Span:   sp,
			Params: c.params(n.ChildByFieldName("parameters")),
			Body:   c.field(n, "body"),
		}
	case "parenthesized_expression":
		kids := children(n)
		if len(kids) != 1 {
			return c.unsupported(n, "Parenthesized expression")
		}
		return &pyast.Paren{Span: sp, Value: c.expr(kids[0])}
	case "yield":
		y := &pyast.Yield{Span: sp}
		if kids := children(n); len(kids) > 0 {
			y.Value = c.expr(kids[0])
		}
		return y
	case "set":
		return c.unsupported(n, "Set literal")
	case "set_comprehension":
		return c.unsupported(n, "Set comprehension")
	case "dictionary_comprehension":
		return c.unsupported(n, "Dictionary comprehension")
	case "ellipsis":
		return c.unsupported(n, "Ellipsis")
	case "await":
		return c.unsupported(n, "Await expression")
	case "named_expression":
		return c.unsupported(n, "Assignment expression")
	case "list_splat", "list_splat_pattern", "dictionary_splat":
		return c.unsupported(n, "Unpacking")
	default:
		return c.unsupported(n, "Expression "+n.Type())
	}
}

func (c *converter) elements(n *sitter.Node) []pyast.Expr {
	kids := children(n)
	out := make([]pyast.Expr, 0, len(kids))
	for _, k := range kids {
		out = append(out, c.expr(k))
	}
	return out
}

// chainOperandTypes are the node types safe to evaluate twice.
var chainOperandTypes = map[string]bool{
	"identifier": true,
	"integer":    true,
	"float":      true,
	"string":     true,
	"true":       true,
	"false":      true,
	"none":       true,
}

// comparison lowers a chain `a < b < c` to `a < b and b < c`.
func (c *converter) comparison(n *sitter.Node) pyast.Expr {
	var (
		operands []*sitter.Node
		ops      []string
	)
	// "not in" and "is not" may arrive as two tokens.
	joined := false
	for i := 0; i < int(n.ChildCount()); i++ {
		k := n.Child(i)
		switch {
		case k.Type() == "comment":
		case k.IsNamed():
			operands = append(operands, k)
			joined = false
		case joined:
			ops[len(ops)-1] += " " + k.Type()
		default:
			ops = append(ops, k.Type())
			joined = true
		}
	}
	if len(operands) != len(ops)+1 {
		return c.unsupported(n, "Comparison")
	}
	// Inner operands appear in two comparisons once lowered.
	for _, mid := range operands[1 : len(operands)-1] {
		if !chainOperandTypes[mid.Type()] {
			return c.unsupported(mid, "Comparison chain operand")
		}
	}

	var parts []pyast.Expr
	for i, text := range ops {
		op, ok := comparisonOperators[text]
		if !ok {
			return c.unsupported(n, "Operator "+text)
		}
		left, right := operands[i], operands[i+1]
		parts = append(parts, &pyast.BinOp{
			Span: pyast.Span{
				Start: c.span(left).Start,
				End:   c.span(right).End,
			},
			Left:  c.expr(left),
			Op:    op,
			Right: c.expr(right),
		})
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return &pyast.BoolOp{Span: c.span(n), Op: pyast.And, Values: parts}
}

func (c *converter) call(n *sitter.Node) pyast.Expr {
	call := &pyast.Call{Span: c.span(n), Func: c.field(n, "function")}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return call
	}
	if args.Type() == "generator_expression" {
		call.Args = []pyast.Arg{{Span: c.span(args), Value: c.expr(args)}}
		return call
	}
	for _, k := range children(args) {
		a := pyast.Arg{Span: c.span(k)}
		switch k.Type() {
		case "keyword_argument":
			a.Keyword = c.text(k.ChildByFieldName("name"))
			a.Value = c.field(k, "value")
		case "list_splat":
			a.Star = "*"
			a.Value = c.splatValue(k)
		case "dictionary_splat":
			a.Star = "**"
			a.Value = c.splatValue(k)
		default:
			a.Value = c.expr(k)
		}
		call.Args = append(call.Args, a)
	}
	return call
}

func (c *converter) splatValue(n *sitter.Node) pyast.Expr {
	if kids := children(n); len(kids) > 0 {
		return c.expr(kids[0])
	}
	return nil
}

func (c *converter) subscript(n *sitter.Node) pyast.Expr {
	s := &pyast.Subscript{Span: c.span(n), Value: c.field(n, "value")}

	var index []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == "subscript" {
			index = append(index, n.Child(i))
		}
	}
	switch len(index) {
	case 0:
		s.Index = c.field(n, "subscript")
	case 1:
		s.Index = c.expr(index[0])
	default:
		t := &pyast.Tuple{Span: pyast.Span{Start: c.span(index[0]).Start, End: c.span(index[len(index)-1]).End}}
		for _, k := range index {
			t.Elts = append(t.Elts, c.expr(k))
		}
		s.Index = t
	}
	return s
}

// slice reads `[lower]:[upper][:[step]]`, placing each expression by the
// number of colons before it.
func (c *converter) slice(n *sitter.Node) pyast.Expr {
	s := &pyast.Slice{Span: c.span(n)}
	part := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		k := n.Child(i)
		if !k.IsNamed() {
			if k.Type() == ":" {
				part++
			}
			continue
		}
		if k.Type() == "comment" {
			continue
		}
		switch part {
		case 0:
			s.Lower = c.expr(k)
		case 1:
			s.Upper = c.expr(k)
		default:
			s.Step = c.expr(k)
		}
	}
	return s
}

func (c *converter) dict(n *sitter.Node) pyast.Expr {
	d := &pyast.Dict{Span: c.span(n)}
	for _, k := range children(n) {
		if k.Type() != "pair" {
			return c.unsupported(k, "Dictionary unpacking")
		}
		d.Keys = append(d.Keys, c.field(k, "key"))
		d.Values = append(d.Values, c.field(k, "value"))
	}
	return d
}

// generators reads the for/if clauses of a comprehension. Each if clause
// filters the for clause before it.
func (c *converter) generators(n *sitter.Node) []pyast.Comprehension {
	var out []pyast.Comprehension
	for _, k := range children(n) {
		switch k.Type() {
		case "for_in_clause":
			comp := pyast.Comprehension{Span: c.span(k), Target: c.field(k, "left")}
			if right := k.ChildByFieldName("right"); right != nil {
				comp.Iter = c.expr(right)
			}
			out = append(out, comp)
		case "if_clause":
			if len(out) == 0 {
				continue
			}
			if kids := children(k); len(kids) > 0 {
				last := &out[len(out)-1]
				last.Ifs = append(last.Ifs, c.expr(kids[0]))
			}
		}
	}
	return out
}
