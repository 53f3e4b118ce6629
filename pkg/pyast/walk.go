package pyast

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. If f returns false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	stmts := func(list []Stmt) {
		for _, s := range list {
			Inspect(s, f)
		}
	}
	exprs := func(list ...Expr) {
		for _, e := range list {
			if e != nil {
				Inspect(e, f)
			}
		}
	}
	params := func(ps []Param) {
		for _, p := range ps {
			exprs(p.Default)
		}
	}
	gens := func(cs []Comprehension) {
		for _, c := range cs {
			exprs(c.Target, c.Iter)
			exprs(c.Ifs...)
		}
	}

	switch n := n.(type) {
	case *Module:
		stmts(n.Body)
	case *FunctionDef:
		exprs(n.Decorators...)
		params(n.Params)
		stmts(n.Body)
	case *ClassDef:
		exprs(n.Decorators...)
		exprs(n.Bases...)
		stmts(n.Body)
	case *Return:
		exprs(n.Value)
	case *Delete:
		exprs(n.Targets...)
	case *Assign:
		exprs(n.Targets...)
		exprs(n.Value)
	case *AugAssign:
		exprs(n.Target, n.Value)
	case *For:
		exprs(n.Target, n.Iter)
		stmts(n.Body)
		stmts(n.Orelse)
	case *While:
		exprs(n.Test)
		stmts(n.Body)
		stmts(n.Orelse)
	case *If:
		exprs(n.Test)
		stmts(n.Body)
		stmts(n.Orelse)
	case *With:
		exprs(n.Items...)
		stmts(n.Body)
	case *Raise:
		exprs(n.Exc, n.Cause)
	case *Try:
		stmts(n.Body)
		for _, h := range n.Handlers {
			exprs(h.Type)
			stmts(h.Body)
		}
		stmts(n.Orelse)
		stmts(n.Finally)
	case *Assert:
		exprs(n.Test, n.Msg)
	case *ExprStmt:
		exprs(n.Value)
	case *Exec:
		exprs(n.Body)
	case *Print:
		exprs(n.Values...)
	case *BinOp:
		exprs(n.Left, n.Right)
	case *UnaryOp:
		exprs(n.Operand)
	case *BoolOp:
		exprs(n.Values...)
	case *IfExp:
		exprs(n.Test, n.Body, n.Orelse)
	case *Call:
		exprs(n.Func)
		for _, a := range n.Args {
			exprs(a.Value)
		}
	case *Attribute:
		exprs(n.Value)
	case *Subscript:
		exprs(n.Value, n.Index)
	case *Slice:
		exprs(n.Lower, n.Upper, n.Step)
	case *List:
		exprs(n.Elts...)
	case *Tuple:
		exprs(n.Elts...)
	case *Dict:
		exprs(n.Keys...)
		exprs(n.Values...)
	case *ListComp:
		exprs(n.Elt)
		gens(n.Generators)
	case *GeneratorExp:
		exprs(n.Elt)
		gens(n.Generators)
	case *Lambda:
		params(n.Params)
		exprs(n.Body)
	case *Paren:
		exprs(n.Value)
	case *Yield:
		exprs(n.Value)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	count := 0
	Inspect(n, func(Node) bool {
		count++
		return true
	})
	return count
}
