package jsgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

func name(id string) *pyast.Name { return &pyast.Name{Id: id} }

func num(v int64) *pyast.Constant { return &pyast.Constant{Value: v} }

func str(s string) *pyast.Constant { return &pyast.Constant{Value: s} }

func tuple(elts ...pyast.Expr) *pyast.Tuple { return &pyast.Tuple{Elts: elts} }

func bin(l pyast.Expr, op pyast.Operator, r pyast.Expr) *pyast.BinOp {
	return &pyast.BinOp{Left: l, Op: op, Right: r}
}

func call(fn pyast.Expr, args ...pyast.Expr) *pyast.Call {
	c := &pyast.Call{Func: fn}
	for _, a := range args {
		c.Args = append(c.Args, pyast.Arg{Value: a})
	}
	return c
}

func exprStmt(x pyast.Expr) *pyast.ExprStmt { return &pyast.ExprStmt{Value: x} }

func assign(value pyast.Expr, targets ...pyast.Expr) *pyast.Assign {
	return &pyast.Assign{Targets: targets, Value: value}
}

func def(fname string, params []pyast.Param, body ...pyast.Stmt) *pyast.FunctionDef {
	return &pyast.FunctionDef{Name: fname, Params: params, Body: body}
}

func params(names ...string) []pyast.Param {
	out := make([]pyast.Param, len(names))
	for i, n := range names {
		out[i] = pyast.Param{Name: n}
	}
	return out
}

func ret(x pyast.Expr) *pyast.Return { return &pyast.Return{Value: x} }

func module(body ...pyast.Stmt) *pyast.Module { return &pyast.Module{Body: body} }

// translateOK translates body and requires a successful result.
func translateOK(t *testing.T, body ...pyast.Stmt) string {
	t.Helper()
	res := Translate(module(body...), DefaultOptions())
	require.True(t, res.OK, "unexpected diagnostics: %v", res.Diagnostics)
	return res.Output
}

// translateFail translates body and requires a failed result.
func translateFail(t *testing.T, body ...pyast.Stmt) *Result {
	t.Helper()
	res := Translate(module(body...), DefaultOptions())
	require.False(t, res.OK, "expected translation to fail")
	require.Empty(t, res.Output, "output must be withheld")
	return res
}

func codes(list []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(list))
	for i, d := range list {
		out[i] = d.Code
	}
	return out
}
