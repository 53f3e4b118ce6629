package jsgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

func TestFunction_DefaultParameters(t *testing.T) {
	fn := def("f",
		[]pyast.Param{{Name: "a"}, {Name: "b", Default: num(2)}, {Name: "c", Default: num(3)}},
		ret(bin(bin(name("a"), pyast.Add, name("b")), pyast.Add, name("c"))),
	)
	want := "function f(a, b, c) {\n" +
		"    if (typeof(b) == 'undefined') {\n" +
		"        b = 2;\n" +
		"    }\n" +
		"    if (typeof(c) == 'undefined') {\n" +
		"        c = 3;\n" +
		"    }\n" +
		"    return a + b + c;\n" +
		"}\n"
	assert.Equal(t, want, translateOK(t, fn))
}

func TestFunction_DefaultRenderedInIsolation(t *testing.T) {
	// Defaults render at depth zero in a scope of their own.
	dict := &pyast.Dict{Keys: []pyast.Expr{str("k")}, Values: []pyast.Expr{num(1)}}
	fn := def("f",
		[]pyast.Param{{Name: "a"}, {Name: "b", Default: dict}},
		assign(num(1), name("a")),
		assign(num(2), name("z")),
	)
	want := "function f(a, b) {\n" +
		"    if (typeof(b) == 'undefined') {\n" +
		"        b = {\n" +
		"    \"k\": 1\n" +
		"};\n" +
		"    }\n" +
		"    a = 1;\n" +
		"    var z = 2;\n" +
		"}\n"
	assert.Equal(t, want, translateOK(t, fn))
}

func TestFunction_Empty(t *testing.T) {
	assert.Equal(t, "function f() { }\n", translateOK(t, def("f", nil, &pyast.Pass{})))
}

func TestFunction_Nested(t *testing.T) {
	inner := def("inner", nil, ret(num(1)))
	outer := def("outer", nil, inner, ret(name("inner")))
	want := "function outer() {\n" +
		"    function inner() {\n" +
		"        return 1;\n" +
		"    }\n" +
		"    return inner;\n" +
		"}\n"
	assert.Equal(t, want, translateOK(t, outer))
}

func TestFunction_LocalsDoNotLeak(t *testing.T) {
	fn := def("f", nil, assign(num(1), name("x")))
	out := translateOK(t, fn, assign(num(2), name("x")))
	assert.Equal(t, "function f() {\n    var x = 1;\n}\nvar x = 2;\n", out)
}

func TestFunction_BareReturn(t *testing.T) {
	out := translateOK(t, def("f", nil, &pyast.Return{}))
	assert.Equal(t, "function f() {\n    return;\n}\n", out)
}

func TestFunction_InvalidParamOrder(t *testing.T) {
	bad := pyast.Span{Start: pyast.Position{Line: 1, Column: 10}, End: pyast.Position{Line: 1, Column: 11}}
	fn := def("f", []pyast.Param{{Name: "a", Default: num(1)}, {Span: bad, Name: "b"}})

	res := translateFail(t, fn)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.InvalidParamOrder, res.Diagnostics[0].Code)
	assert.Equal(t, diag.Error, res.Diagnostics[0].Severity)
	assert.Equal(t, bad, res.Diagnostics[0].Span)
}

func TestFunction_ReservedName(t *testing.T) {
	res := translateFail(t, def("delete", nil, &pyast.Pass{}))
	assert.Equal(t, []diag.Code{diag.ReservedWord}, codes(res.Diagnostics))
	assert.Equal(t, diag.Error, res.Diagnostics[0].Severity)

	res = translateFail(t, def("f", params("var"), &pyast.Pass{}))
	assert.Equal(t, []diag.Code{diag.ReservedWord}, codes(res.Diagnostics))
}

func TestFunction_VariadicUnsupported(t *testing.T) {
	res := translateFail(t, def("f", []pyast.Param{{Name: "args", Star: "*"}}, &pyast.Pass{}))
	assert.Equal(t, []diag.Code{diag.UnsupportedStatement}, codes(res.Diagnostics))
}

func TestFunction_DecoratorUnsupported(t *testing.T) {
	fn := def("f", nil, &pyast.Pass{})
	fn.Decorators = []pyast.Expr{name("staticmethod")}
	res := translateFail(t, fn)
	assert.Equal(t, []diag.Code{diag.UnsupportedStatement}, codes(res.Diagnostics))
}

func TestLambda(t *testing.T) {
	l := &pyast.Lambda{Params: params("x"), Body: bin(name("x"), pyast.Add, num(1))}
	out := translateOK(t, assign(l, name("f")))
	assert.Equal(t, "var f = function(x) {\n    return x + 1;\n};\n", out)
}

func TestLambda_InsideFunction(t *testing.T) {
	l := &pyast.Lambda{Params: params("y"), Body: name("y")}
	out := translateOK(t, def("f", nil, ret(l)))
	want := "function f() {\n" +
		"    return function(y) {\n" +
		"        return y;\n" +
		"    };\n" +
		"}\n"
	assert.Equal(t, want, out)
}

func TestLambda_AsCallTarget(t *testing.T) {
	l := &pyast.Lambda{Body: num(1)}
	out := translateOK(t, exprStmt(call(l)))
	assert.Equal(t, "(function() {\n    return 1;\n})();\n", out)
}
