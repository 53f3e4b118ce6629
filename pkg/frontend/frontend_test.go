package frontend

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdisz/PyToJs/pkg/pyast"
)

func parse(t *testing.T, src string) *pyast.Module {
	t.Helper()
	mod, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return mod
}

func single[T any](t *testing.T, src string) T {
	t.Helper()
	mod := parse(t, src)
	require.Len(t, mod.Body, 1)
	s, ok := mod.Body[0].(T)
	require.True(t, ok, "got %T", mod.Body[0])
	return s
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(context.Background(), []byte("  \n\n"))
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, []byte("x = 1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), []byte("x = 1\ndef f(:\n    pass\n"))
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestParse_ChainedAssignment(t *testing.T) {
	a := single[*pyast.Assign](t, "a = b = 1\n")
	require.Len(t, a.Targets, 2)
	assert.Equal(t, "a", a.Targets[0].(*pyast.Name).Id)
	assert.Equal(t, "b", a.Targets[1].(*pyast.Name).Id)
	assert.Equal(t, int64(1), a.Value.(*pyast.Constant).Value)
	assert.Equal(t, pyast.Position{Line: 1, Column: 1}, a.Span.Start)
}

func TestParse_TupleAssignment(t *testing.T) {
	a := single[*pyast.Assign](t, "a, b = 1, 2\n")
	left, ok := a.Targets[0].(*pyast.Tuple)
	require.True(t, ok)
	assert.Len(t, left.Elts, 2)
	right, ok := a.Value.(*pyast.Tuple)
	require.True(t, ok)
	assert.Len(t, right.Elts, 2)
}

func TestParse_AugAssign(t *testing.T) {
	a := single[*pyast.AugAssign](t, "x //= 2\n")
	assert.Equal(t, pyast.FloorDiv, a.Op)
}

func TestParse_FunctionDef(t *testing.T) {
	fn := single[*pyast.FunctionDef](t, "def f(a, b=2, *rest):\n    return a + b\n")
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params, 3)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Nil(t, fn.Params[0].Default)
	assert.Equal(t, "b", fn.Params[1].Name)
	assert.Equal(t, int64(2), fn.Params[1].Default.(*pyast.Constant).Value)
	assert.Equal(t, "*", fn.Params[2].Star)
	assert.Equal(t, "rest", fn.Params[2].Name)

	require.Len(t, fn.Body, 1)
	ret := fn.Body[0].(*pyast.Return)
	bin := ret.Value.(*pyast.BinOp)
	assert.Equal(t, pyast.Add, bin.Op)
}

func TestParse_Decorated(t *testing.T) {
	fn := single[*pyast.FunctionDef](t, "@staticmethod\ndef f():\n    pass\n")
	require.Len(t, fn.Decorators, 1)
	assert.Equal(t, "staticmethod", fn.Decorators[0].(*pyast.Name).Id)
}

func TestParse_ClassDef(t *testing.T) {
	src := "class Point(object):\n" +
		"    z = 0\n" +
		"    def __init__(self, x):\n" +
		"        self.x = x\n"
	cls := single[*pyast.ClassDef](t, src)
	assert.Equal(t, "Point", cls.Name)
	require.Len(t, cls.Bases, 1)
	require.Len(t, cls.Body, 2)
	assert.IsType(t, &pyast.Assign{}, cls.Body[0])

	init := cls.Body[1].(*pyast.FunctionDef)
	assign := init.Body[0].(*pyast.Assign)
	attr := assign.Targets[0].(*pyast.Attribute)
	assert.Equal(t, "x", attr.Attr)
}

func TestParse_IfElifElse(t *testing.T) {
	s := single[*pyast.If](t, "if a:\n    x()\nelif b:\n    y()\nelse:\n    z()\n")
	require.Len(t, s.Orelse, 1)
	elif := s.Orelse[0].(*pyast.If)
	assert.Equal(t, "b", elif.Test.(*pyast.Name).Id)
	require.Len(t, elif.Orelse, 1)
	assert.IsType(t, &pyast.ExprStmt{}, elif.Orelse[0])
}

func TestParse_LoopsWithElse(t *testing.T) {
	f := single[*pyast.For](t, "for k, v in items:\n    pass\nelse:\n    done()\n")
	assert.IsType(t, &pyast.Tuple{}, f.Target)
	assert.Len(t, f.Orelse, 1)

	w := single[*pyast.While](t, "while x:\n    break\nelse:\n    pass\n")
	assert.IsType(t, &pyast.Break{}, w.Body[0])
	assert.Len(t, w.Orelse, 1)
}

func TestParse_Try(t *testing.T) {
	src := "try:\n" +
		"    a()\n" +
		"except ValueError as e:\n" +
		"    b(e)\n" +
		"except:\n" +
		"    raise\n" +
		"finally:\n" +
		"    c()\n"
	s := single[*pyast.Try](t, src)
	require.Len(t, s.Handlers, 2)
	assert.Equal(t, "ValueError", s.Handlers[0].Type.(*pyast.Name).Id)
	assert.Equal(t, "e", s.Handlers[0].Name)
	assert.Nil(t, s.Handlers[1].Type)
	assert.IsType(t, &pyast.Raise{}, s.Handlers[1].Body[0])
	assert.Len(t, s.Finally, 1)
}

func TestParse_ComparisonChain(t *testing.T) {
	s := single[*pyast.ExprStmt](t, "a < b <= c\n")
	and, ok := s.Value.(*pyast.BoolOp)
	require.True(t, ok)
	assert.Equal(t, pyast.And, and.Op)
	require.Len(t, and.Values, 2)
	assert.Equal(t, pyast.Lt, and.Values[0].(*pyast.BinOp).Op)
	second := and.Values[1].(*pyast.BinOp)
	assert.Equal(t, pyast.LtE, second.Op)
	assert.Equal(t, "b", second.Left.(*pyast.Name).Id)
}

func TestParse_ComparisonChainCallOperand(t *testing.T) {
	s := single[*pyast.ExprStmt](t, "a < f() < c\n")
	u, ok := s.Value.(*pyast.Unsupported)
	require.True(t, ok)
	assert.Equal(t, "Comparison chain operand", u.Kind)

	s = single[*pyast.ExprStmt](t, "f() < b < g()\n")
	assert.IsType(t, &pyast.BoolOp{}, s.Value)
}

func TestParse_MembershipOperators(t *testing.T) {
	s := single[*pyast.ExprStmt](t, "a not in b\n")
	assert.Equal(t, pyast.NotIn, s.Value.(*pyast.BinOp).Op)

	s = single[*pyast.ExprStmt](t, "a is not None\n")
	bin := s.Value.(*pyast.BinOp)
	assert.Equal(t, pyast.IsNot, bin.Op)
	assert.Nil(t, bin.Right.(*pyast.Constant).Value)
}

func TestParse_CallArguments(t *testing.T) {
	s := single[*pyast.ExprStmt](t, "f(1, key=2, *xs)\n")
	call := s.Value.(*pyast.Call)
	require.Len(t, call.Args, 3)
	assert.Empty(t, call.Args[0].Keyword)
	assert.Equal(t, "key", call.Args[1].Keyword)
	assert.Equal(t, "*", call.Args[2].Star)
}

func TestParse_Subscripts(t *testing.T) {
	s := single[*pyast.ExprStmt](t, "a[1:2]\n")
	sl := s.Value.(*pyast.Subscript).Index.(*pyast.Slice)
	assert.NotNil(t, sl.Lower)
	assert.NotNil(t, sl.Upper)
	assert.Nil(t, sl.Step)

	s = single[*pyast.ExprStmt](t, "a[::2]\n")
	sl = s.Value.(*pyast.Subscript).Index.(*pyast.Slice)
	assert.Nil(t, sl.Lower)
	assert.Nil(t, sl.Upper)
	assert.Equal(t, int64(2), sl.Step.(*pyast.Constant).Value)
}

func TestParse_Comprehension(t *testing.T) {
	s := single[*pyast.ExprStmt](t, "[x * 2 for x in xs if x]\n")
	comp := s.Value.(*pyast.ListComp)
	require.Len(t, comp.Generators, 1)
	assert.Equal(t, "xs", comp.Generators[0].Iter.(*pyast.Name).Id)
	assert.Len(t, comp.Generators[0].Ifs, 1)
}

func TestParse_Lambda(t *testing.T) {
	a := single[*pyast.Assign](t, "f = lambda x, y=1: x + y\n")
	l := a.Value.(*pyast.Lambda)
	require.Len(t, l.Params, 2)
	assert.NotNil(t, l.Params[1].Default)
	assert.IsType(t, &pyast.BinOp{}, l.Body)
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"0x1F", int64(31)},
		{"0o17", int64(15)},
		{"017", int64(15)},
		{"1_000", int64(1000)},
		{"1.5", 1.5},
		{"True", true},
		{"'a\\tb'", "a\tb"},
		{"r'a\\tb'", "a\\tb"},
		{"u'caf\\xe9'", "café"},
		{"'a' 'b'", "ab"},
		{"\"\"\"x\ny\"\"\"", "x\ny"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := single[*pyast.ExprStmt](t, tt.src+"\n")
			c, ok := s.Value.(*pyast.Constant)
			require.True(t, ok, "got %T", s.Value)
			assert.Equal(t, tt.want, c.Value)
		})
	}
}

func TestParse_BigInteger(t *testing.T) {
	s := single[*pyast.ExprStmt](t, "123456789012345678901234567890\n")
	v, ok := s.Value.(*pyast.Constant).Value.(*big.Int)
	require.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890", v.String())
}

func TestParse_UnsupportedConstructs(t *testing.T) {
	s := single[*pyast.ExprStmt](t, "{1, 2}\n")
	u, ok := s.Value.(*pyast.Unsupported)
	require.True(t, ok)
	assert.Equal(t, "Set literal", u.Kind)

	s = single[*pyast.ExprStmt](t, "f'{x}'\n")
	assert.IsType(t, &pyast.Unsupported{}, s.Value)

	mod := parse(t, "def f():\n    nonlocal x\n")
	fn := mod.Body[0].(*pyast.FunctionDef)
	assert.IsType(t, &pyast.Unsupported{}, fn.Body[0])
}

func TestParse_GlobalAndImports(t *testing.T) {
	mod := parse(t, "import os, sys\nfrom a.b import c, d\nglobal g, h\n")
	require.Len(t, mod.Body, 3)
	assert.Equal(t, []string{"os", "sys"}, mod.Body[0].(*pyast.Import).Names)
	from := mod.Body[1].(*pyast.ImportFrom)
	assert.Equal(t, "a.b", from.Module)
	assert.Equal(t, []string{"c", "d"}, from.Names)
	assert.Equal(t, []string{"g", "h"}, mod.Body[2].(*pyast.Global).Names)
}

func TestParse_CommentsIgnored(t *testing.T) {
	mod := parse(t, "# header\nx = 1  # trailing\n\n# footer\n")
	require.Len(t, mod.Body, 1)
	assert.IsType(t, &pyast.Assign{}, mod.Body[0])
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`"plain"`, "plain", true},
		{`'it\'s'`, "it's", true},
		{`"\u00e9"`, "é", true},
		{`"\101"`, "A", true},
		{`"\q"`, `\q`, true},
		{`"\x4"`, "", false},
	}
	for _, tt := range tests {
		got, ok := decodeString(tt.in, false)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
