package pyast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspect_VisitsEveryNode(t *testing.T) {
	// def f(a=1):
	//     return [x for x in a if x]
	comp := &ListComp{
		Elt: &Name{Id: "x"},
		Generators: []Comprehension{{
			Target: &Name{Id: "x"},
			Iter:   &Name{Id: "a"},
			Ifs:    []Expr{&Name{Id: "x"}},
		}},
	}
	mod := &Module{Body: []Stmt{
		&FunctionDef{
			Name:   "f",
			Params: []Param{{Name: "a", Default: &Constant{Value: int64(1)}}},
			Body:   []Stmt{&Return{Value: comp}},
		},
	}}

	var names []string
	Inspect(mod, func(n Node) bool {
		if n, ok := n.(*Name); ok {
			names = append(names, n.Id)
		}
		return true
	})

	assert.Equal(t, []string{"x", "x", "a", "x"}, names)
	// Module, FunctionDef, Constant, Return, ListComp and four names.
	assert.Equal(t, 9, Count(mod))
}

func TestInspect_PruneChildren(t *testing.T) {
	mod := &Module{Body: []Stmt{
		&ClassDef{Name: "A", Body: []Stmt{&Pass{}, &Pass{}}},
		&Pass{},
	}}

	visited := 0
	Inspect(mod, func(n Node) bool {
		visited++
		_, isClass := n.(*ClassDef)
		return !isClass
	})
	assert.Equal(t, 3, visited)
}

func TestInspect_SkipsMissingChildren(t *testing.T) {
	assert.Equal(t, 1, Count(&Raise{}))
	assert.Equal(t, 2, Count(&Return{Value: &Name{Id: "x"}}))
	assert.Equal(t, 0, Count(nil))
}
