// Package jsruntime describes the JavaScript support library generated code
// calls into, and ships a reference implementation of it.
//
// Design: Generated code only depends on helper names. Names is the contract;
// prelude.js is one way to satisfy it.
package jsruntime

import (
	_ "embed"
	"sort"
)

//go:embed prelude.js
var prelude string

// Names are the fully qualified helper functions generated code calls.
type Names struct {
	ToArray          string `yaml:"array_helper" json:"array_helper" validate:"required"`
	Mul              string `yaml:"mul_helper" json:"mul_helper" validate:"required"`
	IsIn             string `yaml:"in_helper" json:"in_helper" validate:"required"`
	ComprehensionFor string `yaml:"comprehension_helper" json:"comprehension_helper" validate:"required"`
	Print            string `yaml:"print_helper" json:"print_helper" validate:"required"`
}

// DefaultNames returns the helper names the prelude defines.
func DefaultNames() Names {
	return Names{
		ToArray:          "_.toArray",
		Mul:              "Python.mul",
		IsIn:             "Python.isIn",
		ComprehensionFor: "Python.comprehensionFor",
		Print:            "print",
	}
}

// WithDefaults fills empty fields from DefaultNames.
func (n Names) WithDefaults() Names {
	d := DefaultNames()
	if n.ToArray == "" {
		n.ToArray = d.ToArray
	}
	if n.Mul == "" {
		n.Mul = d.Mul
	}
	if n.IsIn == "" {
		n.IsIn = d.IsIn
	}
	if n.ComprehensionFor == "" {
		n.ComprehensionFor = d.ComprehensionFor
	}
	if n.Print == "" {
		n.Print = d.Print
	}
	return n
}

// builtinRenames maps Python builtins whose names clash with JavaScript
// syntax or globals to the prelude functions that replace them.
var builtinRenames = map[string]string{
	"eval":  "doEval",
	"float": "toFloat",
	"int":   "toInt",
	"long":  "toLong",
	"super": "makeSuper",
	"type":  "getType",
}

// RenameBuiltin returns the replacement for a renamed builtin call target.
func RenameBuiltin(name string) (string, bool) {
	r, ok := builtinRenames[name]
	return r, ok
}

// RenamedBuiltins lists the Python names that are rewritten, sorted.
func RenamedBuiltins() []string {
	out := make([]string, 0, len(builtinRenames))
	for k := range builtinRenames {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Prelude returns the reference JavaScript runtime.
func Prelude() string {
	return prelude
}
