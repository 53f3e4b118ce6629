package jsgen

import (
	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

// reservedWords are identifiers JavaScript reserves or treats as literals.
var reservedWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"abstract", "as", "boolean", "break", "byte", "case", "catch", "char",
		"class", "continue", "const", "debugger", "default", "delete", "do",
		"double", "else", "enum", "export", "extends", "false", "final",
		"finally", "float", "for", "function", "goto", "if", "implements",
		"import", "in", "instanceof", "int", "interface", "is", "long",
		"namespace", "native", "new", "null", "package", "private",
		"protected", "public", "return", "short", "static", "super", "switch",
		"synchronized", "this", "throw", "throws", "transient", "true", "try",
		"typeof", "use", "var", "void", "volatile", "while", "with",
	} {
		reservedWords[w] = struct{}{}
	}
}

// IsReserved reports whether name cannot be used as a JavaScript identifier.
func IsReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

// checkName reports a reserved identifier at n and returns false for it.
func (g *generator) checkName(n pyast.Node, name string) bool {
	if !IsReserved(name) {
		return true
	}
	g.error(diag.ReservedWord, n, "%q is reserved word in JavaScript and cannot be used.", name)
	return false
}
