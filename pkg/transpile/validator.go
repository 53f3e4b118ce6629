package transpile

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/valdisz/PyToJs/pkg/logger"
)

// ValidationError is a JavaScript syntax error in generated output.
type ValidationError struct {
	Line    int
	Column  int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Validator checks generated JavaScript with the tree-sitter grammar.
// A Validator is not safe for concurrent use.
type Validator struct {
	parser *sitter.Parser
	errors []ValidationError
}

func NewValidator() *Validator {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	return &Validator{parser: parser}
}

// Validate parses js and reports every ERROR and MISSING node. The returned
// error wraps one *ValidationError per problem.
func (v *Validator) Validate(ctx context.Context, js string) error {
	v.errors = nil
	src := []byte(js)

	tree, err := v.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("parse javascript: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	v.collect(root, src)
	if len(v.errors) == 0 {
		v.addError(root, "invalid syntax")
	}
	return v.formatErrors()
}

// Errors returns the problems found by the last Validate call.
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

func (v *Validator) collect(n *sitter.Node, src []byte) {
	switch {
	case n.IsMissing():
		v.addError(n, fmt.Sprintf("missing %q", n.Type()))
		return
	case n.IsError():
		msg := "invalid syntax"
		if text := n.Content(src); text != "" && len(text) < 40 {
			msg = fmt.Sprintf("unexpected %q", text)
		}
		v.addError(n, msg)
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.HasError() || child.IsMissing() {
			v.collect(child, src)
		}
	}
}

func (v *Validator) addError(n *sitter.Node, msg string) {
	p := n.StartPoint()
	v.errors = append(v.errors, ValidationError{
		Line:    int(p.Row) + 1,
		Column:  int(p.Column) + 1,
		Message: msg,
	})
}

func (v *Validator) formatErrors() error {
	errs := make([]error, 0, len(v.errors))
	for i := range v.errors {
		logger.Debug("JavaScript validation error", "line", v.errors[i].Line, "msg", v.errors[i].Message)
		verr := v.errors[i]
		errs = append(errs, &verr)
	}
	return fmt.Errorf("javascript validation failed: %w", errors.Join(errs...))
}
