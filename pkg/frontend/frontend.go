// Package frontend parses Python source into the pyast tree.
//
// Design: tree-sitter does the parsing. This package only walks the concrete
// tree once and builds pyast nodes. Anything the AST cannot express becomes
// pyast.Unsupported and is reported by the translator, not here.
package frontend

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/valdisz/PyToJs/pkg/pyast"
)

var (
	ErrEmptySource = errors.New("empty source")
	ErrParseFailed = errors.New("parse failed")
)

// ParseError is a syntax error at a 1-based source position.
type ParseError struct {
	Line    int
	Column  int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Cause == nil {
		return ErrParseFailed
	}
	return e.Cause
}

// Parse builds the syntax tree for src. Syntax errors are returned as
// *ParseError for the first offending node.
func Parse(ctx context.Context, src []byte) (*pyast.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, ErrEmptySource
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if perr := firstSyntaxError(root, src); perr != nil {
			return nil, perr
		}
		return nil, &ParseError{Line: 1, Column: 1, Message: "invalid syntax"}
	}

	c := &converter{src: src}
	mod := &pyast.Module{Span: c.span(root), Body: c.block(root)}
	if c.err != nil {
		return nil, c.err
	}
	return mod, nil
}

// firstSyntaxError finds the earliest ERROR or MISSING node.
func firstSyntaxError(n *sitter.Node, src []byte) *ParseError {
	if n.IsError() || n.IsMissing() {
		p := n.StartPoint()
		msg := "invalid syntax"
		if n.IsMissing() {
			msg = fmt.Sprintf("missing %q", n.Type())
		} else if text := n.Content(src); text != "" && len(text) < 40 {
			msg = fmt.Sprintf("unexpected %q", text)
		}
		return &ParseError{Line: int(p.Row) + 1, Column: int(p.Column) + 1, Message: msg}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.HasError() || child.IsMissing() {
			if err := firstSyntaxError(child, src); err != nil {
				return err
			}
		}
	}
	return nil
}

// converter turns tree-sitter nodes into pyast nodes. The first conversion
// error wins; later ones are dropped.
type converter struct {
	src []byte
	err error
}

func (c *converter) span(n *sitter.Node) pyast.Span {
	s, e := n.StartPoint(), n.EndPoint()
	return pyast.Span{
		Start: pyast.Position{Line: int(s.Row) + 1, Column: int(s.Column) + 1},
		End:   pyast.Position{Line: int(e.Row) + 1, Column: int(e.Column) + 1},
	}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) fail(n *sitter.Node, format string, args ...any) {
	if c.err != nil {
		return
	}
	p := n.StartPoint()
	c.err = &ParseError{Line: int(p.Row) + 1, Column: int(p.Column) + 1, Message: fmt.Sprintf(format, args...)}
}

// children returns the named children of n without comments.
func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "comment", "line_continuation":
			continue
		}
		out = append(out, child)
	}
	return out
}

func (c *converter) unsupported(n *sitter.Node, kind string) *pyast.Unsupported {
	return &pyast.Unsupported{Span: c.span(n), Kind: kind}
}
