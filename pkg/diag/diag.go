// Package diag collects translation diagnostics.
//
// Design: One append-only Collector per translation run. Codes are stable
// numeric identifiers that tools group and sort by; never renumber them.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valdisz/PyToJs/pkg/pyast"
)

// Code identifies a class of translation problem.
type Code int

const (
	InvalidParamOrder     Code = 90001
	UnsupportedOperator   Code = 90002
	UnsupportedStatement  Code = 90003
	TokenAlreadyDeclared  Code = 90004
	TupleCountDiffers     Code = 90005
	TupleAssignment       Code = 90006
	NamedParameter        Code = 90007
	GlobalVariable        Code = 90008
	ParamAsGlobalVariable Code = 90009
	InvalidClassMethod    Code = 90010
	ReservedWord          Code = 90011
)

var codeNames = map[Code]string{
	InvalidParamOrder:     "INVALID_PARAM_ORDER",
	UnsupportedOperator:   "UNSUPPORTED_OPERATOR",
	UnsupportedStatement:  "UNSUPPORTED_STATEMENT",
	TokenAlreadyDeclared:  "TOKEN_ALREADY_DECLARED",
	TupleCountDiffers:     "TUPLE_COUNT_DIFFERS",
	TupleAssignment:       "TUPLE_ASSIGNMENT",
	NamedParameter:        "NAMED_PARAMETER",
	GlobalVariable:        "GLOBAL_VARIABLE",
	ParamAsGlobalVariable: "PARAM_AS_GLOBAL_VARIABLE",
	InvalidClassMethod:    "INVALID_CLASS_METHOD",
	ReservedWord:          "RESERVED_WORD",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%d", int(c))
}

// Severity orders diagnostics by how much they block output.
type Severity int

const (
	Warning Severity = iota
	Error
	FatalError
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case FatalError:
		return "FatalError"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the severity by name for JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "warning":
		*s = Warning
	case "error":
		*s = Error
	case "fatalerror", "fatal":
		*s = FatalError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Diagnostic is one reported problem tied to a source span.
type Diagnostic struct {
	Code     Code       `json:"code"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	Span     pyast.Span `json:"span"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s]: #%d %s", d.Severity, d.Span, int(d.Code), d.Message)
}

// Blocking reports whether the diagnostic withholds translation output.
func (d Diagnostic) Blocking() bool {
	return d.Severity >= Error
}

// Collector accumulates diagnostics for one translation run.
// Not safe for concurrent use.
type Collector struct {
	items []Diagnostic
}

func NewCollector() *Collector {
	return &Collector{}
}

// Add records a diagnostic.
func (c *Collector) Add(code Code, sev Severity, span pyast.Span, msg string) {
	c.items = append(c.items, Diagnostic{Code: code, Severity: sev, Message: msg, Span: span})
}

// Addf records a diagnostic with a formatted message.
func (c *Collector) Addf(code Code, sev Severity, span pyast.Span, format string, args ...any) {
	c.Add(code, sev, span, fmt.Sprintf(format, args...))
}

// Diagnostics returns a copy of the recorded diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collector) Len() int { return len(c.items) }

// HasErrors reports whether an Error or FatalError was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Blocking() {
			return true
		}
	}
	return false
}

// HasFatal reports whether a FatalError was recorded.
func (c *Collector) HasFatal() bool {
	for _, d := range c.items {
		if d.Severity == FatalError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics at the given severity.
func Count(list []Diagnostic, sev Severity) int {
	n := 0
	for _, d := range list {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by start position, then by code.
func Sort(list []Diagnostic) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Span.Start, list[j].Span.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return list[i].Code < list[j].Code
	})
}
