package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdisz/PyToJs/pkg/pyast"
)

func span(line, col int) pyast.Span {
	return pyast.Span{
		Start: pyast.Position{Line: line, Column: col},
		End:   pyast.Position{Line: line, Column: col + 1},
	}
}

func TestCollector_Severities(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())

	c.Add(GlobalVariable, Warning, span(1, 1), "global")
	assert.False(t, c.HasErrors(), "warnings never block output")
	assert.False(t, c.HasFatal())

	c.Add(TupleCountDiffers, Error, span(2, 1), "count")
	assert.True(t, c.HasErrors())
	assert.False(t, c.HasFatal())

	c.Addf(UnsupportedOperator, FatalError, span(3, 5), "Operator %s is not supported.", "Is")
	assert.True(t, c.HasFatal())
	assert.Equal(t, 3, c.Len())

	got := c.Diagnostics()
	require.Len(t, got, 3)
	assert.Equal(t, "Operator Is is not supported.", got[2].Message)
}

func TestCollector_DiagnosticsIsCopy(t *testing.T) {
	c := NewCollector()
	c.Add(ReservedWord, Error, span(1, 1), "x")

	got := c.Diagnostics()
	got[0].Message = "changed"

	assert.Equal(t, "x", c.Diagnostics()[0].Message)
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Code:     TupleAssignment,
		Severity: Error,
		Message:  "Cannot assign CONSTANT to TUPLE",
		Span:     pyast.Span{Start: pyast.Position{Line: 4, Column: 1}, End: pyast.Position{Line: 4, Column: 9}},
	}
	assert.Equal(t, "Error [4:1-4:9]: #90006 Cannot assign CONSTANT to TUPLE", d.String())
}

func TestCode_String(t *testing.T) {
	assert.Equal(t, "RESERVED_WORD", ReservedWord.String())
	assert.Equal(t, "INVALID_PARAM_ORDER", InvalidParamOrder.String())
	assert.Equal(t, "CODE_1", Code(1).String())
}

func TestCodes_Stable(t *testing.T) {
	assert.Equal(t, 90001, int(InvalidParamOrder))
	assert.Equal(t, 90003, int(UnsupportedStatement))
	assert.Equal(t, 90007, int(NamedParameter))
	assert.Equal(t, 90011, int(ReservedWord))
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(Diagnostic{Code: NamedParameter, Severity: FatalError})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"FatalError"`)

	var d Diagnostic
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, FatalError, d.Severity)

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("loud")))
}

func TestSort(t *testing.T) {
	list := []Diagnostic{
		{Code: ReservedWord, Span: span(3, 1)},
		{Code: TupleCountDiffers, Span: span(1, 4)},
		{Code: TupleAssignment, Span: span(1, 4)},
		{Code: GlobalVariable, Span: span(1, 1)},
	}
	Sort(list)

	codes := make([]Code, len(list))
	for i, d := range list {
		codes[i] = d.Code
	}
	assert.Equal(t, []Code{GlobalVariable, TupleCountDiffers, TupleAssignment, ReservedWord}, codes)
}

func TestCount(t *testing.T) {
	list := []Diagnostic{{Severity: Warning}, {Severity: Error}, {Severity: Warning}}
	assert.Equal(t, 2, Count(list, Warning))
	assert.Equal(t, 0, Count(list, FatalError))
}
