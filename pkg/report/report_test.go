package report

import (
	"bytes"
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

func span(line, col, endLine, endCol int) pyast.Span {
	return pyast.Span{
		Start: pyast.Position{Line: line, Column: col},
		End:   pyast.Position{Line: endLine, Column: endCol},
	}
}

func TestPrinter_DiagnosticsSorted(t *testing.T) {
	list := []diag.Diagnostic{
		{Code: diag.ReservedWord, Severity: diag.Error, Message: "Reserved word var", Span: span(3, 1, 3, 4)},
		{Code: diag.GlobalVariable, Severity: diag.Warning, Message: "Global g", Span: span(1, 5, 1, 6)},
	}
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Diagnostics("a.py", list)

	want := "a.py: Warning [1:5-1:6]: #90008 Global g\n" +
		"a.py: Error [3:1-3:4]: #90011 Reserved word var\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, diag.ReservedWord, list[0].Code, "input order kept")
}

func TestPrinter_NoFile(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Diagnostics("", []diag.Diagnostic{
		{Code: diag.UnsupportedStatement, Severity: diag.FatalError, Message: "WITH statement is not supported.", Span: span(1, 1, 2, 9)},
	})
	assert.Equal(t, "FatalError [1:1-2:9]: #90003 WITH statement is not supported.\n", buf.String())
}

func TestPrinter_ErrorAndSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlainPrinter(&buf)
	p.Error("b.py", errors.New("1:7: unexpected \":\""))
	p.Summary(2, 1)
	assert.Equal(t, "b.py: error: 1:7: unexpected \":\"\n2 translated, 1 failed\n", buf.String())
}

func TestUnified_Equal(t *testing.T) {
	out, stat, err := Unified("a.js", "a.js", "x;\n", "x;\n")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, stat.Added+stat.Changed+stat.Deleted)
}

func TestUnified_Change(t *testing.T) {
	orig := "a;\nb;\nc;\n"
	updated := "a;\nB;\nc;\nd;\n"
	out, stat, err := Unified("x.js", "x.js", orig, updated)
	require.NoError(t, err)

	want := "--- x.js\n" +
		"+++ x.js\n" +
		"@@ -1,3 +1,4 @@\n" +
		" a;\n" +
		"-b;\n" +
		"+B;\n" +
		" c;\n" +
		"+d;\n"
	assert.Equal(t, want, string(out))
	assert.Equal(t, int32(1), stat.Changed)
	assert.Equal(t, int32(1), stat.Added)
}

func TestHunks_SplitsDistantChanges(t *testing.T) {
	a := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	b := []string{"one", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "twelve"}

	hunks := Hunks(a, b, 3)
	require.Len(t, hunks, 2)

	assert.Equal(t, int32(1), hunks[0].OrigStartLine)
	assert.Equal(t, int32(4), hunks[0].OrigLines)
	assert.Equal(t, "-1\n+one\n 2\n 3\n 4\n", string(hunks[0].Body))

	assert.Equal(t, int32(9), hunks[1].OrigStartLine)
	assert.Equal(t, int32(4), hunks[1].OrigLines)
	assert.Equal(t, int32(9), hunks[1].NewStartLine)
	assert.Equal(t, " 9\n 10\n 11\n-12\n+twelve\n", string(hunks[1].Body))
}

func TestHunks_NewFile(t *testing.T) {
	hunks := Hunks(nil, []string{"x;"}, 3)
	require.Len(t, hunks, 1)
	assert.Equal(t, int32(0), hunks[0].OrigStartLine)
	assert.Equal(t, int32(0), hunks[0].OrigLines)
	assert.Equal(t, int32(1), hunks[0].NewStartLine)
	assert.Equal(t, "+x;\n", string(hunks[0].Body))
}

func TestHunks_LargeFiles(t *testing.T) {
	a := make([]string, 20000)
	for i := range a {
		a[i] = "line " + strconv.Itoa(i)
	}
	b := slices.Clone(a)
	b[10000] = "changed"

	hunks := Hunks(a, b, DiffContext)
	require.Len(t, hunks, 1)
	assert.Equal(t, int32(9998), hunks[0].OrigStartLine)
	assert.Equal(t, int32(7), hunks[0].OrigLines)
	assert.Contains(t, string(hunks[0].Body), "-line 10000\n+changed\n")
}
