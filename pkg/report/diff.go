package report

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// DiffContext is the number of unchanged lines kept around each change.
const DiffContext = 3

// Unified returns the unified diff turning orig into updated, and its
// line stats. The diff is empty when both texts are equal.
func Unified(origName, newName, orig, updated string) ([]byte, diff.Stat, error) {
	fd := &diff.FileDiff{
		OrigName: origName,
		NewName:  newName,
		Hunks:    Hunks(splitLines(orig), splitLines(updated), DiffContext),
	}
	if len(fd.Hunks) == 0 {
		return nil, diff.Stat{}, nil
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return nil, diff.Stat{}, err
	}
	return out, fd.Stat(), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Hunks groups the line changes between a and b into hunks, keeping
// context unchanged lines around each change.
func Hunks(a, b []string, context int) []*diff.Hunk {
	groups := difflib.NewMatcher(a, b).GetGroupedOpCodes(context)
	hunks := make([]*diff.Hunk, 0, len(groups))
	for _, group := range groups {
		if len(group) == 0 || (len(group) == 1 && group[0].Tag == 'e') {
			continue
		}
		hunks = append(hunks, buildHunk(a, b, group))
	}
	return hunks
}

func buildHunk(a, b []string, group []difflib.OpCode) *diff.Hunk {
	var body strings.Builder
	write := func(kind byte, lines []string) {
		for _, line := range lines {
			body.WriteByte(kind)
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	for _, op := range group {
		switch op.Tag {
		case 'e':
			write(' ', a[op.I1:op.I2])
		case 'd':
			write('-', a[op.I1:op.I2])
		case 'i':
			write('+', b[op.J1:op.J2])
		case 'r':
			write('-', a[op.I1:op.I2])
			write('+', b[op.J1:op.J2])
		}
	}

	first, last := group[0], group[len(group)-1]
	h := &diff.Hunk{
		OrigLines: int32(last.I2 - first.I1),
		NewLines:  int32(last.J2 - first.J1),
		Body:      []byte(body.String()),
	}
	h.OrigStartLine = startLine(first.I1, h.OrigLines)
	h.NewStartLine = startLine(first.J1, h.NewLines)
	return h
}

// startLine follows the unified format: an empty range names the line
// before it.
func startLine(before int, count int32) int32 {
	if count == 0 {
		return int32(before)
	}
	return int32(before) + 1
}
