package frontend

import "strings"

// IsComplete reports whether src is a complete unit of interactive input.
// Input is incomplete while a bracket or triple-quoted string is open, after
// a trailing backslash, and inside a block until a blank line ends it.
// Malformed input counts as complete so the parser can report it.
func IsComplete(src string) bool {
	l := newLexer(src)
	l.scan()

	if l.depth > 0 || l.inTriple || l.continued {
		return false
	}
	if l.opensBlock || l.indented {
		return endsWithBlankLine(src)
	}
	return true
}

func endsWithBlankLine(src string) bool {
	trimmed := strings.TrimRight(src, " \t\r")
	return strings.HasSuffix(trimmed, "\n\n") || trimmed == ""
}

// lexer is a line-oriented scanner that tracks only what IsComplete needs.
type lexer struct {
	source []rune
	pos    int

	depth      int
	inTriple   bool
	continued  bool
	opensBlock bool
	indented   bool
	broken     bool
}

func newLexer(source string) *lexer {
	return &lexer{source: []rune(source)}
}

func (l *lexer) scan() {
	lineStart := true
	for !l.isAtEnd() && !l.broken {
		if lineStart {
			lineStart = false
			if l.blankLine() {
				l.skipLine()
				lineStart = true
				continue
			}
			if l.depth == 0 {
				c := l.peek()
				l.indented = c == ' ' || c == '\t'
				l.opensBlock = false
			}
		}

		c := l.advance()
		switch c {
		case '\n':
			lineStart = true
			l.continued = false
		case ' ', '\t', '\r':
		case '#':
			l.skipComment()
		case '\\':
			if l.match('\n') || l.isAtEnd() {
				l.continued = true
			}
		case '(', '[', '{':
			l.depth++
			l.opensBlock = false
		case ')', ']', '}':
			if l.depth == 0 {
				l.broken = true
				break
			}
			l.depth--
			l.opensBlock = false
		case '\'', '"':
			l.str(c)
			l.opensBlock = false
		case ':':
			l.opensBlock = l.depth == 0
		default:
			l.opensBlock = false
		}
	}
	if l.broken {
		l.depth, l.inTriple, l.continued, l.opensBlock, l.indented = 0, false, false, false, false
	}
}

// str consumes a string literal whose opening quote was just read.
func (l *lexer) str(quote rune) {
	triple := l.peek() == quote && l.peekAt(1) == quote
	if triple {
		l.advance()
		l.advance()
		l.inTriple = true
	}
	for !l.isAtEnd() {
		c := l.advance()
		switch {
		case c == '\\':
			if !l.isAtEnd() {
				l.advance()
			}
		case c == quote && !triple:
			return
		case c == quote && l.match(quote) && l.match(quote):
			l.inTriple = false
			return
		case c == '\n' && !triple:
			l.broken = true
			return
		}
	}
	if !triple {
		l.broken = true
	}
}

func (l *lexer) blankLine() bool {
	for i := l.pos; i < len(l.source); i++ {
		switch l.source[i] {
		case ' ', '\t', '\r':
		case '\n':
			return true
		case '#':
			return l.depth == 0
		default:
			return false
		}
	}
	return true
}

func (l *lexer) skipLine() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	l.match('\n')
}

func (l *lexer) skipComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *lexer) peek() rune {
	return l.peekAt(0)
}

func (l *lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.source) {
		return '\x00'
	}
	return l.source[l.pos+offset]
}

func (l *lexer) advance() rune {
	c := l.source[l.pos]
	l.pos++
	return c
}

func (l *lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.pos++
	return true
}

func (l *lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}
