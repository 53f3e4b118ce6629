package frontend

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/valdisz/PyToJs/pkg/pyast"
)

// integer reads decimal, hex, octal and binary literals, including the
// Python 2 long suffix and legacy 0-prefixed octal. Values beyond int64 are
// kept as *big.Int.
func (c *converter) integer(n *sitter.Node) pyast.Expr {
	sp := c.span(n)
	text := strings.TrimRight(c.text(n), "lL")
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		return c.unsupported(n, "Complex number")
	}

	digits := strings.ReplaceAll(text, "_", "")
	if len(digits) > 1 && digits[0] == '0' && isDigits(digits[1:]) {
		digits = "0o" + digits[1:]
	}

	if v, err := strconv.ParseInt(digits, 0, 64); err == nil {
		return &pyast.Constant{Span: sp, Value: v}
	}
	if v, ok := new(big.Int).SetString(digits, 0); ok {
		return &pyast.Constant{Span: sp, Value: v}
	}
	c.fail(n, "invalid integer literal %q", text)
	return &pyast.Constant{Span: sp, Value: int64(0)}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func (c *converter) float(n *sitter.Node) pyast.Expr {
	sp := c.span(n)
	text := strings.ReplaceAll(c.text(n), "_", "")
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		return c.unsupported(n, "Complex number")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		c.fail(n, "invalid float literal %q", text)
	}
	return &pyast.Constant{Span: sp, Value: v}
}

// str reads a string or an implicit concatenation of strings.
func (c *converter) str(n *sitter.Node) pyast.Expr {
	sp := c.span(n)
	parts := []*sitter.Node{n}
	if n.Type() == "concatenated_string" {
		parts = children(n)
	}

	var sb strings.Builder
	for _, p := range parts {
		raw := c.text(p)
		prefix := stringPrefix(raw)
		if strings.ContainsAny(prefix, "fF") {
			return c.unsupported(p, "Formatted string")
		}
		s, ok := decodeString(raw[len(prefix):], strings.ContainsAny(prefix, "rR"))
		if !ok {
			c.fail(p, "invalid string literal")
			return &pyast.Constant{Span: sp, Value: ""}
		}
		sb.WriteString(s)
	}
	return &pyast.Constant{Span: sp, Value: sb.String()}
}

func stringPrefix(raw string) string {
	i := 0
	for i < len(raw) && strings.IndexByte("rRuUbBfF", raw[i]) >= 0 {
		i++
	}
	return raw[:i]
}

var hexWidth = map[byte]int{'x': 2, 'u': 4, 'U': 8}

// decodeString strips the quotes of a literal and resolves its escapes.
func decodeString(quoted string, raw bool) (string, bool) {
	var body string
	switch {
	case len(quoted) >= 6 && (strings.HasPrefix(quoted, `"""`) || strings.HasPrefix(quoted, `'''`)):
		body = quoted[3 : len(quoted)-3]
	case len(quoted) >= 2:
		body = quoted[1 : len(quoted)-1]
	default:
		return "", false
	}
	if raw || !strings.Contains(body, `\`) {
		return body, true
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch esc := body[i]; esc {
		case '\n':
		case '\\', '\'', '"':
			sb.WriteByte(esc)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case 'x', 'u', 'U':
			width := hexWidth[esc]
			if i+width >= len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i+1:i+1+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", false
			}
			sb.WriteRune(rune(v))
			i += width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(body) && j < i+3 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i:j], 8, 32)
			sb.WriteRune(rune(v))
			i = j - 1
		default:
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}
	return sb.String(), true
}
