package jsgen

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/pyast"
)

func (g *generator) constant(c *pyast.Constant) string {
	switch v := c.Value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case *big.Int:
		return v.String()
	case string:
		return QuoteString(v)
	case pyast.Char:
		return QuoteString(string(rune(v)))
	case time.Time:
		return formatDate(v)
	case uuid.UUID:
		return QuoteString(v.String())
	case fmt.Stringer:
		return QuoteString(v.String())
	default:
		g.fatal(diag.UnsupportedStatement, c, "Constant of type %T is not supported.", v)
		return ""
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// formatDate renders t as a Date constructor; JavaScript months are 0-based.
func formatDate(t time.Time) string {
	return fmt.Sprintf("new Date(%d,%d,%d,%d,%d,%d,%d)",
		t.Year(), int(t.Month())-1, t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))
}

// QuoteString renders s as a double-quoted JavaScript string literal. Only
// printable ASCII is emitted verbatim; everything else is \u escaped.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			switch {
			case r >= ' ' && r < 0x7f:
				sb.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&sb, `\u%04X\u%04X`, hi, lo)
			default:
				fmt.Fprintf(&sb, `\u%04X`, r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
