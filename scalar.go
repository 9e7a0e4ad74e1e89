package structquery

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// timestampLayout is ISO-8601 with a numeric UTC offset. The grammar never
// uses the "Z" suffix form.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// scalarKind represents the closed set of scalar value variants.
type scalarKind int

const (
	// scalarString holds text (including uuid values in textual form)
	scalarString scalarKind = iota
	// scalarInt holds a signed integer
	scalarInt
	// scalarFloat holds a binary floating point number
	scalarFloat
	// scalarDecimal holds an arbitrary-precision decimal
	scalarDecimal
	// scalarTime holds a timestamp
	scalarTime
)

// scalarFamily groups scalar kinds for range bound compatibility. Integer,
// float, and decimal values mix freely as numbers; strings and timestamps
// are each their own family.
type scalarFamily int

const (
	familyString scalarFamily = iota
	familyNumber
	familyTime
)

func (k scalarKind) family() scalarFamily {
	switch k {
	case scalarInt, scalarFloat, scalarDecimal:
		return familyNumber
	case scalarTime:
		return familyTime
	default:
		return familyString
	}
}

// scalarValue is one scalar of the closed variant set. Only the field
// matching kind is meaningful.
type scalarValue struct {
	kind      scalarKind
	str       string
	i         int64
	f         float64
	floatBits int
	dec       decimal.Decimal
	t         time.Time
}

// coerceScalar maps an accepted Go value onto the scalar variant set. The
// second return value is false for values outside the set.
func coerceScalar(raw any) (scalarValue, bool) {
	switch v := raw.(type) {
	case string:
		return scalarValue{kind: scalarString, str: v}, true
	case int:
		return scalarValue{kind: scalarInt, i: int64(v)}, true
	case int8:
		return scalarValue{kind: scalarInt, i: int64(v)}, true
	case int16:
		return scalarValue{kind: scalarInt, i: int64(v)}, true
	case int32:
		return scalarValue{kind: scalarInt, i: int64(v)}, true
	case int64:
		return scalarValue{kind: scalarInt, i: v}, true
	case uint:
		return coerceUint64(uint64(v))
	case uint8:
		return scalarValue{kind: scalarInt, i: int64(v)}, true
	case uint16:
		return scalarValue{kind: scalarInt, i: int64(v)}, true
	case uint32:
		return scalarValue{kind: scalarInt, i: int64(v)}, true
	case uint64:
		return coerceUint64(v)
	case float32:
		return scalarValue{kind: scalarFloat, f: float64(v), floatBits: 32}, true
	case float64:
		return scalarValue{kind: scalarFloat, f: v, floatBits: 64}, true
	case decimal.Decimal:
		return scalarValue{kind: scalarDecimal, dec: v}, true
	case time.Time:
		return scalarValue{kind: scalarTime, t: v}, true
	case uuid.UUID:
		return scalarValue{kind: scalarString, str: v.String()}, true
	default:
		return scalarValue{}, false
	}
}

// coerceUint64 keeps values above MaxInt64 exact by switching to decimal.
func coerceUint64(v uint64) (scalarValue, bool) {
	if v > math.MaxInt64 {
		return scalarValue{kind: scalarDecimal, dec: decimal.NewFromUint64(v)}, true
	}
	return scalarValue{kind: scalarInt, i: int64(v)}, true
}

// text renders the scalar without quoting rules applied. Numbers use the
// shortest round-trip decimal form.
func (s scalarValue) text() string {
	switch s.kind {
	case scalarInt:
		return strconv.FormatInt(s.i, 10)
	case scalarFloat:
		bits := s.floatBits
		if bits == 0 {
			bits = 64
		}
		return strconv.FormatFloat(s.f, 'g', -1, bits)
	case scalarDecimal:
		return s.dec.String()
	case scalarTime:
		return s.t.Format(timestampLayout)
	default:
		return s.str
	}
}

// render writes the quoted wire form. String scalars are single-quoted and
// escaped; when verbatim is true, strings that are already fully
// parenthesized or already look like range text pass through untouched.
// Timestamps are always single-quoted; numbers are never quoted.
func (s scalarValue) render(b *strings.Builder, verbatim bool) {
	switch s.kind {
	case scalarString:
		if verbatim && (isParenthesized(s.str) || IsRangeText(s.str)) {
			b.WriteString(s.str)
			return
		}
		writeQuoted(b, s.str)
	case scalarTime:
		writeQuoted(b, s.text())
	default:
		b.WriteString(s.text())
	}
}

// writeQuoted writes s single-quoted, escaping backslashes before quotes.
// The order matters: escaping quotes first would double-escape the
// backslashes it introduces.
func writeQuoted(b *strings.Builder, s string) {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)

	b.WriteByte('\'')
	b.WriteString(s)
	b.WriteByte('\'')
}

// isParenthesized reports whether s is an opaque pre-rendered
// sub-expression of the form "(...)".
func isParenthesized(s string) bool {
	return strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}
