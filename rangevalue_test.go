package structquery

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestRangeBrackets(t *testing.T) {
	tests := []struct {
		name     string
		lower    any
		upper    any
		expected string
	}{
		{
			name:     "both bounds inclusive",
			lower:    1990,
			upper:    2000,
			expected: "[1990,2000]",
		},
		{
			name:     "open lower",
			lower:    nil,
			upper:    2000,
			expected: "{,2000]",
		},
		{
			name:     "open upper",
			lower:    1990,
			upper:    nil,
			expected: "[1990,}",
		},
		{
			name:     "float bounds",
			lower:    1.5,
			upper:    9.25,
			expected: "[1.5,9.25]",
		},
		{
			name:     "mixed int and float",
			lower:    1,
			upper:    2.5,
			expected: "[1,2.5]",
		},
		{
			name:     "string bounds",
			lower:    "apple",
			upper:    "banana",
			expected: "['apple','banana']",
		},
		{
			name:     "negative bounds",
			lower:    -10,
			upper:    -1,
			expected: "[-10,-1]",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, err := NewRange(test.lower, test.upper)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, r.String())
		})
	}
}

func TestRangeDescriptorBrackets(t *testing.T) {
	tests := []struct {
		name     string
		desc     RangeDescriptor
		expected string
	}{
		{
			name:     "both exclusive",
			desc:     RangeDescriptor{Lower: 1, LowerExclusive: true, Upper: 10, UpperExclusive: true},
			expected: "{1,10}",
		},
		{
			name:     "exclusive lower inclusive upper",
			desc:     RangeDescriptor{Lower: 1, LowerExclusive: true, Upper: 10},
			expected: "{1,10]",
		},
		{
			name:     "inclusive lower exclusive upper",
			desc:     RangeDescriptor{Lower: 1, Upper: 10, UpperExclusive: true},
			expected: "[1,10}",
		},
		{
			name:     "exclusivity flag on absent bound has no effect",
			desc:     RangeDescriptor{Upper: 10, LowerExclusive: true},
			expected: "{,10]",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, err := NewRangeFromDescriptor(test.desc)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, r.String())
		})
	}
}

func TestRangeTimestampBounds(t *testing.T) {
	lower := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	upper := time.Date(2013, 12, 31, 23, 59, 59, 0, time.FixedZone("JST", 9*60*60))

	r, err := NewRange(lower, upper)
	assert.NoError(t, err)
	assert.Equal(t, "['2013-01-01T00:00:00+00:00','2013-12-31T23:59:59+09:00']", r.String())
}

func TestRangeDecimalBounds(t *testing.T) {
	lower := decimal.RequireFromString("0.1")
	upper := decimal.RequireFromString("99.95")

	r, err := NewRange(lower, upper)
	assert.NoError(t, err)
	assert.Equal(t, "[0.1,99.95]", r.String())

	// Decimal counts as a number, so it mixes with int and float bounds.
	r, err = NewRange(lower, 100)
	assert.NoError(t, err)
	assert.Equal(t, "[0.1,100]", r.String())
}

func TestOpenRange(t *testing.T) {
	_, err := NewRange(nil, nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpenRange))

	_, err = NewRangeFromDescriptor(RangeDescriptor{})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpenRange))
}

func TestRangeTypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		lower any
		upper any
	}{
		{name: "int and string", lower: 1990, upper: "2000"},
		{name: "string and int", lower: "1990", upper: 2000},
		{name: "time and int", lower: time.Now(), upper: 2000},
		{name: "time and string", lower: time.Now(), upper: "2000"},
		{name: "unsupported bound type", lower: struct{}{}, upper: 10},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewRange(test.lower, test.upper)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrRangeType))
		})
	}
}

func TestIsRangeText(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{input: "[1990,2000]", expected: true},
		{input: "{,2000]", expected: true},
		{input: "[1990,}", expected: true},
		{input: "{'a','b'}", expected: true},
		{input: "1990,2000", expected: false},
		{input: "[1990]", expected: false},
		{input: "plain text", expected: false},
		{input: "", expected: false},
		{input: "(and a,b)", expected: false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, IsRangeText(test.input))
		})
	}
}

func TestRangeTextRoundTrip(t *testing.T) {
	ranges := []RangeDescriptor{
		{Lower: 1, Upper: 10},
		{Lower: 1, LowerExclusive: true, Upper: 10, UpperExclusive: true},
		{Upper: 2000},
		{Lower: 1990},
		{Lower: "a", Upper: "z"},
		{Lower: time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, desc := range ranges {
		r, err := NewRangeFromDescriptor(desc)
		assert.NoError(t, err)
		assert.True(t, IsRangeText(r.String()))
	}
}
