package dbf

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func TestTrim(t *testing.T) {
	testCases := []struct {
		in, l, r, both string
	}{
		{"", "", "", ""},
		{" ", "", "", ""},
		{" 1", "1", " 1", "1"},
		{" 1 ", "1 ", " 1", "1"},
		{"1 ", "1 ", "1", "1"},
		{" 123 ", "123 ", " 123", "123"},
		{"456", "456", "456", "456"},
		{"\t\v\f\r\n x \n", "x \n", "\t\v\f\r\n x", "x"},
	}
	for _, tc := range testCases {
		assert.Equal(t, Ltrim(tc.in), tc.l, "Ltrim(%q)", tc.in)
		assert.Equal(t, Rtrim(tc.in), tc.r, "Rtrim(%q)", tc.in)
		assert.Equal(t, Trim(tc.in), tc.both, "Trim(%q)", tc.in)
	}
}

func TestParseInt(t *testing.T) {
	testCases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"     ", 0},
		{"  42", 42},
		{"42  ", 42},
		{" -17", -17},
		{"+8", 8},
		{"12.75", 12},
		{"1e3", 1},
		{"abc", 0},
		{"- 5", 0},
		{"99999999999999999999", math.MaxInt64},
		{"-99999999999999999999", math.MinInt64},
	}
	for _, tc := range testCases {
		assert.Equal(t, parseInt([]byte(tc.in)), tc.want, "parseInt(%q)", tc.in)
	}
}

func TestParseFloat(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"        ", 0},
		{"    1.50", 1.5},
		{"-0.25", -0.25},
		{"12.", 12},
		{".5", 0.5},
		{"3e2", 300},
		{"3e", 3},
		{"2.5E-1x", 0.25},
		{"7abc", 7},
		{"abc", 0},
		{"-.", 0},
		{"0x1A", 26},
		{" -0x1.8p1", -3},
		{"0x10P-4 ", 1},
		{"0xZ", 0},
		{"1e5x", 100000},
	}
	for _, tc := range testCases {
		assert.Equal(t, parseFloat([]byte(tc.in)), tc.want, "parseFloat(%q)", tc.in)
	}
}

func TestParseFloatSpecialValues(t *testing.T) {
	assert.Equal(t, parseFloat([]byte("inf")), math.Inf(1))
	assert.Equal(t, parseFloat([]byte("  -Infinity")), math.Inf(-1))
	assert.Equal(t, parseFloat([]byte("+INF  ")), math.Inf(1))
	assert.Assert(t, math.IsNaN(parseFloat([]byte("nan"))))
	assert.Assert(t, math.IsNaN(parseFloat([]byte(" NaN(1)"))))
	assert.Equal(t, parseFloat([]byte("in")), 0.0)
}
