package dbf

import (
	"math"
	"strconv"
	"strings"
)

// whitespace is the C locale isspace set.
const whitespace = " \t\n\v\f\r"

// Ltrim removes leading whitespace.
func Ltrim(s string) string {
	return strings.TrimLeft(s, whitespace)
}

// Rtrim removes trailing whitespace, typically the blank padding of a
// fixed-width field.
func Rtrim(s string) string {
	return strings.TrimRight(s, whitespace)
}

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.Trim(s, whitespace)
}

func isSpace(c byte) bool {
	return strings.IndexByte(whitespace, c) >= 0
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// parseInt reads an optionally signed decimal prefix of b, after leading
// whitespace. Anything after the digits is ignored and overflow saturates.
func parseInt(b []byte) int64 {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	neg := false
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}
	var n uint64
	for ; i < len(b) && isDigit(b[i]); i++ {
		d := uint64(b[i] - '0')
		if n > (math.MaxUint64-d)/10 {
			n = math.MaxUint64
			continue
		}
		n = n*10 + d
	}
	if neg {
		if n > math.MaxInt64 {
			return math.MinInt64
		}
		return -int64(n)
	}
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// mantissa scans digits with an optional radix point from i and returns
// the end index and the number of digits seen.
func mantissa(b []byte, i int, digit func(byte) bool) (int, int) {
	n := 0
	for ; i < len(b) && digit(b[i]); i++ {
		n++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for ; i < len(b) && digit(b[i]); i++ {
			n++
		}
	}
	return i, n
}

// exponent extends end over an exponent introduced by one of marks, if a
// complete one follows.
func exponent(b []byte, end int, marks string) int {
	if end >= len(b) || strings.IndexByte(marks, b[end]) < 0 {
		return end
	}
	j := end + 1
	if j < len(b) && (b[j] == '+' || b[j] == '-') {
		j++
	}
	if j >= len(b) || !isDigit(b[j]) {
		return end
	}
	for j < len(b) && isDigit(b[j]) {
		j++
	}
	return j
}

func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && strings.EqualFold(string(b[:len(prefix)]), prefix)
}

// parseFloat reads the longest number prefix of b after leading
// whitespace, like strtod: decimal, hexadecimal (0x1A, 0x1.8p3), inf,
// infinity and nan. It returns 0 when there is no number.
func parseFloat(b []byte) float64 {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	start := i
	sign := 1
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		if b[i] == '-' {
			sign = -1
		}
		i++
	}
	rest := b[i:]
	switch {
	case hasPrefixFold(rest, "inf"):
		return math.Inf(sign)
	case hasPrefixFold(rest, "nan"):
		return math.NaN()
	case hasPrefixFold(rest, "0x"):
		if end, n := mantissa(b, i+2, isHexDigit); n > 0 {
			lit := string(b[start:end])
			if e := exponent(b, end, "pP"); e > end {
				lit = string(b[start:e])
			} else {
				lit += "p0"
			}
			f, _ := strconv.ParseFloat(lit, 64)
			return f
		}
	}
	end, n := mantissa(b, i, isDigit)
	if n == 0 {
		return 0
	}
	end = exponent(b, end, "eE")
	// out of range values come back as ±Inf or 0 together with an error,
	// which matches strtod
	f, _ := strconv.ParseFloat(string(b[start:end]), 64)
	return f
}
