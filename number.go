// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package qcon

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"go4.org/mem"
)

// NumberKind identifies which field of a Number carries its value.
type NumberKind byte

// Constants defining the valid NumberKind values.
const (
	Signed   NumberKind = iota + 1 // fits in an int64
	Unsigned                       // positive, fits only in a uint64
	Floating                       // floating point
)

var numberKindStr = [...]string{Signed: "signed", Unsigned: "unsigned", Floating: "floating"}

func (k NumberKind) String() string {
	if k == 0 || int(k) >= len(numberKindStr) {
		return fmt.Sprintf("NumberKind(%d)", k)
	}
	return numberKindStr[k]
}

// A Number is the result of parsing a numeric literal.
//
// For the integer kinds, Int and Uint hold the two's-complement views of the
// same 64 bits, and Float holds the nearest floating-point value. For the
// Floating kind only Float is set.
//
// Positive reports whether the literal had no minus sign. It is kept even
// for integers representable only as Unsigned, so that the largest uint64 is
// distinct from -1.
type Number struct {
	Kind     NumberKind
	Int      int64
	Uint     uint64
	Float    float64
	Positive bool
}

func (n Number) String() string {
	switch n.Kind {
	case Signed:
		return strconv.FormatInt(n.Int, 10)
	case Unsigned:
		return strconv.FormatUint(n.Uint, 10)
	case Floating:
		return string(appendFloat(nil, n.Float))
	default:
		return "invalid number"
	}
}

// ParseNumber parses s as a complete QCON numeric literal.
func ParseNumber(s string) (Number, error) {
	n, pos, err := scanNumber(mem.S(s))
	if err != nil {
		return Number{}, err
	} else if pos != len(s) {
		return Number{}, fmt.Errorf("invalid character %q in number", s[pos])
	}
	return n, nil
}

// maxDecimalDigits is the number of significant decimal digits of the largest
// uint64. A decimal integer with more significant digits than this is parsed
// as floating point instead of being reported as an overflow.
const maxDecimalDigits = 20

// scanNumber parses a numeric literal from the front of src. It returns the
// number and the count of bytes consumed. In case of error, the offset
// reports where in src the problem was found.
func scanNumber(src mem.RO) (Number, int, error) {
	pos, positive := 0, true
	at := func(i int) byte {
		if i < src.Len() {
			return src.At(i)
		}
		return 0
	}

	sign := at(0)
	if sign == '+' || sign == '-' {
		positive = sign == '+'
		pos++
	}

	// Keywords: inf and nan.
	if rest := src.SliceFrom(pos); mem.HasPrefix(rest, mem.S("inf")) {
		return Number{Kind: Floating, Float: math.Inf(signOf(positive)), Positive: positive}, pos + 3, nil
	} else if mem.HasPrefix(rest, mem.S("nan")) {
		return Number{Kind: Floating, Float: math.NaN(), Positive: positive}, pos + 3, nil
	}

	// Base prefixes: 0x, 0o, 0b.
	if at(pos) == '0' {
		if base := prefixBase(at(pos + 1)); base != 0 {
			if pos != 0 {
				return Number{}, 0, errors.New("sign not allowed before base prefix")
			}
			return scanBased(src, 2, base)
		}
	}

	// Decimal: digits ["." digits] [exponent].
	start := pos
	for isDigit(at(pos)) {
		pos++
	}
	intEnd := pos
	ndig := intEnd - start

	var isFloat, nonzero bool
	for i := start; i < intEnd; i++ {
		if src.At(i) != '0' {
			nonzero = true
			break
		}
	}
	if at(pos) == '.' {
		pos++
		fstart := pos
		for isDigit(at(pos)) {
			if src.At(pos) != '0' {
				isFloat, nonzero = true, true
			}
			pos++
		}
		ndig += pos - fstart
	}
	if ndig == 0 {
		return Number{}, start, errors.New("invalid number")
	}
	if c := at(pos); c == 'e' || c == 'E' {
		isFloat = true
		pos++
		if c := at(pos); c == '+' || c == '-' {
			pos++
		}
		if !isDigit(at(pos)) {
			return Number{}, pos, errors.New("missing exponent digits")
		}
		for isDigit(at(pos)) {
			pos++
		}
	}
	if !isFloat {
		n, err := decimalInt(src.Slice(start, intEnd), positive)
		if err == nil {
			return n, pos, nil
		} else if !errors.Is(err, errTooManyDigits) {
			return Number{}, start, err
		}
		// Fall back to floating point for very long integers.
	}

	f, err := strconv.ParseFloat(src.SliceTo(pos).StringCopy(), 64)
	if math.IsInf(f, 0) {
		return Number{}, start, errors.New("magnitude too large")
	} else if err != nil {
		return Number{}, start, err
	} else if f == 0 && nonzero {
		return Number{}, start, errors.New("magnitude too small")
	}
	return Number{Kind: Floating, Float: f, Positive: positive}, pos, nil
}

var errTooManyDigits = errors.New("too many digits")

// decimalInt parses a run of decimal digits as an integer with the given
// sign, checking for overflow at each digit.
func decimalInt(digits mem.RO, positive bool) (Number, error) {
	var v uint64
	sig := 0
	for i := 0; i < digits.Len(); i++ {
		d := uint64(digits.At(i) - '0')
		if sig > 0 || d != 0 {
			sig++
		}
		if v > (math.MaxUint64-d)/10 {
			sig += digits.Len() - i - 1
			if sig > maxDecimalDigits {
				return Number{}, errTooManyDigits
			}
			return Number{}, errors.New("integer overflow")
		}
		v = v*10 + d
	}
	if sig > maxDecimalDigits {
		return Number{}, errTooManyDigits
	}
	return makeInt(v, positive)
}

// scanBased parses the digits of a hexadecimal, octal, or binary literal
// beginning at pos in src.
func scanBased(src mem.RO, pos int, base uint) (Number, int, error) {
	shift := uint(bits(base))
	var v uint64
	start := pos
	for pos < src.Len() {
		d, ok := digitValue(src.At(pos))
		if !ok {
			break
		} else if d >= base {
			return Number{}, pos, fmt.Errorf("invalid digit %q for base %d", src.At(pos), base)
		}
		if v>>(64-shift) != 0 {
			return Number{}, start, fmt.Errorf("base %d integer overflow", base)
		}
		v = v<<shift | uint64(d)
		pos++
	}
	if pos == start {
		return Number{}, pos, fmt.Errorf("missing base %d digits", base)
	}
	n, err := makeInt(v, true)
	return n, pos, err
}

// makeInt constructs an integer Number from a magnitude and a sign.
func makeInt(v uint64, positive bool) (Number, error) {
	if !positive {
		if v > 1<<63 {
			return Number{}, errors.New("integer overflow")
		}
		s := -int64(v)
		return Number{Kind: Signed, Int: s, Uint: uint64(s), Float: float64(s)}, nil
	}
	n := Number{Int: int64(v), Uint: v, Float: float64(v), Positive: true}
	if v > math.MaxInt64 {
		n.Kind = Unsigned
	} else {
		n.Kind = Signed
	}
	return n, nil
}

func prefixBase(c byte) uint {
	switch c {
	case 'x':
		return 16
	case 'o':
		return 8
	case 'b':
		return 2
	}
	return 0
}

func bits(base uint) int {
	switch base {
	case 16:
		return 4
	case 8:
		return 3
	default:
		return 1
	}
}

// digitValue reports the value of an alphanumeric digit in bases up to 16.
// Other letters report a value of 16 so the caller can reject them.
func digitValue(c byte) (uint, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return uint(c-'A') + 10, true
	case isNameByte(c):
		return 16, true
	}
	return 0, false
}

func signOf(positive bool) int {
	if positive {
		return 1
	}
	return -1
}

// appendFloat appends the shortest text that parses back to f, marking it as
// floating point with a trailing ".0" when it would otherwise look like an
// integer. All NaN values are written as "nan".
func appendFloat(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "nan"...)
	case math.IsInf(f, 1):
		return append(dst, "inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-inf"...)
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// Clean up e-09 to e-9.
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
		return dst
	}
	if mem.IndexByte(mem.B(dst[start:]), '.') < 0 {
		dst = append(dst, '.', '0')
	}
	return dst
}

// appendBased appends the magnitude of v in the given base with its prefix.
func appendBased(dst []byte, v uint64, base int) []byte {
	switch base {
	case 16:
		dst = append(dst, '0', 'x')
	case 8:
		dst = append(dst, '0', 'o')
	case 2:
		dst = append(dst, '0', 'b')
	}
	return strconv.AppendUint(dst, v, base)
}
