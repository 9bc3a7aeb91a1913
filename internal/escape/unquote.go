// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of QCON strings.
package escape

import (
	"errors"
	"fmt"

	"go4.org/mem"
)

// Errors reported while decoding string contents.
var (
	ErrUnterminated = errors.New("unterminated string")
	ErrIncomplete   = errors.New("incomplete escape sequence")
)

// MaxCodePoint is the exclusive upper bound of code points that may be
// written with a \x, \u, or \U escape.
const MaxCodePoint = 1 << 21

// Unquote decodes a byte slice containing the body of a single QCON string
// segment. The input must have the enclosing double quotation marks already
// removed.
//
// Escape sequences are replaced with their unescaped equivalents. Unlike
// JSON, an invalid escape is an error rather than a replacement rune.
func Unquote(src mem.RO) ([]byte, error) {
	dec, _, err := unquote(make([]byte, 0, src.Len()), src, false)
	return dec, err
}

// AppendUnquoted decodes a quoted string segment from the front of src, which
// must begin just after the opening quotation mark, and appends the decoded
// text to dst. It returns the updated slice and the number of bytes of src
// consumed including the closing quotation mark. In case of error, the offset
// reports where in src the problem was found.
func AppendUnquoted(dst []byte, src mem.RO) ([]byte, int, error) {
	return unquote(dst, src, true)
}

func unquote(dst []byte, src mem.RO, closed bool) ([]byte, int, error) {
	i := 0
	for {
		start := i
		for i < src.Len() {
			if b := src.At(i); b == '"' || b == '\\' || IsControl(b) {
				break
			}
			i++
		}
		dst = mem.Append(dst, src.Slice(start, i))
		if i == src.Len() {
			if closed {
				return dst, i, ErrUnterminated
			}
			return dst, i, nil
		}

		switch b := src.At(i); b {
		case '"':
			if closed {
				return dst, i + 1, nil
			}
			return dst, i, errors.New("unescaped quotation mark")
		case '\\':
			var n int
			var err error
			dst, n, err = unescape(dst, src.SliceFrom(i+1))
			if err != nil {
				return dst, i, err
			}
			i += n + 1
		default:
			return dst, i, fmt.Errorf("unescaped control %q", b)
		}
	}
}

// unescape decodes the escape sequence at the front of src, which begins just
// after the backslash. It reports the number of bytes consumed.
func unescape(dst []byte, src mem.RO) ([]byte, int, error) {
	if src.Len() == 0 {
		return dst, 0, ErrIncomplete
	}
	switch c := src.At(0); c {
	case '"', '\\', '/':
		return append(dst, c), 1, nil
	case '0':
		return append(dst, 0), 1, nil
	case 'a':
		return append(dst, '\a'), 1, nil
	case 'b':
		return append(dst, '\b'), 1, nil
	case 't':
		return append(dst, '\t'), 1, nil
	case 'n':
		return append(dst, '\n'), 1, nil
	case 'v':
		return append(dst, '\v'), 1, nil
	case 'f':
		return append(dst, '\f'), 1, nil
	case 'r':
		return append(dst, '\r'), 1, nil

	case '\n': // line continuation
		return dst, 1, nil
	case '\r':
		if src.Len() > 1 && src.At(1) == '\n' {
			return dst, 2, nil
		}
		return dst, 1, nil

	case 'x':
		return appendHexEscape(dst, src.SliceFrom(1), 2)
	case 'u':
		return appendHexEscape(dst, src.SliceFrom(1), 4)
	case 'U':
		return appendHexEscape(dst, src.SliceFrom(1), 8)
	default:
		return dst, 0, fmt.Errorf("invalid escape %q", c)
	}
}

func appendHexEscape(dst []byte, src mem.RO, n int) ([]byte, int, error) {
	if src.Len() < n {
		return dst, 0, errors.New("incomplete code point")
	}
	cp, err := parseHex(src.SliceTo(n))
	if err != nil {
		return dst, 0, fmt.Errorf("invalid code point: %w", err)
	} else if cp >= MaxCodePoint {
		return dst, 0, fmt.Errorf("code point %#x out of range", cp)
	}
	return AppendCodePoint(dst, uint32(cp)), n + 1, nil
}

// AppendCodePoint appends the UTF-8 encoding of cp to dst. Code points up to
// MaxCodePoint are encoded in at most four bytes; surrogates and values above
// the Unicode range are encoded as-is rather than replaced.
func AppendCodePoint(dst []byte, cp uint32) []byte {
	switch {
	case cp < 0x80:
		return append(dst, byte(cp))
	case cp < 0x800:
		return append(dst, 0xc0|byte(cp>>6), 0x80|byte(cp&0x3f))
	case cp < 0x10000:
		return append(dst, 0xe0|byte(cp>>12), 0x80|byte(cp>>6&0x3f), 0x80|byte(cp&0x3f))
	default:
		return append(dst, 0xf0|byte(cp>>18&0x07), 0x80|byte(cp>>12&0x3f),
			0x80|byte(cp>>6&0x3f), 0x80|byte(cp&0x3f))
	}
}

// IsControl reports whether b is a control byte that may not appear
// unescaped inside a string.
func IsControl(b byte) bool { return b < ' ' || b == 0x7f }

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
