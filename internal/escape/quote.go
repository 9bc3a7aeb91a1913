// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"go4.org/mem"
)

var controlEsc = [' ']byte{
	0x00: '0',
	'\a': 'a',
	'\b': 'b',
	'\t': 't',
	'\n': 'n',
	'\v': 'v',
	'\f': 'f',
	'\r': 'r',
}

var hexDigit = []byte("0123456789abcdef")

// Quote encodes a string to escape characters for inclusion in a QCON string.
// Double quotation marks are not added.
func Quote(src mem.RO) []byte {
	return AppendEscaped(make([]byte, 0, src.Len()), src)
}

// AppendQuoted appends the escaped contents of src to dst, enclosed in double
// quotation marks.
func AppendQuoted(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	dst = AppendEscaped(dst, src)
	return append(dst, '"')
}

// AppendEscaped appends the escaped contents of src to dst. Control bytes use
// their short escape if one exists, otherwise a \x escape. Bytes at or above
// utf8.RuneSelf are copied unchanged.
func AppendEscaped(dst []byte, src mem.RO) []byte {
	start := 0
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		if !IsControl(b) && b != '"' && b != '\\' {
			continue
		}
		dst = mem.Append(dst, src.Slice(start, i))
		start = i + 1

		switch {
		case b == '"' || b == '\\':
			dst = append(dst, '\\', b)
		case b < ' ' && controlEsc[b] != 0:
			dst = append(dst, '\\', controlEsc[b])
		default:
			dst = append(dst, '\\', 'x', hexDigit[b>>4], hexDigit[b&15])
		}
	}
	return mem.Append(dst, src.SliceFrom(start))
}
