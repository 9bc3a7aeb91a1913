// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package qcon

import (
	"errors"
	"strings"

	"github.com/creachadair/qcon/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a QCON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.AppendQuoted(nil, mem.S(src))) }

// Unquote decodes a single QCON string segment. Double quotation marks are
// removed, and escape sequences are replaced with their unescaped
// equivalents. Unquote reports an error for an invalid or incomplete escape
// sequence.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.S(src[1 : len(src)-1]))
}
