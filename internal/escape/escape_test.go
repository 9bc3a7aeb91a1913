// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"errors"
	"testing"

	"github.com/creachadair/qcon/internal/escape"
	"github.com/google/go-cmp/cmp"
	"go4.org/mem"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, false},
		{`ok go`, "ok go", false},
		{`abc\ndef`, "abc\ndef", false},
		{`\0\a\b\t\n\v\f\r`, "\x00\a\b\t\n\v\f\r", false},
		{`a\"b\\c\/d`, `a"b\c/d`, false},
		{`\x41é\U0001F600`, "Aé\U0001F600", false},
		{`\x7f`, "\x7f", false},
		{"line\\\ncontinued", "linecontinued", false},
		{"line\\\r\ncontinued", "linecontinued", false},
		{`\U001FFFFF`, "\xf7\xbf\xbf\xbf", false},

		{`\`, ``, true},             // incomplete escape
		{`\q`, ``, true},            // unknown escape
		{`\x4`, ``, true},           // incomplete code point
		{`\u00g0`, ``, true},        // invalid hex digit
		{`\U00200000`, ``, true},    // code point too large
		{"tab\there", ``, true},    // unescaped control
		{"del\x7f", ``, true},      // unescaped control
		{`stray " quote`, ``, true}, // quote inside body
	}
	for _, test := range tests {
		got, err := escape.Unquote(mem.S(test.input))
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
			continue
		} else if test.fail {
			t.Errorf("Unquote(%#q): got %#q, want error", test.input, got)
			continue
		}
		if diff := cmp.Diff(test.want, string(got)); diff != "" {
			t.Errorf("Unquote(%#q) (-want, +got):\n%s", test.input, diff)
		}
	}
}

func TestAppendUnquoted(t *testing.T) {
	tests := []struct {
		input string
		want  string
		n     int
		err   error
	}{
		{`"`, "", 1, nil},
		{`abc" tail`, "abc", 4, nil},
		{`a\"b" x`, `a"b`, 5, nil},
		{`abc`, "abc", 3, escape.ErrUnterminated},
		{`ab\`, "ab", 2, escape.ErrIncomplete},
	}
	for _, test := range tests {
		got, n, err := escape.AppendUnquoted([]byte("pfx:"), mem.S(test.input))
		if !errors.Is(err, test.err) {
			t.Errorf("AppendUnquoted(%#q): got error %v, want %v", test.input, err, test.err)
		}
		if n != test.n {
			t.Errorf("AppendUnquoted(%#q): consumed %d, want %d", test.input, n, test.n)
		}
		if want := "pfx:" + test.want; string(got) != want {
			t.Errorf("AppendUnquoted(%#q): got %#q, want %#q", test.input, got, want)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\x00\x01\x02", `"\0\x01\x02"`},
		{"\a\b\v\f\r\x1b\x7f", `"\a\b\v\f\r\x1b\x7f"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{"café \U0001F600", "\"café \U0001F600\""},
	}
	for _, test := range tests {
		got := string(escape.AppendQuoted(nil, mem.S(test.input)))
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}

		// Quoting and unquoting must round-trip.
		back, err := escape.Unquote(mem.S(got[1 : len(got)-1]))
		if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", got, err)
		} else if string(back) != test.input {
			t.Errorf("Round trip: got %#q, want %#q", back, test.input)
		}
	}
}

func TestAppendCodePoint(t *testing.T) {
	tests := []struct {
		cp   uint32
		want string
	}{
		{0x24, "$"},
		{0xa2, "¢"},
		{0x20ac, "€"},
		{0x10348, "\U00010348"},
		{0xd800, "\xed\xa0\x80"},
	}
	for _, test := range tests {
		if got := string(escape.AppendCodePoint(nil, test.cp)); got != test.want {
			t.Errorf("AppendCodePoint(%#x): got %#q, want %#q", test.cp, got, test.want)
		}
	}
}
