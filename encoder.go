// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package qcon

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/creachadair/qcon/chrono"
	"github.com/creachadair/qcon/internal/escape"
	"go4.org/mem"
)

// Base selects the radix used to format an integer.
type Base byte

// Constants defining the valid Base values.
const (
	Decimal Base = iota
	Hex
	Octal
	Binary
)

func (b Base) radix() int {
	switch b {
	case Hex:
		return 16
	case Octal:
		return 8
	case Binary:
		return 2
	default:
		return 10
	}
}

// An Encoder writes QCON text from a sequence of calls, one per syntactic
// unit. The zero value is ready for use, and formats multiline output with
// four spaces of indentation.
//
// The emitting methods return the Encoder itself, so calls may be chained:
//
//	var e qcon.Encoder
//	e.Object().Key("name").Str("value").End()
//	text, err := e.Finish()
//
// The first invalid call puts the Encoder into an error state, after which
// all further calls have no effect until Finish or Reset.
type Encoder struct {
	// Style is the density of the outermost container. Nested containers are
	// never less compact than their parents.
	Style Density

	// Indent is the text written per level of nesting in multiline scopes.
	// It must consist only of spaces and tabs. If empty, four spaces are used.
	Indent string

	buf    []byte
	scopes []scope
	roots  int
	err    error

	flags   flagSet
	density Density
	base    Base
	zone    chrono.ZoneKind
}

type scope struct {
	kind    Kind
	density Density
	count   int  // elements written
	key     bool // a key has been written and its value is pending
	end     int  // offset in buf just past the last element
	content bool // any element or comment has been written
}

type flagSet byte

const (
	densityFlag flagSet = 1 << iota
	baseFlag
	zoneFlag
)

// WithDensity sets the density of the next container. The flag must be
// followed by a call to Object or Array.
func (e *Encoder) WithDensity(d Density) *Encoder {
	if e.setFlag(densityFlag, "density") {
		e.density = d
	}
	return e
}

// WithBase sets the base of the next integer. The flag must be followed by a
// call to Int or Uint.
func (e *Encoder) WithBase(b Base) *Encoder {
	if e.setFlag(baseFlag, "base") {
		e.base = b
	}
	return e
}

// WithZone sets how the next time point renders its zone. The flag must be
// followed by a call to Timepoint.
func (e *Encoder) WithZone(k chrono.ZoneKind) *Encoder {
	if e.setFlag(zoneFlag, "zone") {
		e.zone = k
	}
	return e
}

func (e *Encoder) setFlag(f flagSet, name string) bool {
	if e.err != nil {
		return false
	} else if e.flags&f != 0 {
		e.fail("duplicate %s flag", name)
		return false
	}
	e.flags |= f
	return true
}

// Status reports whether all calls to e so far have been valid.
func (e *Encoder) Status() bool { return e.err == nil }

// Err reports the first error encountered by e, or nil.
func (e *Encoder) Err() error { return e.err }

// Reset discards all output and errors, returning e to its initial state.
// The configuration fields of e are not changed.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
	e.scopes = e.scopes[:0]
	e.roots = 0
	e.err = nil
	e.flags = 0
}

// Finish returns the completed text, provided all calls were valid and
// exactly one complete value was written. Finish resets e in either case.
func (e *Encoder) Finish() (string, error) {
	defer e.Reset()
	switch {
	case e.err != nil:
		return "", e.err
	case len(e.scopes) != 0:
		return "", fmt.Errorf("encode: %d unclosed containers", len(e.scopes))
	case e.roots == 0:
		return "", errors.New("encode: no value")
	case e.flags != 0:
		return "", errors.New("encode: unused flag at end of input")
	}
	return string(e.buf), nil
}

// Object begins a new object.
func (e *Encoder) Object() *Encoder { return e.open(Object) }

// Array begins a new array.
func (e *Encoder) Array() *Encoder { return e.open(Array) }

func (e *Encoder) open(k Kind) *Encoder {
	if !e.begin(k.String(), densityFlag) {
		return e
	} else if len(e.scopes) == MaxDepth {
		return e.fail("nesting depth exceeds %d", MaxDepth)
	}
	want := Multiline
	if e.flags&densityFlag != 0 {
		want = e.density
		e.flags &^= densityFlag
	}
	e.buf = append(e.buf, k.opener())
	e.scopes = append(e.scopes, scope{kind: k, density: max(e.scopeDensity(), want)})
	return e
}

// End closes the innermost open container.
func (e *Encoder) End() *Encoder {
	if !e.check("end", 0) {
		return e
	} else if len(e.scopes) == 0 {
		return e.fail("end without open container")
	}
	s := e.scopes[len(e.scopes)-1]
	if s.key {
		return e.fail("missing value for object key")
	}
	e.scopes = e.scopes[:len(e.scopes)-1]
	if s.content {
		switch s.density {
		case Multiline:
			e.newline(len(e.scopes))
		case Uniline:
			e.buf = append(e.buf, ' ')
		}
	}
	e.buf = append(e.buf, s.kind.closer())
	e.complete()
	return e
}

// Key writes an object key. It must be followed by a value.
func (e *Encoder) Key(key string) *Encoder {
	if !e.check("key", 0) {
		return e
	} else if len(e.scopes) == 0 || e.scopes[len(e.scopes)-1].kind != Object {
		return e.fail("key outside object")
	}
	s := &e.scopes[len(e.scopes)-1]
	if s.key {
		return e.fail("missing value for object key")
	}
	e.separate(s)
	e.buf = escape.AppendQuoted(e.buf, mem.S(key))
	if s.density == Nospace {
		e.buf = append(e.buf, ':')
	} else {
		e.buf = append(e.buf, ':', ' ')
	}
	s.key = true
	return e
}

// Str writes a string value. In a multiline scope, a string containing line
// breaks is split into adjacent segments, one per line.
func (e *Encoder) Str(s string) *Encoder {
	if !e.begin("string", 0) {
		return e
	}
	lines := splitLines(s)
	if len(lines) < 2 || e.scopeDensity() != Multiline {
		e.buf = escape.AppendQuoted(e.buf, mem.S(s))
		e.complete()
		return e
	}
	// Continuation lines repeat the indentation of the current line, then pad
	// with spaces to the column of the opening quote.
	cur := e.buf[bytes.LastIndexByte(e.buf, '\n')+1:]
	lead := cur[:len(cur)-len(bytes.TrimLeft(cur, " \t"))]
	pad := string(lead) + strings.Repeat(" ", len(cur)-len(lead))
	for i, line := range lines {
		if i > 0 {
			e.buf = append(e.buf, '\n')
			e.buf = append(e.buf, pad...)
		}
		e.buf = escape.AppendQuoted(e.buf, mem.S(line))
	}
	e.complete()
	return e
}

// splitLines splits s after each newline. A trailing newline does not begin
// a new line.
func splitLines(s string) []string {
	var out []string
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || i == len(s)-1 {
			return append(out, s)
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
	}
}

// Int writes a signed integer value. A base other than Decimal may not be
// used for a negative value.
func (e *Encoder) Int(v int64) *Encoder {
	if !e.begin("integer", baseFlag) {
		return e
	}
	base := e.takeBase()
	if base != Decimal && v < 0 {
		return e.fail("negative integer %d in base %d", v, base.radix())
	} else if base == Decimal {
		e.buf = strconv.AppendInt(e.buf, v, 10)
	} else {
		e.buf = appendBased(e.buf, uint64(v), base.radix())
	}
	e.complete()
	return e
}

// Uint writes an unsigned integer value.
func (e *Encoder) Uint(v uint64) *Encoder {
	if !e.begin("integer", baseFlag) {
		return e
	}
	if base := e.takeBase(); base == Decimal {
		e.buf = strconv.AppendUint(e.buf, v, 10)
	} else {
		e.buf = appendBased(e.buf, v, base.radix())
	}
	e.complete()
	return e
}

func (e *Encoder) takeBase() Base {
	if e.flags&baseFlag == 0 {
		return Decimal
	}
	e.flags &^= baseFlag
	return e.base
}

// Float writes a floating-point value. The text always parses as a float:
// integral values have a ".0" suffix, and the special values are written as
// inf, -inf, and nan.
func (e *Encoder) Float(f float64) *Encoder {
	if e.begin("float", 0) {
		e.buf = appendFloat(e.buf, f)
		e.complete()
	}
	return e
}

// Bool writes a Boolean value.
func (e *Encoder) Bool(b bool) *Encoder {
	if e.begin("bool", 0) {
		e.buf = strconv.AppendBool(e.buf, b)
		e.complete()
	}
	return e
}

// Null writes a null value.
func (e *Encoder) Null() *Encoder {
	if e.begin("null", 0) {
		e.buf = append(e.buf, "null"...)
		e.complete()
	}
	return e
}

// Date writes a date value. It is an error if d is not a valid date.
func (e *Encoder) Date(d chrono.Date) *Encoder {
	if !e.begin("date", 0) {
		return e
	} else if err := d.Check(); err != nil {
		return e.fail("invalid date: %v", err)
	}
	e.buf = chrono.AppendDate(append(e.buf, 'D'), d)
	e.complete()
	return e
}

// Time writes a time value. It is an error if t is not a valid time.
func (e *Encoder) Time(t chrono.Time) *Encoder {
	if !e.begin("time", 0) {
		return e
	} else if err := t.Check(); err != nil {
		return e.fail("invalid time: %v", err)
	}
	e.buf = chrono.AppendTime(append(e.buf, 'T'), t)
	e.complete()
	return e
}

// Datetime writes a datetime value. It is an error if dt is not valid.
func (e *Encoder) Datetime(dt chrono.Datetime) *Encoder {
	if !e.begin("datetime", 0) {
		return e
	}
	return e.datetime(dt)
}

func (e *Encoder) datetime(dt chrono.Datetime) *Encoder {
	if err := dt.Check(); err != nil {
		return e.fail("invalid datetime: %v", err)
	}
	e.buf = chrono.AppendDatetime(append(e.buf, 'D'), dt)
	e.complete()
	return e
}

// Timepoint writes t as a datetime. By default the zone is written as the
// fixed offset of t; use WithZone to select another rendering.
func (e *Encoder) Timepoint(t time.Time) *Encoder {
	if !e.begin("datetime", zoneFlag) {
		return e
	}
	kind := chrono.Offset
	if e.flags&zoneFlag != 0 {
		kind = e.zone
		e.flags &^= zoneFlag
	}
	dt, err := chrono.FromInstant(t, kind)
	if err != nil {
		return e.fail("invalid time point: %v", err)
	}
	return e.datetime(dt)
}

// Comment writes a "#" comment, one line per line of text. Comments are
// permitted outside the root value, and anywhere a new element may begin
// in a multiline container.
func (e *Encoder) Comment(text string) *Encoder {
	if !e.check("comment", 0) {
		return e
	}
	lines := strings.Split(text, "\n")
	if len(e.scopes) == 0 {
		for i, line := range lines {
			if e.roots != 0 || i > 0 {
				e.buf = append(e.buf, '\n')
			}
			e.buf = appendComment(e.buf, line)
		}
		if e.roots == 0 {
			e.buf = append(e.buf, '\n')
		}
		return e
	}
	s := &e.scopes[len(e.scopes)-1]
	if s.density != Multiline {
		return e.fail("comment in %v %v", s.density, s.kind)
	} else if s.key {
		return e.fail("comment between key and value")
	}
	for _, line := range lines {
		e.newline(len(e.scopes))
		e.buf = appendComment(e.buf, line)
	}
	s.content = true
	return e
}

func appendComment(dst []byte, line string) []byte {
	if line == "" {
		return append(dst, '#')
	}
	return append(append(dst, '#', ' '), line...)
}

// begin checks that a value may be written, and writes the separator that
// precedes it.
func (e *Encoder) begin(what string, accept flagSet) bool {
	if !e.check(what, accept) {
		return false
	}
	if len(e.scopes) == 0 {
		if e.roots != 0 {
			e.fail("multiple root values")
			return false
		}
		return true
	}
	s := &e.scopes[len(e.scopes)-1]
	if s.kind == Object {
		if !s.key {
			e.fail("missing key for %s in object", what)
			return false
		}
		return true
	}
	e.separate(s)
	return true
}

// check reports whether e may accept a call, failing if a pending flag does
// not apply to it.
func (e *Encoder) check(what string, accept flagSet) bool {
	if e.err != nil {
		return false
	} else if extra := e.flags &^ accept; extra != 0 {
		e.fail("%s flag does not apply to %s", extra, what)
		return false
	}
	return true
}

// separate writes the comma and spacing preceding a new element of s. The
// comma follows the previous element directly, ahead of any comments written
// since.
func (e *Encoder) separate(s *scope) {
	if s.count != 0 {
		e.buf = slices.Insert(e.buf, s.end, ',')
	}
	switch s.density {
	case Multiline:
		e.newline(len(e.scopes))
	case Uniline:
		e.buf = append(e.buf, ' ')
	}
	s.count++
	s.content = true
}

// complete records the end of a value.
func (e *Encoder) complete() {
	if len(e.scopes) == 0 {
		e.roots++
	} else {
		s := &e.scopes[len(e.scopes)-1]
		s.key = false
		s.end = len(e.buf)
	}
}

// newline writes a line break followed by depth levels of indentation.
func (e *Encoder) newline(depth int) {
	indent := e.Indent
	if indent == "" {
		indent = "    "
	} else if strings.Trim(indent, " \t") != "" {
		e.fail("invalid indentation %q", indent)
		return
	}
	e.buf = append(e.buf, '\n')
	for range depth {
		e.buf = append(e.buf, indent...)
	}
}

// scopeDensity reports the density of the innermost scope.
func (e *Encoder) scopeDensity() Density {
	if len(e.scopes) == 0 {
		return e.Style
	}
	return e.scopes[len(e.scopes)-1].density
}

func (e *Encoder) fail(msg string, args ...any) *Encoder {
	if e.err == nil {
		e.err = fmt.Errorf("encode: "+msg, args...)
	}
	return e
}

func (f flagSet) String() string {
	var names []string
	if f&densityFlag != 0 {
		names = append(names, "density")
	}
	if f&baseFlag != 0 {
		names = append(names, "base")
	}
	if f&zoneFlag != 0 {
		names = append(names, "zone")
	}
	return strings.Join(names, "+")
}
