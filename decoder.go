// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package qcon

import (
	"fmt"

	"github.com/creachadair/qcon/chrono"
	"github.com/creachadair/qcon/internal/escape"
	"go4.org/mem"
)

// A Decoder is a pull parser for QCON text. Each call to Step consumes one
// syntactic unit of the input and reports its State; the value of the unit
// is then available from the accessor methods matching that state.
//
// A Decoder holds the complete input in memory. It is not safe for
// concurrent use by multiple goroutines.
type Decoder struct {
	src   mem.RO
	pos   int
	state State
	err   *SyntaxError
	stack []frame
	tok   Span

	rootDone  bool // the root value is complete
	rootComma bool // a trailing comma followed the root value

	// Values of the current unit.
	text    []byte
	num     Number
	flag    bool
	dt      chrono.Datetime
	density Density // of the most recently closed container
	closed  Kind    // kind of the most recently closed container

	// Options.
	slash     bool
	bare      bool
	onComment func(text string, st State)
	comment   []string
}

// A frame records the decoding state of one open container.
type frame struct {
	kind    Kind
	density Density
	count   int  // elements begun so far
	comma   bool // a comma followed the last element
	value   bool // a key has been read and its value is pending
}

// narrow loosens the density of f as needed to admit the gap g.
func (f *frame) narrow(g gap) { f.density = min(f.density, g.density()) }

// NewDecoder constructs a Decoder that consumes src.
func NewDecoder(src []byte) *Decoder {
	d := new(Decoder)
	d.Load(src)
	return d
}

// Load discards all decoding state including any error, and resets d to
// consume src from the beginning. Options set on d are preserved.
func (d *Decoder) Load(src []byte) { d.reset(mem.B(src)) }

// LoadString is as Load, but consumes a string.
func (d *Decoder) LoadString(s string) { d.reset(mem.S(s)) }

func (d *Decoder) reset(src mem.RO) {
	d.src = src
	d.pos = 0
	d.state = Ready
	d.err = nil
	d.stack = d.stack[:0]
	d.tok = Span{}
	d.rootDone = false
	d.rootComma = false
	d.text = d.text[:0]
	d.num = Number{}
	d.flag = false
	d.dt = chrono.Datetime{}
	d.density = Multiline
	d.closed = 0
	d.comment = d.comment[:0]
}

// AllowSlashComments configures d to accept "//" line comments and "/* */"
// block comments (true) instead of "#" line comments (false).
func (d *Decoder) AllowSlashComments(ok bool) { d.slash = ok }

// AllowBareKeys configures d to accept (true) or reject (false) object keys
// written as unquoted identifiers.
func (d *Decoder) AllowBareKeys(ok bool) { d.bare = ok }

// HandleComments installs f to receive the text of each comment, together
// with the decoder state when the comment was found. Consecutive line
// comments are delivered as a single text joined by newlines. If f == nil,
// comments are discarded.
func (d *Decoder) HandleComments(f func(text string, st State)) { d.onComment = f }

// State reports the state of the most recent call to Step.
func (d *Decoder) State() State { return d.state }

// Err reports the error that stopped decoding, or nil. A non-nil error has
// concrete type *SyntaxError.
func (d *Decoder) Err() error {
	if d.err == nil {
		return nil
	}
	return d.err
}

// Closed reports the kind of the container most recently closed, or 0 if
// none has been closed.
func (d *Decoder) Closed() Kind { return d.closed }

// Depth reports the number of containers currently open.
func (d *Decoder) Depth() int { return len(d.stack) }

// Span reports the span of input consumed by the current unit.
func (d *Decoder) Span() Span { return d.tok }

// Location reports the complete location of the current unit.
func (d *Decoder) Location() Location {
	return Location{
		Span:  d.tok,
		First: lineColAt(d.src, d.tok.Pos),
		Last:  lineColAt(d.src, d.tok.End),
	}
}

// Text returns the decoded text of the current Key or String.
func (d *Decoder) Text() string { return string(d.text) }

// Bytes returns the decoded text of the current Key or String. The slice is
// only valid until the next call to Step.
func (d *Decoder) Bytes() []byte { return d.text }

// Raw returns a copy of the source text of the current unit.
func (d *Decoder) Raw() string { return d.src.Slice(d.tok.Pos, d.tok.End).StringCopy() }

// Number returns the value of the current Int or Float.
func (d *Decoder) Number() Number { return d.num }

// Int returns the current Int as an int64. If the value is only
// representable as a uint64, the result has the same bits.
func (d *Decoder) Int() int64 { return d.num.Int }

// Uint returns the current Int as a uint64.
func (d *Decoder) Uint() uint64 { return d.num.Uint }

// Float returns the current Float, or the current Int converted to float64.
func (d *Decoder) Float() float64 { return d.num.Float }

// Positive reports whether the current number was written without a minus
// sign.
func (d *Decoder) Positive() bool { return d.num.Positive }

// Bool returns the value of the current Bool.
func (d *Decoder) Bool() bool { return d.flag }

// Date returns the date of the current Date or Datetime.
func (d *Decoder) Date() chrono.Date { return d.dt.Date }

// Time returns the time of the current Time or Datetime.
func (d *Decoder) Time() chrono.Time { return d.dt.Time }

// Datetime returns the value of the current Datetime.
func (d *Decoder) Datetime() chrono.Datetime { return d.dt }

// Density reports the density inferred for a container. After End, it
// reports the density of the container just closed; otherwise it reports
// the density observed so far in the innermost open container.
//
// The inferred density is the loosest one consistent with every run of
// whitespace and comments directly inside the container: any line break
// makes it Multiline, otherwise any space makes it Uniline. A container with
// no whitespace at all, including an empty one, is Nospace.
func (d *Decoder) Density() Density {
	if d.state != End && len(d.stack) != 0 {
		return d.stack[len(d.stack)-1].density
	}
	return d.density
}

// Step consumes the next syntactic unit of the input and reports its state.
// Once Step reports Done or Error, further calls report the same state
// without consuming anything.
func (d *Decoder) Step() State {
	switch d.state {
	case Error, Done:
		return d.state
	}
	if len(d.stack) == 0 {
		return d.stepRoot()
	}

	g, err := d.skipSpace()
	if err != nil {
		return d.fail(d.pos, ErrLexical, err)
	}
	f := &d.stack[len(d.stack)-1]
	f.narrow(g)
	if f.value {
		f.value = false
		return d.value()
	}

	c := d.peek()
	if c == ',' {
		if f.count == 0 {
			return d.failf(d.pos, ErrStructure, "unexpected comma after %q", f.kind.opener())
		}
		d.pos++
		f.comma = true
		if g, err = d.skipSpace(); err != nil {
			return d.fail(d.pos, ErrLexical, err)
		}
		f.narrow(g)
		if d.peek() == ',' {
			return d.failf(d.pos, ErrStructure, "missing %v element between commas", f.kind)
		}
		c = d.peek()
	}
	if c == f.kind.closer() {
		return d.closeContainer()
	} else if f.count != 0 && !f.comma {
		if d.atEnd() {
			return d.failf(d.pos, ErrStructure, "unexpected end of input in %v", f.kind)
		}
		return d.failf(d.pos, ErrStructure, "missing comma after %v element", f.kind)
	}

	f.comma = false
	f.count++
	if f.kind == Object {
		return d.key()
	}
	return d.value()
}

// stepRoot handles a step outside any container.
func (d *Decoder) stepRoot() State {
	if _, err := d.skipSpace(); err != nil {
		return d.fail(d.pos, ErrLexical, err)
	}
	if !d.rootDone {
		if d.atEnd() {
			return d.failf(d.pos, ErrStructure, "unexpected end of input, expected value")
		}
		return d.value()
	}
	if d.peek() == ',' && !d.rootComma {
		d.pos++
		d.rootComma = true
		if _, err := d.skipSpace(); err != nil {
			return d.fail(d.pos, ErrLexical, err)
		}
	}
	if !d.atEnd() {
		return d.failf(d.pos, ErrStructure, "extraneous content after value")
	}
	d.tok = Span{Pos: d.pos, End: d.pos}
	d.state = Done
	return Done
}

// More reports whether the innermost open container has another element to
// decode. When the closing delimiter is next, More consumes it (so that State
// reports End) and returns false. Outside any container, More reports
// whether the root value is still pending; once it is complete, More checks
// that nothing but whitespace and comments follows.
//
// This allows loops of the form:
//
//	d.Step() // StartArray
//	for d.More() {
//	   // decode one element
//	}
func (d *Decoder) More() bool {
	switch d.state {
	case Error, Done:
		return false
	}
	if len(d.stack) == 0 {
		if !d.rootDone {
			return true
		}
		d.Step()
		return false
	}
	f := d.stack[len(d.stack)-1]
	if f.value {
		return true
	}
	pos := d.nextSignificant(d.pos)
	if d.peekAt(pos) == ',' && f.count != 0 {
		pos = d.nextSignificant(pos + 1)
	}
	if d.peekAt(pos) == f.kind.closer() {
		d.Step()
		return false
	}
	return true
}

// Finished reports whether the input held exactly one complete value
// followed only by whitespace and comments. It consumes any such trailing
// text.
func (d *Decoder) Finished() bool {
	if d.state != Error && d.state != Done && d.rootDone && len(d.stack) == 0 {
		d.Step()
	}
	return d.state == Done
}

func (d *Decoder) closeContainer() State {
	f := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	d.closed = f.kind
	d.density = f.density
	d.tok = Span{Pos: d.pos, End: d.pos + 1}
	d.pos++
	d.state = End
	if len(d.stack) == 0 {
		d.rootDone = true
	}
	return End
}

// key decodes an object key and the colon that follows it.
func (d *Decoder) key() State {
	start := d.pos
	switch c := d.peek(); {
	case c == '"':
		if err := d.scanString(); err != nil {
			return d.state
		}
	case d.bare && isNameStart(c):
		for isNameByte(d.peek()) {
			d.pos++
		}
		d.text = mem.Append(d.text[:0], d.src.Slice(start, d.pos))
	case d.atEnd():
		return d.failf(d.pos, ErrStructure, "unexpected end of input in object")
	default:
		return d.failf(d.pos, ErrStructure, "expected object key, got %q", c)
	}
	d.tok = Span{Pos: start, End: d.pos}
	d.state = Key

	g, err := d.skipSpace()
	if err != nil {
		return d.fail(d.pos, ErrLexical, err)
	}
	d.stack[len(d.stack)-1].narrow(g)
	if d.peek() != ':' {
		return d.failf(d.pos, ErrStructure, "missing colon after object key")
	}
	d.pos++
	d.stack[len(d.stack)-1].value = true
	return Key
}

// value decodes a value beginning at the current offset, which must not be
// whitespace.
func (d *Decoder) value() State {
	start := d.pos
	switch c := d.peek(); {
	case c == '{' || c == '[':
		if len(d.stack) == MaxDepth {
			return d.failf(d.pos, ErrStructure, "nesting depth exceeds %d", MaxDepth)
		}
		k, st := Object, StartObject
		if c == '[' {
			k, st = Array, StartArray
		}
		d.stack = append(d.stack, frame{kind: k, density: Nospace})
		d.pos++
		d.tok = Span{Pos: start, End: d.pos}
		d.state = st
		return st

	case c == '"':
		if err := d.scanString(); err != nil {
			return d.state
		}
		return d.scalar(String, start)

	case d.hasWord("true"):
		d.flag = true
		d.pos += len("true")
		return d.scalar(Bool, start)

	case d.hasWord("false"):
		d.flag = false
		d.pos += len("false")
		return d.scalar(Bool, start)

	case d.hasWord("null"):
		d.pos += len("null")
		return d.scalar(Null, start)

	case c == 'D':
		return d.scanTemporal(start)

	case c == 'T':
		t, n, err := chrono.ScanTime(d.src.SliceFrom(start + 1))
		if err != nil {
			return d.fail(start+1+n, ErrTemporal, err)
		}
		d.dt = chrono.Datetime{Time: t}
		d.pos = start + 1 + n
		return d.scalar(Time, start)

	case c == '+' || c == '-' || c == '.' || isDigit(c) || d.hasWord("inf") || d.hasWord("nan"):
		n, end, err := scanNumber(d.rest())
		if err != nil {
			return d.fail(start+end, ErrNumber, err)
		}
		d.num = n
		d.pos = start + end
		if n.Kind == Floating {
			return d.scalar(Float, start)
		}
		return d.scalar(Int, start)

	case d.atEnd():
		return d.failf(d.pos, ErrStructure, "unexpected end of input, expected value")
	case c == '}' || c == ']' || c == ',' || c == ':':
		return d.failf(d.pos, ErrStructure, "unexpected %q, expected value", c)
	default:
		return d.failf(d.pos, ErrLexical, "unknown value starting with %q", c)
	}
}

// scanTemporal decodes a date or datetime whose "D" sigil is at start.
func (d *Decoder) scanTemporal(start int) State {
	body := d.src.SliceFrom(start + 1)
	date, n, err := chrono.ScanDate(body)
	if err != nil {
		return d.fail(start+1+n, ErrTemporal, err)
	}
	if n < body.Len() && body.At(n) == 'T' {
		dt, n, err := chrono.ScanDatetime(body)
		if err != nil {
			return d.fail(start+1+n, ErrTemporal, err)
		}
		d.dt = dt
		d.pos = start + 1 + n
		return d.scalar(Datetime, start)
	}
	d.dt = chrono.Datetime{Date: date}
	d.pos = start + 1 + n
	return d.scalar(Date, start)
}

// scalar completes a non-container value of state st beginning at start.
func (d *Decoder) scalar(st State, start int) State {
	if c := d.peek(); isNameByte(c) {
		return d.failf(d.pos, ErrLexical, "invalid character %q after %v", c, st)
	}
	d.tok = Span{Pos: start, End: d.pos}
	d.state = st
	if len(d.stack) == 0 {
		d.rootDone = true
	}
	return st
}

// scanString decodes a string at the current offset into d.text. Adjacent
// quoted segments separated only by whitespace and comments are joined.
func (d *Decoder) scanString() error {
	d.text = d.text[:0]
	for {
		var n int
		var err error
		d.text, n, err = escape.AppendUnquoted(d.text, d.rest().SliceFrom(1))
		if err != nil {
			d.fail(d.pos+1+n, ErrLexical, err)
			return err
		}
		d.pos += 1 + n
		if next := d.nextSignificant(d.pos); d.peekAt(next) != '"' {
			return nil
		}
		if _, err := d.skipSpace(); err != nil {
			d.fail(d.pos, ErrLexical, err)
			return err
		}
	}
}

// fail records a sticky error at offset pos and returns Error.
func (d *Decoder) fail(pos int, kind, err error) State {
	d.err = &SyntaxError{
		Offset:   pos,
		Location: lineColAt(d.src, pos),
		Message:  err.Error(),
		err:      kind,
	}
	d.tok = Span{Pos: pos, End: pos}
	d.state = Error
	return Error
}

func (d *Decoder) failf(pos int, kind error, msg string, args ...any) State {
	return d.fail(pos, kind, fmt.Errorf(msg, args...))
}
