// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"github.com/creachadair/qcon"
)

// Decode decodes a single QCON value from src.
func Decode(src []byte) (Value, error) { return DecodeWith(qcon.NewDecoder(src)) }

// DecodeString decodes a single QCON value from s.
func DecodeString(s string) (Value, error) {
	d := qcon.NewDecoder(nil)
	d.LoadString(s)
	return DecodeWith(d)
}

// DecodeWith decodes a single QCON value from the remaining input of d. The
// caller may configure d before calling DecodeWith, for example to accept
// slash comments. In case of a syntax error, the returned error has type
// [*qcon.SyntaxError].
func DecodeWith(d *qcon.Decoder) (Value, error) {
	h := new(treeHandler)
	if err := qcon.Walk(d, h); err != nil {
		return nil, err
	}
	return h.root, nil
}

// A treeHandler implements the qcon.Handler interface to construct a tree of
// values. Open containers and members are held on an explicit stack, so the
// nesting of the input does not consume call stack.
type treeHandler struct {
	stk  []Value
	root Value
}

func (h *treeHandler) push(v Value) { h.stk = append(h.stk, v) }

func (h *treeHandler) pop() Value {
	last := h.stk[len(h.stk)-1]
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

// reduce attaches a completed value v to the innermost open container.
func (h *treeHandler) reduce(v Value) {
	if len(h.stk) == 0 {
		h.root = v
		return
	}
	switch prev := h.stk[len(h.stk)-1].(type) {
	case *Member:
		prev.Value = v
		prev.end = v.Span().End
		h.pop()
	case *Array:
		prev.Values = append(prev.Values, v)
	}
}

func (h *treeHandler) BeginObject(d *qcon.Decoder) error {
	h.push(&Object{datum: datum{pos: d.Span().Pos}})
	return nil
}

func (h *treeHandler) EndObject(d *qcon.Decoder) error {
	o := h.pop().(*Object)
	o.end = d.Span().End
	o.Density = d.Density()
	h.reduce(o)
	return nil
}

func (h *treeHandler) BeginArray(d *qcon.Decoder) error {
	h.push(&Array{datum: datum{pos: d.Span().Pos}})
	return nil
}

func (h *treeHandler) EndArray(d *qcon.Decoder) error {
	a := h.pop().(*Array)
	a.end = d.Span().End
	a.Density = d.Density()
	h.reduce(a)
	return nil
}

func (h *treeHandler) Key(d *qcon.Decoder) error {
	sp := d.Span()
	m := &Member{datum: datum{pos: sp.Pos, end: sp.End}, Key: d.Text()}
	o := h.stk[len(h.stk)-1].(*Object)
	o.Members = append(o.Members, m)
	h.push(m)
	return nil
}

func (h *treeHandler) Value(d *qcon.Decoder) error {
	sp := d.Span()
	loc := datum{pos: sp.Pos, end: sp.End}
	var v Value
	switch d.State() {
	case qcon.String:
		v = &String{datum: loc, Value: d.Text()}
	case qcon.Int, qcon.Float:
		v = &Number{datum: loc, Value: d.Number(), Base: baseOf(d.Raw())}
	case qcon.Bool:
		v = &Bool{datum: loc, Value: d.Bool()}
	case qcon.Null:
		v = &Null{datum: loc}
	case qcon.Date:
		v = &Date{datum: loc, Value: d.Date()}
	case qcon.Time:
		v = &Time{datum: loc, Value: d.Time()}
	case qcon.Datetime:
		v = &Datetime{datum: loc, Value: d.Datetime()}
	default:
		panic("unexpected value state " + d.State().String())
	}
	h.reduce(v)
	return nil
}

func (h *treeHandler) EndOfInput(*qcon.Decoder) {}

// baseOf reports the radix of the numeric literal text.
func baseOf(text string) qcon.Base {
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x':
			return qcon.Hex
		case 'o':
			return qcon.Octal
		case 'b':
			return qcon.Binary
		}
	}
	return qcon.Decimal
}
