// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Path follows a sequence of path elements from v, as described for
// Cursor.Down, and returns the value reached. In case of error, Path returns
// v along with the error.
func Path(v Value, path ...any) (Value, error) {
	c := NewCursor(v).Down(path...)
	if err := c.Err(); err != nil {
		return v, err
	}
	return c.Value(), nil
}

// Get follows path from v as Path does, and reports an error unless the
// value reached has type T.
func Get[T Value](v Value, path ...any) (T, error) {
	var zero T
	got, err := Path(v, path...)
	if err != nil {
		return zero, err
	}
	t, ok := got.(T)
	if !ok {
		return zero, fmt.Errorf("value at %s is %T, not %T", formatTrail(path), got, zero)
	}
	return t, nil
}

// A Cursor tracks a position inside a tree of values. Each step taken from
// the root is recorded, so that the cursor can move back up and can report
// where it is.
type Cursor struct {
	root  Value
	steps []step
	err   error
}

// A step records one move of a cursor: the element that selected a value,
// and the value selected.
type step struct {
	elt any // string key, int index, or nil for a function step
	val Value
}

// NewCursor returns a cursor positioned at root.
func NewCursor(root Value) *Cursor { return &Cursor{root: root} }

// Value returns the value at the current position.
func (c *Cursor) Value() Value {
	if len(c.steps) == 0 {
		return c.root
	}
	return c.steps[len(c.steps)-1].val
}

// Depth reports the number of steps between the root and the current
// position.
func (c *Cursor) Depth() int { return len(c.steps) }

// Trail returns the keys and indexes that lead from the root to the current
// position. Negative indexes are reported as the offsets they resolved to.
// A function step is reported as nil.
func (c *Cursor) Trail() []any {
	out := make([]any, len(c.steps))
	for i, s := range c.steps {
		out[i] = s.elt
	}
	return out
}

// String renders the trail of c, for example $["list"][0]["x"].
func (c *Cursor) String() string { return formatTrail(c.Trail()) }

// Err reports the error from the latest call to Down, or nil.
func (c *Cursor) Err() error { return c.err }

// Up moves c to the parent of the current position. At the root, Up does
// nothing. It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.steps); n != 0 {
		c.steps = c.steps[:n-1]
	}
	return c
}

// Reset moves c back to the root and clears its error. It returns c to permit
// chaining.
func (c *Cursor) Reset() *Cursor {
	c.steps = c.steps[:0]
	c.err = nil
	return c
}

// Down moves c along path, one element at a time:
//
//   - A string selects the value of the first member of an object with that
//     key.
//   - An int selects an element of an array, or the value of a member of an
//     object by position. Negative offsets count from the end (-1 is last).
//   - A func(value.Value) (value.Value, error) replaces the current value
//     with its result.
//
// If an element cannot be applied, c stays at the last position reached and
// Err reports why. It returns c to permit chaining.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	for _, elt := range path {
		next, norm, err := c.apply(elt)
		if err != nil {
			c.err = fmt.Errorf("at %s: %w", c, err)
			break
		}
		c.steps = append(c.steps, step{elt: norm, val: next})
	}
	return c
}

// apply resolves one path element against the current value, and returns
// the value selected along with the normalized element.
func (c *Cursor) apply(elt any) (Value, any, error) {
	cur := c.Value()
	switch t := elt.(type) {
	case string:
		o, ok := cur.(*Object)
		if !ok {
			return nil, nil, fmt.Errorf("cannot select key %q from %s", t, kindName(cur))
		}
		m := o.Find(t)
		if m == nil {
			return nil, nil, fmt.Errorf("key %q not found", t)
		}
		return m.Value, t, nil

	case int:
		var n int
		switch v := cur.(type) {
		case *Array:
			n = len(v.Values)
		case *Object:
			n = len(v.Members)
		default:
			return nil, nil, fmt.Errorf("cannot index %s", kindName(cur))
		}
		i := t
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return nil, nil, fmt.Errorf("index %d out of range for length %d", t, n)
		}
		if a, ok := cur.(*Array); ok {
			return a.Values[i], i, nil
		}
		return cur.(*Object).Members[i].Value, i, nil

	case func(Value) (Value, error):
		next, err := t(cur)
		if err != nil {
			return nil, nil, err
		}
		return next, nil, nil
	}
	return nil, nil, fmt.Errorf("invalid path element %T", elt)
}

// kindName describes the type of v for error messages.
func kindName(v Value) string {
	switch v.(type) {
	case *Object:
		return "object"
	case *Array:
		return "array"
	case *String:
		return "string"
	case *Number:
		return "number"
	case *Bool:
		return "bool"
	case *Null:
		return "null"
	case *Date:
		return "date"
	case *Time:
		return "time"
	case *Datetime:
		return "datetime"
	case nil:
		return "nothing"
	}
	return fmt.Sprintf("%T", v)
}

func formatTrail(trail []any) string {
	var sb strings.Builder
	sb.WriteByte('$')
	for _, elt := range trail {
		switch t := elt.(type) {
		case string:
			sb.WriteString("[" + strconv.Quote(t) + "]")
		case int:
			sb.WriteString("[" + strconv.Itoa(t) + "]")
		default:
			sb.WriteString("(func)")
		}
	}
	return sb.String()
}
