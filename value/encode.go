// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"fmt"

	"github.com/creachadair/qcon"
)

// Encode renders v to e. Containers are rendered with their recorded
// density, subject to the density of their enclosing scope. Errors are
// recorded by e, and reported by its Finish method.
func Encode(e *qcon.Encoder, v Value) {
	switch t := v.(type) {
	case *Object:
		e.WithDensity(t.Density).Object()
		for _, m := range t.Members {
			e.Key(m.Key)
			Encode(e, m.Value)
		}
		e.End()
	case *Member:
		Encode(e, t.Value)
	case *Array:
		e.WithDensity(t.Density).Array()
		for _, elt := range t.Values {
			Encode(e, elt)
		}
		e.End()
	case *String:
		e.Str(t.Value)
	case *Number:
		encodeNumber(e, t)
	case *Bool:
		e.Bool(t.Value)
	case *Null:
		e.Null()
	case *Date:
		e.Date(t.Value)
	case *Time:
		e.Time(t.Value)
	case *Datetime:
		e.Datetime(t.Value)
	default:
		panic(fmt.Sprintf("value.Encode: unsupported type %T", v))
	}
}

func encodeNumber(e *qcon.Encoder, n *Number) {
	if n.Base != qcon.Decimal && n.IsInt() && !isNegative(n.Value) {
		e.WithBase(n.Base)
	}
	switch n.Value.Kind {
	case qcon.Signed:
		e.Int(n.Value.Int)
	case qcon.Unsigned:
		e.Uint(n.Value.Uint)
	default:
		e.Float(n.Value.Float)
	}
}

// Format renders v as text in the given style, using the default indent.
func Format(v Value, style qcon.Density) (string, error) {
	e := qcon.Encoder{Style: style}
	Encode(&e, v)
	return e.Finish()
}
