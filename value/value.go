// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package value implements a tree representation of QCON values.
//
// Use [Decode] to build a tree from text, and [Encode] or [Format] to render
// a tree as text. Container nodes record the density they were decoded with,
// so that a decoded tree re-encodes with the same layout.
package value

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/creachadair/qcon"
	"github.com/creachadair/qcon/chrono"
)

// A Value is an arbitrary QCON value.
type Value interface {
	// Span reports the location of the value in its source text. For a value
	// that was not decoded from text, the span is zero.
	Span() qcon.Span
}

// datum records the source span of a value.
type datum struct{ pos, end int }

func (d datum) Span() qcon.Span { return qcon.Span{Pos: d.pos, End: d.end} }

// An Object is a collection of key-value members.
type Object struct {
	datum

	Members []*Member
	Density qcon.Density
}

// Len reports the number of members in the object.
func (o *Object) Len() int { return len(o.Members) }

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// A Member is a key-value pair in an object.
type Member struct {
	datum

	Key   string
	Value Value
}

// An Array is a sequence of values.
type Array struct {
	datum

	Values  []Value
	Density qcon.Density
}

// Len reports the number of elements in the array.
func (a *Array) Len() int { return len(a.Values) }

// A String is a string value.
type String struct {
	datum
	Value string
}

// A Number is a numeric value. Base records the radix the value was written
// in, and is meaningful only for non-negative integers.
type Number struct {
	datum
	Value qcon.Number
	Base  qcon.Base
}

// IsInt reports whether n is an integer.
func (n *Number) IsInt() bool { return n.Value.Kind != qcon.Floating }

// A Bool is a Boolean constant, true or false.
type Bool struct {
	datum
	Value bool
}

// Null represents the null constant.
type Null struct{ datum }

// A Date is a calendar date.
type Date struct {
	datum
	Value chrono.Date
}

// A Time is a clock time.
type Time struct {
	datum
	Value chrono.Time
}

// A Datetime is a date combined with a time.
type Datetime struct {
	datum
	Value chrono.Datetime
}

// Equal reports whether a and b are structurally equal. Numbers compare by
// mathematical value regardless of kind, and NaN is equal to itself. Spans
// and densities are not compared.
func Equal(a, b Value) bool {
	if m, ok := a.(*Member); ok {
		a = m.Value
	}
	if m, ok := b.(*Member); ok {
		b = m.Value
	}
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || len(x.Members) != len(y.Members) {
			return false
		}
		for i, m := range x.Members {
			if m.Key != y.Members[i].Key || !Equal(m.Value, y.Members[i].Value) {
				return false
			}
		}
		return true
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Values) != len(y.Values) {
			return false
		}
		for i, v := range x.Values {
			if !Equal(v, y.Values[i]) {
				return false
			}
		}
		return true
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Number:
		y, ok := b.(*Number)
		return ok && numEqual(x.Value, y.Value)
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.Value == y.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Date:
		y, ok := b.(*Date)
		return ok && x.Value == y.Value
	case *Time:
		y, ok := b.(*Time)
		return ok && x.Value == y.Value
	case *Datetime:
		y, ok := b.(*Datetime)
		return ok && x.Value == y.Value
	case nil:
		return b == nil
	}
	return false
}

func numEqual(a, b qcon.Number) bool {
	if a.Kind == qcon.Floating && b.Kind == qcon.Floating {
		return a.Float == b.Float || (math.IsNaN(a.Float) && math.IsNaN(b.Float))
	} else if a.Kind == qcon.Floating {
		a, b = b, a
	}
	if b.Kind == qcon.Floating {
		return intEqualsFloat(a, b.Float)
	}
	return a.Uint == b.Uint && isNegative(a) == isNegative(b)
}

func isNegative(n qcon.Number) bool { return n.Kind == qcon.Signed && n.Int < 0 }

// intEqualsFloat reports whether the integer n has exactly the value f.
func intEqualsFloat(n qcon.Number, f float64) bool {
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return false // also excludes NaN
	}
	if isNegative(n) {
		return f >= math.MinInt64 && f < 0 && int64(f) == n.Int
	}
	return f >= 0 && f < math.MaxUint64 && uint64(f) == n.Uint
}

// From converts a Go value into a Value. It supports nil, bool, string, the
// built-in integer and floating-point types, the chrono types, time.Time, a
// Value, and slices and string-keyed maps of these. Map members are ordered
// by key. From panics if v has any other type.
func From(v any) Value {
	switch t := v.(type) {
	case nil:
		return new(Null)
	case Value:
		return t
	case bool:
		return &Bool{Value: t}
	case string:
		return &String{Value: t}
	case int:
		return fromInt(int64(t))
	case int8:
		return fromInt(int64(t))
	case int16:
		return fromInt(int64(t))
	case int32:
		return fromInt(int64(t))
	case int64:
		return fromInt(t)
	case uint:
		return fromUint(uint64(t))
	case uint8:
		return fromUint(uint64(t))
	case uint16:
		return fromUint(uint64(t))
	case uint32:
		return fromUint(uint64(t))
	case uint64:
		return fromUint(t)
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case qcon.Number:
		return &Number{Value: t}
	case chrono.Date:
		return &Date{Value: t}
	case chrono.Time:
		return &Time{Value: t}
	case chrono.Datetime:
		return &Datetime{Value: t}
	case time.Time:
		dt, err := chrono.FromInstant(t, chrono.Offset)
		if err != nil {
			panic(fmt.Sprintf("value.From: %v", err))
		}
		return &Datetime{Value: dt}
	case []any:
		a := &Array{Values: make([]Value, len(t))}
		for i, elt := range t {
			a.Values[i] = From(elt)
		}
		return a
	case []Value:
		return &Array{Values: t}
	case map[string]any:
		o := &Object{Members: make([]*Member, 0, len(t))}
		for _, key := range slices.Sorted(maps.Keys(t)) {
			o.Members = append(o.Members, &Member{Key: key, Value: From(t[key])})
		}
		return o
	default:
		panic(fmt.Sprintf("value.From: unsupported type %T", v))
	}
}

func fromInt(v int64) *Number {
	return &Number{Value: qcon.Number{
		Kind: qcon.Signed, Int: v, Uint: uint64(v), Float: float64(v), Positive: v >= 0,
	}}
}

func fromUint(v uint64) *Number {
	if v <= math.MaxInt64 {
		return fromInt(int64(v))
	}
	return &Number{Value: qcon.Number{
		Kind: qcon.Unsigned, Int: int64(v), Uint: v, Float: float64(v), Positive: true,
	}}
}

func fromFloat(f float64) *Number {
	return &Number{Value: qcon.Number{Kind: qcon.Floating, Float: f, Positive: !math.Signbit(f)}}
}
