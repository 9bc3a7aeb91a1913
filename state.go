// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package qcon

import "fmt"

// State is the type of the syntactic unit reported by one decoding step.
type State byte

// Constants defining the valid State values.
const (
	Error       State = iota // decoding failed; see Decoder.Err
	Ready                    // input loaded, nothing decoded yet
	StartObject              // opening brace "{"
	StartArray               // opening bracket "["
	End                      // closing brace "}" or bracket "]"
	Key                      // object member key
	String                   // quoted string
	Int                      // integer number
	Float                    // floating-point number
	Bool                     // constant: true or false
	Date                     // date: D2023-02-13
	Time                     // time: T17:13:18Z
	Datetime                 // date and time: D2023-02-13T17:13:18Z
	Null                     // constant: null
	Done                     // the input was completely consumed
)

var stateStr = [...]string{
	Error:       "error",
	Ready:       "ready",
	StartObject: `"{"`,
	StartArray:  `"["`,
	End:         "end",
	Key:         "key",
	String:      "string",
	Int:         "integer",
	Float:       "float",
	Bool:        "bool",
	Date:        "date",
	Time:        "time",
	Datetime:    "datetime",
	Null:        "null",
	Done:        "done",
}

func (s State) String() string {
	if int(s) >= len(stateStr) {
		return fmt.Sprintf("State(%d)", s)
	}
	return stateStr[s]
}

// IsScalar reports whether s denotes a complete non-container value.
func (s State) IsScalar() bool { return s >= String && s <= Null }

// Density is a whitespace compactness policy for a container.  The values are
// ordered from least to most compact, and each level permits strictly less
// whitespace than the one before it.
type Density byte

// Constants defining the valid Density values.
const (
	Multiline Density = iota // one element per indented line
	Uniline                  // a single line, with spaces between tokens
	Nospace                  // no whitespace at all
)

var densityStr = [...]string{
	Multiline: "multiline",
	Uniline:   "uniline",
	Nospace:   "nospace",
}

func (d Density) String() string {
	if int(d) >= len(densityStr) {
		return fmt.Sprintf("Density(%d)", d)
	}
	return densityStr[d]
}

// ParseDensity returns the Density whose name is s.
func ParseDensity(s string) (Density, error) {
	for i, name := range densityStr {
		if s == name {
			return Density(i), nil
		}
	}
	return 0, fmt.Errorf("unknown density %q", s)
}

// Kind identifies the type of a container.
type Kind byte

// Constants defining the valid Kind values.
const (
	Object Kind = iota + 1 // { ... }
	Array                  // [ ... ]
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// opener returns the opening delimiter of a container of kind k.
func (k Kind) opener() byte {
	if k == Object {
		return '{'
	}
	return '['
}

// closer returns the closing delimiter of a container of kind k.
func (k Kind) closer() byte {
	if k == Object {
		return '}'
	}
	return ']'
}

// MaxDepth is the maximum nesting depth of containers.
const MaxDepth = 64
