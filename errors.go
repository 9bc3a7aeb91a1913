// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package qcon

import (
	"errors"
	"fmt"
)

// Error categories reported by the decoder. A *SyntaxError wraps exactly one
// of these, so that callers can use errors.Is to classify a failure.
var (
	ErrLexical   = errors.New("lexical error")    // bad characters, strings, comments
	ErrStructure = errors.New("structural error") // commas, colons, delimiters, depth
	ErrNumber    = errors.New("numeric error")    // digits, overflow, magnitude
	ErrTemporal  = errors.New("temporal error")   // calendar, clock, and zone fields
)

// SyntaxError is the concrete type of errors reported by the decoder.
type SyntaxError struct {
	Offset   int     // byte offset of the error in the input
	Location LineCol // line and column of Offset
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
