// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package qcon implements a decoder and an encoder for QCON, a superset of
// JSON with typed dates and times, integers in several bases, trailing
// commas, comments, and explicit control over whitespace density.
//
// # Decoding
//
// The Decoder type is a pull parser. Load the complete input and call Step
// to consume one syntactic unit at a time. Step reports the State of the
// unit, and the value is available from the accessor matching that state:
//
//	d := qcon.NewDecoder(input)
//	for {
//	   switch d.Step() {
//	   case qcon.Int:
//	      log.Printf("Integer: %d", d.Int())
//	   case qcon.Error:
//	      log.Fatalf("Decoding failed: %v", d.Err())
//	   case qcon.Done:
//	      return
//	   }
//	}
//
// In case of error, Err returns an error of concrete type *qcon.SyntaxError
// giving the location of the problem. Errors are sticky: once Step reports
// Error, it continues to do so until the decoder is loaded again.
//
// The More method simplifies decoding the elements of a container. It
// reports whether another element follows, and consumes the closing
// delimiter when it does not:
//
//	d.Step() // StartArray
//	for d.More() {
//	   d.Step()
//	}
//
// # Encoding
//
// The Encoder type writes QCON text from a sequence of calls, one per
// syntactic unit. The calls may be chained, and the first invalid call is
// reported by Finish:
//
//	var e qcon.Encoder
//	e.Object().Key("when").Date(chrono.Date{Year: 2023, Month: 2, Day: 13}).End()
//	text, err := e.Finish()
//
// # Density
//
// Every container has a density, which controls the whitespace written
// around its elements:
//
//	Density   | Example
//	--------- | ----------------------------
//	Multiline | one element per indented line
//	Uniline   | [ 1, 2, 3 ]
//	Nospace   | [1,2,3]
//
// The encoder never writes a container less compact than its parent. The
// decoder infers the density of each container from the whitespace between
// its elements, so that text written by an Encoder can be reproduced.
//
// # Handlers
//
// The Walk function drives a Decoder to completion and reports its events to
// the methods of a Handler:
//
//	QCON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	key        | Key                       | "key":
//	value      | Value                     | string, number, date, time, etc.
//	--         | EndOfInput                | end of input
//
// Walk ensures that corresponding Begin and End methods are correctly
// paired, or that a SyntaxError is reported. The value package uses Walk to
// build a tree of values.
package qcon
