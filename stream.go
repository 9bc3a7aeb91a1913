// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package qcon

// A Handler handles events from decoding an input. If a method reports an
// error, decoding stops and that error is returned to the caller. The
// decoder ensures objects and arrays are correctly balanced.
//
// Each method is passed the Decoder positioned at the unit being reported.
// The accessors of the decoder are only valid for the duration of the call.
type Handler interface {
	// Begin a new object, whose open brace is the current unit.
	BeginObject(d *Decoder) error

	// End the most-recently-opened object. The inferred density of the
	// object is available from d.Density.
	EndObject(d *Decoder) error

	// Begin a new array, whose open bracket is the current unit.
	BeginArray(d *Decoder) error

	// End the most-recently-opened array. The inferred density of the array
	// is available from d.Density.
	EndArray(d *Decoder) error

	// Report an object key. The decoded text is available from d.Text.
	Key(d *Decoder) error

	// Report a scalar value. The type of the value is given by d.State.
	Value(d *Decoder) error

	// EndOfInput reports the end of the input.
	EndOfInput(d *Decoder)
}

// CommentHandler is an optional interface that a Handler may implement to
// receive comments. If the handler does not provide this method, comments
// are silently discarded. A comment callback installed on the decoder with
// HandleComments takes precedence.
type CommentHandler interface {
	// Process the text of a comment. The state is the decoder state when the
	// comment was found.
	Comment(text string, st State)
}

// Walk decodes the complete input of d and delivers events to h until
// either an error occurs or the input is exhausted. In case of a syntax
// error, the returned error has type [*SyntaxError]. If a handler method
// reports an error, that error is returned unchanged.
func Walk(d *Decoder, h Handler) error {
	if ch, ok := h.(CommentHandler); ok && d.onComment == nil {
		d.HandleComments(ch.Comment)
		defer d.HandleComments(nil)
	}
	for {
		var err error
		switch st := d.Step(); st {
		case StartObject:
			err = h.BeginObject(d)
		case StartArray:
			err = h.BeginArray(d)
		case End:
			if d.Closed() == Object {
				err = h.EndObject(d)
			} else {
				err = h.EndArray(d)
			}
		case Key:
			err = h.Key(d)
		case Done:
			h.EndOfInput(d)
			return nil
		case Error:
			return d.Err()
		default:
			err = h.Value(d)
		}
		if err != nil {
			return err
		}
	}
}
