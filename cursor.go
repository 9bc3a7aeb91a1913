// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package qcon

import (
	"errors"
	"strings"

	"go4.org/mem"
)

// A gap classifies a run of whitespace and comments between two tokens, by
// the densest layout it is consistent with.
type gap byte

const (
	gapNone  gap = iota // no whitespace at all
	gapSpace            // spaces, but no line break
	gapLine             // at least one line break
)

// density reports the most compact density consistent with g.
func (g gap) density() Density {
	switch g {
	case gapLine:
		return Multiline
	case gapSpace:
		return Uniline
	default:
		return Nospace
	}
}

func (d *Decoder) peek() byte {
	if d.pos < d.src.Len() {
		return d.src.At(d.pos)
	}
	return 0
}

func (d *Decoder) peekAt(i int) byte {
	if i >= 0 && i < d.src.Len() {
		return d.src.At(i)
	}
	return 0
}

func (d *Decoder) atEnd() bool { return d.pos >= d.src.Len() }

func (d *Decoder) rest() mem.RO { return d.src.SliceFrom(d.pos) }

// hasWord reports whether the input at the cursor begins with w.
func (d *Decoder) hasWord(w string) bool { return mem.HasPrefix(d.rest(), mem.S(w)) }

// skipSpace advances past whitespace and comments, delivering comments to the
// comment callback (if any). It reports the kind of gap it consumed.
func (d *Decoder) skipSpace() (gap, error) {
	g, lines := gapNone, 0
	defer d.flushComment()
	for {
		switch c := d.peek(); {
		case c == ' ' || c == '\t':
			g = max(g, gapSpace)
			d.pos++
		case c == '\n' || c == '\r':
			if c == '\n' {
				lines++
			}
			g = gapLine
			d.pos++
		case c == '#' && !d.slash:
			d.lineComment(1, lines)
			g, lines = gapLine, 0
		case c == '/' && d.slash && d.peekAt(d.pos+1) == '/':
			d.lineComment(2, lines)
			g, lines = gapLine, 0
		case c == '/' && d.slash && d.peekAt(d.pos+1) == '*':
			multi, err := d.blockComment()
			if err != nil {
				return g, err
			}
			if multi {
				g = gapLine
			} else {
				g = max(g, gapSpace)
			}
			lines = 2 // a block comment ends any run of line comments
		default:
			return g, nil
		}
	}
}

// lineComment consumes a line comment whose marker is n bytes long, up to but
// not including the line break. Consecutive line comments, separated only by
// a single line break, are joined into one comment.
func (d *Decoder) lineComment(n, lines int) {
	start := d.pos + n
	end := mem.IndexByte(d.src.SliceFrom(start), '\n')
	if end < 0 {
		end = d.src.Len()
	} else {
		end += start
	}
	d.pos = end
	if d.onComment == nil {
		return
	}
	text := trimComment(d.src.Slice(start, end).StringCopy())
	if len(d.comment) != 0 && lines > 1 {
		d.flushComment()
	}
	d.comment = append(d.comment, text)
}

// blockComment consumes a /* ... */ comment and reports whether it spans
// more than one line.
func (d *Decoder) blockComment() (bool, error) {
	d.flushComment()
	start := d.pos + 2
	body := d.src.SliceFrom(start)
	end := indexCommentEnd(body)
	if end < 0 {
		return false, errUnterminatedComment
	}
	text := body.SliceTo(end)
	d.pos = start + end + 2
	if d.onComment != nil {
		d.onComment(trimComment(text.StringCopy()), d.state)
	}
	return mem.IndexByte(text, '\n') >= 0, nil
}

var errUnterminatedComment = errors.New("unterminated comment")

// indexCommentEnd returns the offset of the first "*/" in src, or -1.
func indexCommentEnd(src mem.RO) int {
	for i := 0; i+1 < src.Len(); i++ {
		if src.At(i) == '*' && src.At(i+1) == '/' {
			return i
		}
	}
	return -1
}

// flushComment delivers any pending line comment text to the callback.
func (d *Decoder) flushComment() {
	if len(d.comment) == 0 {
		return
	}
	text := strings.Join(d.comment, "\n")
	d.comment = d.comment[:0]
	d.onComment(text, d.state)
}

// trimComment removes a carriage return and one space adjacent to each end
// of the comment text.
func trimComment(s string) string {
	s = strings.TrimSuffix(s, "\r")
	s = strings.TrimPrefix(s, " ")
	return strings.TrimSuffix(s, " ")
}

// nextSignificant returns the offset of the first byte at or after pos that
// is not whitespace or part of a comment. Unlike skipSpace, it has no side
// effects.
func (d *Decoder) nextSignificant(pos int) int {
	for pos < d.src.Len() {
		switch c := d.src.At(pos); {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			pos++
		case c == '#' && !d.slash, c == '/' && d.slash && d.peekAt(pos+1) == '/':
			i := mem.IndexByte(d.src.SliceFrom(pos), '\n')
			if i < 0 {
				return d.src.Len()
			}
			pos += i
		case c == '/' && d.slash && d.peekAt(pos+1) == '*':
			i := indexCommentEnd(d.src.SliceFrom(pos + 2))
			if i < 0 {
				return pos
			}
			pos += i + 4
		default:
			return pos
		}
	}
	return pos
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// isNameByte reports whether c may appear in an identifier.
func isNameByte(c byte) bool {
	return c == '_' || isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameStart(c byte) bool { return isNameByte(c) && !isDigit(c) }
