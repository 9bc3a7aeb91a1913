// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package chrono

import (
	"errors"
	"fmt"
	"time"

	"go4.org/mem"
)

// ParseDate parses a date of the form YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	d, n, err := ScanDate(mem.S(s))
	if err != nil {
		return Date{}, err
	} else if n != len(s) {
		return Date{}, fmt.Errorf("extra input after date at offset %d", n)
	}
	return d, nil
}

// ParseTime parses a time of the form HH:MM:SS[.fff][zone], where the zone
// is "Z", a signed "HH:MM" offset, or absent.
func ParseTime(s string) (Time, error) {
	t, n, err := ScanTime(mem.S(s))
	if err != nil {
		return Time{}, err
	} else if n != len(s) {
		return Time{}, fmt.Errorf("extra input after time at offset %d", n)
	}
	return t, nil
}

// ParseDatetime parses a date and a time separated by "T".
func ParseDatetime(s string) (Datetime, error) {
	dt, n, err := ScanDatetime(mem.S(s))
	if err != nil {
		return Datetime{}, err
	} else if n != len(s) {
		return Datetime{}, fmt.Errorf("extra input after datetime at offset %d", n)
	}
	return dt, nil
}

// ScanDate parses a date from the front of src. It returns the date and the
// number of bytes consumed. In case of error, the offset reports where in src
// the problem was found.
func ScanDate(src mem.RO) (Date, int, error) {
	var d Date
	var pos int
	var err error
	if d.Year, pos, err = scanField(src, 0, 4, "year"); err != nil {
		return d, pos, err
	} else if pos, err = expect(src, pos, '-'); err != nil {
		return d, pos, err
	}
	start := pos
	if d.Month, pos, err = scanField(src, pos, 2, "month"); err != nil {
		return d, pos, err
	} else if d.Month < 1 || d.Month > 12 {
		return d, start, fmt.Errorf("month %d out of range", d.Month)
	} else if pos, err = expect(src, pos, '-'); err != nil {
		return d, pos, err
	}
	start = pos
	if d.Day, pos, err = scanField(src, pos, 2, "day"); err != nil {
		return d, pos, err
	} else if err := d.Check(); err != nil {
		return d, start, err
	} else if pos < src.Len() && isDigit(src.At(pos)) {
		return d, pos, errors.New("too many digits in day")
	}
	return d, pos, nil
}

// ScanTime parses a time from the front of src. It returns the time and the
// number of bytes consumed. In case of error, the offset reports where in src
// the problem was found.
func ScanTime(src mem.RO) (Time, int, error) {
	var t Time
	var pos int
	var err error

	if t.Hour, pos, err = scanField(src, 0, 2, "hour"); err != nil {
		return t, pos, err
	} else if t.Hour > 23 {
		return t, 0, fmt.Errorf("hour %d out of range", t.Hour)
	} else if pos, err = expect(src, pos, ':'); err != nil {
		return t, pos, err
	}
	start := pos
	if t.Minute, pos, err = scanField(src, pos, 2, "minute"); err != nil {
		return t, pos, err
	} else if t.Minute > 59 {
		return t, start, fmt.Errorf("minute %d out of range", t.Minute)
	} else if pos, err = expect(src, pos, ':'); err != nil {
		return t, pos, err
	}
	start = pos
	if t.Second, pos, err = scanField(src, pos, 2, "second"); err != nil {
		return t, pos, err
	} else if t.Second > 59 {
		return t, start, fmt.Errorf("second %d out of range", t.Second)
	}

	if pos < src.Len() && src.At(pos) == '.' {
		var n int
		t.Nano, n, err = scanFraction(src.SliceFrom(pos + 1))
		if err != nil {
			return t, pos + 1 + n, err
		}
		if t.Nano == int(time.Second) && !t.carry() {
			return t, pos + 1 + n, errors.New("subsecond rounds past the end of the day")
		}
		pos += 1 + n
	} else if pos < src.Len() && isDigit(src.At(pos)) {
		return t, pos, errors.New("too many digits in second")
	}

	z, n, err := scanZone(src.SliceFrom(pos))
	if err != nil {
		return t, pos + n, err
	}
	t.Zone = z
	return t, pos + n, nil
}

// ScanDatetime parses a date, the separator "T", and a time from the front of
// src. It returns the value and the number of bytes consumed.
func ScanDatetime(src mem.RO) (Datetime, int, error) {
	d, pos, err := ScanDate(src)
	if err != nil {
		return Datetime{}, pos, err
	} else if pos, err = expect(src, pos, 'T'); err != nil {
		return Datetime{}, pos, err
	}
	t, n, err := ScanTime(src.SliceFrom(pos))
	if err != nil {
		return Datetime{}, pos + n, err
	}
	return Datetime{Date: d, Time: t}, pos + n, nil
}

// carry moves a whole second of rounded-up subsecond into the clock fields.
// It reports false if the carry would pass midnight.
func (t *Time) carry() bool {
	t.Nano = 0
	if t.Second++; t.Second < 60 {
		return true
	}
	t.Second = 0
	if t.Minute++; t.Minute < 60 {
		return true
	}
	t.Minute = 0
	t.Hour++
	return t.Hour < 24
}

// scanFraction parses the decimal digits of a fraction of a second and
// returns the value rounded to the nearest nanosecond. The result is one full
// second if the digits round up from .999999999.
func scanFraction(src mem.RO) (nano, n int, _ error) {
	const digits = 9
	for n < src.Len() && isDigit(src.At(n)) {
		d := int(src.At(n) - '0')
		switch {
		case n < digits:
			nano = nano*10 + d
		case n == digits && d >= 5:
			nano++ // round half up on the first discarded digit
		}
		n++
	}
	if n == 0 {
		return 0, 0, errors.New("missing subsecond digits")
	}
	for i := n; i < digits; i++ {
		nano *= 10
	}
	return nano, n, nil
}

// scanZone parses an optional zone suffix from the front of src.
func scanZone(src mem.RO) (Zone, int, error) {
	if src.Len() == 0 {
		return Zone{Kind: Local}, 0, nil
	}
	switch c := src.At(0); c {
	case 'Z':
		return Zone{Kind: UTC}, 1, nil
	case '+', '-':
		h, pos, err := scanField(src, 1, 2, "offset hours")
		if err != nil {
			return Zone{}, pos, err
		} else if pos, err = expect(src, pos, ':'); err != nil {
			return Zone{}, pos, err
		}
		m, pos, err := scanField(src, pos, 2, "offset minutes")
		if err != nil {
			return Zone{}, pos, err
		} else if m > 59 {
			return Zone{}, pos - 2, fmt.Errorf("offset minutes %d out of range", m)
		} else if pos < src.Len() && isDigit(src.At(pos)) {
			return Zone{}, pos, errors.New("too many digits in offset")
		}
		off := h*60 + m
		if c == '-' {
			off = -off
		}
		return Zone{Kind: Offset, Offset: off}, pos, nil
	default:
		return Zone{Kind: Local}, 0, nil
	}
}

// scanField parses exactly n decimal digits from src at pos.
func scanField(src mem.RO, pos, n int, label string) (int, int, error) {
	var v int
	for i := range n {
		if pos+i >= src.Len() || !isDigit(src.At(pos+i)) {
			return 0, pos + i, fmt.Errorf("%s requires %d digits", label, n)
		}
		v = v*10 + int(src.At(pos+i)-'0')
	}
	return v, pos + n, nil
}

func expect(src mem.RO, pos int, want byte) (int, error) {
	if pos >= src.Len() {
		return pos, fmt.Errorf("expected %q, got end of input", want)
	} else if c := src.At(pos); c != want {
		return pos, fmt.Errorf("expected %q, got %q", want, c)
	}
	return pos + 1, nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
