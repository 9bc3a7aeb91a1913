// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package chrono implements the calendar date, clock time, and timezone
// values of the QCON format.
//
// Values are plain structs that may be constructed directly. Use the Check
// methods to validate a value built by hand; the parsers in this package
// validate everything they return.
//
// A Datetime converts to and from an absolute instant (a time.Time). Leap
// seconds are ignored entirely, and the Local zone is resolved against the
// system's UTC offset at that instant.
package chrono

import (
	"errors"
	"fmt"
	"time"
)

// MaxYear is the largest year representable in the format.
const MaxYear = 9999

// MaxOffset is the exclusive bound on the magnitude of a fixed timezone
// offset, in minutes.
const MaxOffset = 100 * 60

// A Date is a calendar date in the proleptic Gregorian calendar.
type Date struct {
	Year  int // 0..9999
	Month int // 1..12
	Day   int // 1..DaysIn(Year, Month)
}

// Check reports an error if any field of d is out of range.
func (d Date) Check() error {
	if d.Year < 0 || d.Year > MaxYear {
		return fmt.Errorf("year %d out of range", d.Year)
	} else if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month %d out of range", d.Month)
	} else if n := DaysIn(d.Year, d.Month); d.Day < 1 || d.Day > n {
		if d.Month == 2 && d.Day == 29 {
			return fmt.Errorf("%04d is not a leap year", d.Year)
		}
		return fmt.Errorf("day %d out of range for month %d", d.Day, d.Month)
	}
	return nil
}

func (d Date) String() string { return string(AppendDate(nil, d)) }

// IsLeap reports whether year is a leap year: divisible by 4, and not by 100
// unless also by 400.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [...]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn reports the number of days in the given month of year, or 0 if month
// is out of range.
func DaysIn(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	} else if month == 2 && IsLeap(year) {
		return 29
	}
	return monthDays[month]
}

// ZoneKind identifies how a time relates to UTC.
type ZoneKind byte

// Constants defining the valid ZoneKind values.
const (
	Local  ZoneKind = iota // implicit local time, no suffix
	UTC                    // "Z"
	Offset                 // fixed offset, "+HH:MM" or "-HH:MM"
)

var zoneKindStr = [...]string{Local: "local", UTC: "UTC", Offset: "offset"}

func (k ZoneKind) String() string {
	if int(k) >= len(zoneKindStr) {
		return fmt.Sprintf("ZoneKind(%d)", k)
	}
	return zoneKindStr[k]
}

// A Zone is the timezone of a clock time.
type Zone struct {
	Kind   ZoneKind
	Offset int // minutes east of UTC; only meaningful when Kind == Offset
}

// Check reports an error if z is not a valid zone.
func (z Zone) Check() error {
	switch z.Kind {
	case Local, UTC:
		return nil
	case Offset:
		if z.Offset <= -MaxOffset || z.Offset >= MaxOffset {
			return fmt.Errorf("offset %d minutes out of range", z.Offset)
		}
		return nil
	default:
		return fmt.Errorf("invalid zone kind %d", z.Kind)
	}
}

// Location returns a time.Location for z.
func (z Zone) Location() *time.Location {
	switch z.Kind {
	case UTC:
		return time.UTC
	case Offset:
		return time.FixedZone("", z.Offset*60)
	default:
		return time.Local
	}
}

// A Time is a time of day with nanosecond resolution and a zone.
type Time struct {
	Hour   int // 0..23
	Minute int // 0..59
	Second int // 0..59
	Nano   int // 0..999999999
	Zone   Zone
}

// Check reports an error if any field of t is out of range.
func (t Time) Check() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("hour %d out of range", t.Hour)
	} else if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d out of range", t.Minute)
	} else if t.Second < 0 || t.Second > 59 {
		return fmt.Errorf("second %d out of range", t.Second)
	} else if t.Nano < 0 || t.Nano >= int(time.Second) {
		return fmt.Errorf("subsecond %d out of range", t.Nano)
	}
	return t.Zone.Check()
}

func (t Time) String() string { return string(AppendTime(nil, t)) }

// A Datetime is a calendar date combined with a time of day. The zone of the
// Time applies to the whole value.
type Datetime struct {
	Date
	Time
}

// Check reports an error if any field of dt is out of range.
func (dt Datetime) Check() error {
	if err := dt.Date.Check(); err != nil {
		return err
	}
	return dt.Time.Check()
}

func (dt Datetime) String() string { return string(AppendDatetime(nil, dt)) }

// Instant returns the absolute instant denoted by dt.
func (dt Datetime) Instant() (time.Time, error) {
	if err := dt.Check(); err != nil {
		return time.Time{}, err
	}
	return time.Date(dt.Year, time.Month(dt.Month), dt.Day,
		dt.Hour, dt.Minute, dt.Second, dt.Nano, dt.Zone.Location()), nil
}

// ErrYearRange is reported by FromInstant for an instant whose calendar year
// cannot be represented.
var ErrYearRange = errors.New("year not representable")

// FromInstant converts t into a Datetime whose zone has the given kind.  For
// UTC the fields are in UTC; for Local and Offset they are in the system's
// local time, and Offset records the local UTC offset at t.
func FromInstant(t time.Time, kind ZoneKind) (Datetime, error) {
	var z Zone
	switch kind {
	case UTC:
		t = t.UTC()
		z.Kind = UTC
	case Local:
		t = t.Local()
	case Offset:
		t = t.Local()
		_, off := t.Zone()
		z = Zone{Kind: Offset, Offset: off / 60}
	default:
		return Datetime{}, fmt.Errorf("invalid zone kind %d", kind)
	}
	if y := t.Year(); y < 0 || y > MaxYear {
		return Datetime{}, fmt.Errorf("%w: %d", ErrYearRange, y)
	}
	return Datetime{
		Date: Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		Time: Time{
			Hour:   t.Hour(),
			Minute: t.Minute(),
			Second: t.Second(),
			Nano:   t.Nanosecond(),
			Zone:   z,
		},
	}, nil
}
