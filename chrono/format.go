// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package chrono

// AppendDate appends the YYYY-MM-DD text of d to dst. The fields of d are
// not validated; use Check first if d may be out of range.
func AppendDate(dst []byte, d Date) []byte {
	dst = appendPadded(dst, d.Year, 4)
	dst = append(dst, '-')
	dst = appendPadded(dst, d.Month, 2)
	dst = append(dst, '-')
	return appendPadded(dst, d.Day, 2)
}

// AppendTime appends the HH:MM:SS text of t to dst, followed by its nonzero
// subsecond digits (if any) and its zone suffix.
func AppendTime(dst []byte, t Time) []byte {
	dst = appendClock(dst, t)
	return AppendZone(dst, t.Zone)
}

// AppendDatetime appends the text of dt to dst, with "T" separating the date
// from the time.
func AppendDatetime(dst []byte, dt Datetime) []byte {
	dst = AppendDate(dst, dt.Date)
	dst = append(dst, 'T')
	return AppendTime(dst, dt.Time)
}

// AppendZone appends the suffix for z to dst: nothing for Local, "Z" for UTC,
// or a signed "HH:MM" offset.
func AppendZone(dst []byte, z Zone) []byte {
	switch z.Kind {
	case UTC:
		return append(dst, 'Z')
	case Offset:
		off := z.Offset
		if off < 0 {
			dst = append(dst, '-')
			off = -off
		} else {
			dst = append(dst, '+')
		}
		dst = appendPadded(dst, off/60, 2)
		dst = append(dst, ':')
		return appendPadded(dst, off%60, 2)
	default:
		return dst
	}
}

func appendClock(dst []byte, t Time) []byte {
	dst = appendPadded(dst, t.Hour, 2)
	dst = append(dst, ':')
	dst = appendPadded(dst, t.Minute, 2)
	dst = append(dst, ':')
	dst = appendPadded(dst, t.Second, 2)
	if t.Nano == 0 {
		return dst
	}

	var frac [9]byte
	n := len(frac)
	for v := t.Nano; n > 0; v /= 10 {
		n--
		frac[n] = byte('0' + v%10)
	}
	end := len(frac)
	for end > 1 && frac[end-1] == '0' {
		end--
	}
	dst = append(dst, '.')
	return append(dst, frac[:end]...)
}

// appendPadded appends the decimal representation of v, zero-padded on the
// left to at least width digits.
func appendPadded(dst []byte, v, width int) []byte {
	var buf [20]byte
	i := len(buf)
	for v >= 10 || width > 1 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
		width--
	}
	i--
	buf[i] = byte('0' + v)
	return append(dst, buf[i:]...)
}
