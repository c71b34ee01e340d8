/*
DESCRIPTION
  schedule.go computes the default release time of an upload.

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean)

  This file is part of ytup. ytup is free software: you can
  redistribute it and/or modify it under the terms of the GNU
  General Public License as published by the Free Software
  Foundation, either version 3 of the License, or (at your option)
  any later version.

  ytup is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see <http://www.gnu.org/licenses/>.
*/

// Package schedule computes default publish times for uploads.
package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// NextMidnight returns midnight at the start of the day after now's calendar
// day in loc. The result is always strictly after now. Where that midnight
// does not exist because the clocks skip it, the first instant of the day is
// returned instead.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	now = now.In(loc)
	y, m, d := now.Date()
	// time.Date normalises d+1 across month and year ends.
	next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	if next.After(now) && laterDay(next, now) {
		return next
	}

	// Midnight fell in a gap. Search whole seconds for the first instant whose
	// date is after now's; no day is longer than 48 hours.
	lo := now.Truncate(time.Second)
	hi := lo.Add(48 * time.Hour)
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2).Truncate(time.Second)
		if laterDay(mid.In(loc), now) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi.In(loc)
}

// laterDay reports whether t's calendar date is after u's. Both must be in
// the same location.
func laterDay(t, u time.Time) bool {
	ty, tm, td := t.Date()
	uy, um, ud := u.Date()
	return time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).After(time.Date(uy, um, ud, 0, 0, 0, 0, time.UTC))
}

// DefaultPublishAt returns NextMidnight(now, loc) plus offset, formatted as
// RFC 3339 with loc's UTC offset.
func DefaultPublishAt(now time.Time, loc *time.Location, offset time.Duration) string {
	return NextMidnight(now, loc).Add(offset).Format(time.RFC3339)
}

// ParseTimeOfDay parses a 24 hour "HHMM" time of day, e.g. "0930", into the
// duration since midnight. The empty string is midnight.
func ParseTimeOfDay(hhmm string) (time.Duration, error) {
	if hhmm == "" {
		return 0, nil
	}
	if len(hhmm) != 4 {
		return 0, fmt.Errorf("invalid time of day %q: want HHMM", hhmm)
	}
	for _, c := range hhmm {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid time of day %q: want HHMM digits", hhmm)
		}
	}
	h, err := strconv.Atoi(hhmm[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in time of day %q", hhmm)
	}
	m, err := strconv.Atoi(hhmm[2:])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in time of day %q", hhmm)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
