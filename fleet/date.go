/*
date.go - Boundary date normalization

PURPOSE:
  Every persisted date reaches the core through the Date type. The documents
  this system inherits carry dates in several shapes (RFC3339 strings, plain
  YYYY-MM-DD, unix epoch seconds or milliseconds, and Firestore-style
  {seconds, nanos} objects). Date converts all of them into one time.Time
  value at the JSON boundary so the evaluator and aggregators never branch
  on representation.

TOLERANCE CONTRACT:
  A malformed date decodes to the zero Date instead of failing the whole
  document. Callers that need a usable value resolve zero dates with
  OrNow(now); the alert evaluator does exactly that so one bad field cannot
  poison a batch.

DAY ARITHMETIC:
  All day-window rules (insurance expiry, inspection due, invoice arrears)
  use whole-day differences. DaysBetween truncates both endpoints to UTC
  midnight before subtracting, so "in 3 days" means the same thing at 09:00
  and at 23:00.

SEE ALSO:
  - types.go: Record types carrying Date fields
  - alerting: Day-window rules built on DaysBetween
*/
package fleet

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar timestamp normalized from any persisted representation.
type Date struct {
	time.Time
}

// NewDate builds a Date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary time to a Date.
func DateOf(t time.Time) Date {
	return Date{Time: t}
}

// firestoreTimestamp matches the {seconds, nanoseconds} object shape that the
// original document store exported.
type firestoreTimestamp struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
	Nanos       int64  `json:"nanos"`
}

// UnmarshalJSON accepts RFC3339 strings, YYYY-MM-DD strings, unix epoch
// numbers (seconds or milliseconds), and {seconds, nanos} objects.
// Anything unrecognized decodes to the zero Date; it never returns an error
// for a malformed value.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	if s[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			d.Time = time.Time{}
			return nil
		}
		d.Time = parseDateString(raw)
		return nil
	}

	if s[0] == '{' {
		var ts firestoreTimestamp
		if err := json.Unmarshal(b, &ts); err != nil || ts.Seconds == nil {
			d.Time = time.Time{}
			return nil
		}
		nanos := ts.Nanoseconds
		if nanos == 0 {
			nanos = ts.Nanos
		}
		d.Time = time.Unix(*ts.Seconds, nanos).UTC()
		return nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Time = fromEpoch(n)
		return nil
	}

	d.Time = time.Time{}
	return nil
}

// MarshalJSON writes RFC3339, or null for the zero Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

func parseDateString(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return fromEpoch(n)
	}
	return time.Time{}
}

// fromEpoch guesses seconds vs milliseconds. Values past the year ~5138 in
// seconds are treated as milliseconds.
func fromEpoch(n int64) time.Time {
	const msThreshold = 1e11
	if n > msThreshold || n < -msThreshold {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// OrNow resolves the zero Date to now. The evaluator uses it so records with
// unusable dates still produce deterministic output.
func (d Date) OrNow(now time.Time) time.Time {
	if d.IsZero() {
		return now
	}
	return d.Time
}

// String formats as YYYY-MM-DD, or empty for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.UTC().Format("2006-01-02")
}

// =============================================================================
// DAY ARITHMETIC
// =============================================================================

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference to - from, both truncated to
// UTC midnight. Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(midnight(to).Sub(midnight(from)).Hours() / 24)
}

// StartOfMonth returns UTC midnight on the first of the month.
func StartOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns UTC midnight on the last day of the month.
func EndOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// SameMonth reports whether t falls in the given calendar year and month.
func SameMonth(t time.Time, year int, month time.Month) bool {
	t = t.UTC()
	return t.Year() == year && t.Month() == month
}
