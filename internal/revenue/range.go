package revenue

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD or RFC3339")
	ErrInvertedDate = errors.New("from must not be after to")
)

// DateRange is an inclusive calendar range. From is midnight of the first
// day and To is 23:59:59.999 of the last day, both in the range's location.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseRange parses both bounds as UTC calendar days.
func ParseRange(from, to string) (DateRange, error) {
	return ParseRangeIn(from, to, time.UTC)
}

// ParseRangeIn parses both bounds as calendar days in loc and normalizes To
// to end of day.
func ParseRangeIn(from, to string, loc *time.Location) (DateRange, error) {
	start, err := ParseDay(from)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDay(to)
	if err != nil {
		return DateRange{}, err
	}
	if start.After(end) {
		return DateRange{}, ErrInvertedDate
	}
	return civilRange(start, end, loc), nil
}

// NewRange builds a range covering the UTC calendar days of from and to.
func NewRange(from, to time.Time) DateRange {
	return NewRangeIn(from, to, time.UTC)
}

// NewRangeIn builds a range covering the calendar days of from and to as
// seen from loc.
func NewRangeIn(from, to time.Time, loc *time.Location) DateRange {
	if loc == nil {
		loc = time.UTC
	}
	return civilRange(from.In(loc), to.In(loc), loc)
}

// civilRange takes the year, month and day of from and to as they read and
// anchors them in loc.
func civilRange(from, to time.Time, loc *time.Location) DateRange {
	if loc == nil {
		loc = time.UTC
	}
	return DateRange{
		From: time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc),
		To:   time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(999*time.Millisecond), loc),
	}
}

// Location is the zone the bounds are anchored in.
func (r DateRange) Location() *time.Location {
	if r.From.IsZero() {
		return time.UTC
	}
	return r.From.Location()
}

// In re-anchors the same calendar days in loc.
func (r DateRange) In(loc *time.Location) DateRange {
	if loc == nil || r.From.IsZero() || r.To.IsZero() {
		return r
	}
	return civilRange(r.From, r.To, loc)
}

// ParseDay accepts YYYY-MM-DD or an RFC3339 timestamp and returns the
// calendar day as midnight UTC.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(dayLabelLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidDate
}

// Contains reports whether t falls inside the range, both ends inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Days is the number of whole calendar days between the bounds.
func (r DateRange) Days() int {
	from := time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.To.Year(), r.To.Month(), r.To.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

// Years is the number of whole years between the bounds.
func (r DateRange) Years() int {
	years := r.To.Year() - r.From.Year()
	if years > 0 && r.From.AddDate(years, 0, 0).After(r.To) {
		years--
	}
	return years
}

// FromKey and ToKey render the bounds as YYYY-MM-DD.
func (r DateRange) FromKey() string { return r.From.Format(dayLabelLayout) }
func (r DateRange) ToKey() string   { return r.To.Format(dayLabelLayout) }
