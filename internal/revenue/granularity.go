package revenue

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the bucket unit of a revenue series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

const (
	// DaySpanThreshold is the largest span, in whole days, bucketed by day.
	DaySpanThreshold = 60
	// YearSpanThreshold is the smallest span, in whole years, bucketed by year.
	YearSpanThreshold = 1
)

const (
	dayLabelLayout   = "2006-01-02"
	monthLabelLayout = "Jan 2006"
	yearLabelLayout  = "2006"
)

// IsValid reports whether g is one of the three bucket units.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityMonth, GranularityYear:
		return true
	}
	return false
}

// ParseGranularity converts raw input into a Granularity; empty input means auto.
func ParseGranularity(value string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(value)))
	if g == "" || g.IsValid() {
		return g, nil
	}
	return "", fmt.Errorf("invalid granularity %q", value)
}

// ChooseGranularity picks the bucket unit for a range: whole-day span at or
// under DaySpanThreshold is day, a whole-year span of at least
// YearSpanThreshold is year, anything between is month.
func ChooseGranularity(rng DateRange) Granularity {
	if rng.Days() <= DaySpanThreshold {
		return GranularityDay
	}
	if rng.Years() >= YearSpanThreshold {
		return GranularityYear
	}
	return GranularityMonth
}

// BucketStart truncates t to the start of its bucket in t's own location.
func BucketStart(t time.Time, g Granularity) time.Time {
	loc := t.Location()
	switch g {
	case GranularityYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

// Label renders the bucket key for t as read in t's location. Callers convert
// t with In before labelling.
func Label(t time.Time, g Granularity) string {
	switch g {
	case GranularityYear:
		return t.Format(yearLabelLayout)
	case GranularityMonth:
		return t.Format(monthLabelLayout)
	default:
		return t.Format(dayLabelLayout)
	}
}

func nextBucket(start time.Time, g Granularity) time.Time {
	switch g {
	case GranularityYear:
		return start.AddDate(1, 0, 0)
	case GranularityMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}
