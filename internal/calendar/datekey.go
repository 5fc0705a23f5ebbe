package calendar

import (
	"fmt"
	"strings"
	"time"
)

const dateKeyLayout = "2006-01-02"

// DateKey identifies a calendar day as YYYY-MM-DD.
type DateKey string

// ParseDateKey validates value as a real calendar day.
func ParseDateKey(value string) (DateKey, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(dateKeyLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return DateKey(t.Format(dateKeyLayout)), nil
}

// KeyOf builds the key for a date with a 0-indexed month, the way grid cells
// carry it.
func KeyOf(year, month0, day int) DateKey {
	t := time.Date(year, time.Month(month0+1), day, 0, 0, 0, 0, time.UTC)
	return DateKey(t.Format(dateKeyLayout))
}

// Time returns midnight UTC of the day. The key is assumed valid.
func (k DateKey) Time() time.Time {
	t, _ := time.Parse(dateKeyLayout, string(k))
	return t
}

func (k DateKey) String() string {
	return string(k)
}
