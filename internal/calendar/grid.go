package calendar

import (
	"fmt"
	"time"
)

// DayCell is one square of the year grid. Month is 0-indexed and always the
// cell's true month, so leading fillers belong to December of the previous year.
type DayCell struct {
	Year   int  `json:"year"`
	Month  int  `json:"month"`
	Day    int  `json:"day"`
	InYear bool `json:"in_year"`
}

// Week is one grid row, Sunday first.
type Week [7]DayCell

// Key returns the YYYY-MM-DD key events are stored under.
func (c DayCell) Key() DateKey {
	return KeyOf(c.Year, c.Month, c.Day)
}

// IsToday compares against now in its own location.
func (c DayCell) IsToday(now time.Time) bool {
	return now.Year() == c.Year && int(now.Month())-1 == c.Month && now.Day() == c.Day
}

// Label renders the cell the way click feedback reads it.
func (c DayCell) Label() string {
	return fmt.Sprintf("Clicked on %s %d, %d", time.Month(c.Month+1), c.Day, c.Year)
}

// BuildYearGrid lays out every day of year in Sunday-first weeks, padded with
// real dates from the neighbouring years so each row has exactly seven cells.
func BuildYearGrid(year int) []Week {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	weeks := make([]Week, 0, 54)
	var week Week
	i := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		week[i] = DayCell{
			Year:   day.Year(),
			Month:  int(day.Month()) - 1,
			Day:    day.Day(),
			InYear: day.Year() == year,
		}
		i++
		if i == len(week) {
			weeks = append(weeks, week)
			week = Week{}
			i = 0
		}
	}
	return weeks
}
