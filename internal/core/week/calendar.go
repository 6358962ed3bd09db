// Package week contains the pure calendar logic used to key weekly checklist entries.
// This is part of the Functional Core - no I/O, only pure functions.
package week

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the persisted form of a week start.
const DateFormat = "2006-01-02"

// Calendar normalizes instants to the canonical start of their calendar week.
type Calendar struct {
	FirstWeekday time.Weekday
	Location     *time.Location
}

// Default returns a Monday-anchored calendar in local time.
func Default() Calendar {
	return Calendar{FirstWeekday: time.Monday, Location: time.Local}
}

// New returns a calendar anchored on the given weekday in loc.
// A nil location means UTC.
func New(first time.Weekday, loc *time.Location) Calendar {
	return Calendar{FirstWeekday: first, Location: loc}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// In returns t expressed in the calendar location.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.location())
}

// day strips the time-of-day component in the calendar location.
func (c Calendar) day(t time.Time) time.Time {
	y, m, d := t.In(c.location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.location())
}

// WeekStart returns midnight of the first weekday of the week containing t.
func (c Calendar) WeekStart(t time.Time) time.Time {
	d := c.day(t)
	offset := int(d.Weekday() - c.FirstWeekday)
	for offset < 0 {
		offset += 7
	}
	return d.AddDate(0, 0, -offset)
}

// Next returns the start of the week after the one containing t.
func (c Calendar) Next(t time.Time) time.Time {
	return c.WeekStart(t).AddDate(0, 0, 7)
}

// Previous returns the start of the week before the one containing t.
func (c Calendar) Previous(t time.Time) time.Time {
	return c.WeekStart(t).AddDate(0, 0, -7)
}

// SameWeek reports whether a and b fall in the same calendar week.
func (c Calendar) SameWeek(a, b time.Time) bool {
	return c.WeekStart(a).Equal(c.WeekStart(b))
}

// Key returns a sortable identifier such as "2026-W43".
// The ISO week of the week's mid-point is used, so the key is exact ISO for a
// Monday anchor and still injective for any other anchor.
func (c Calendar) Key(t time.Time) string {
	year, wk := c.WeekStart(t).AddDate(0, 0, 3).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, wk)
}

// Label returns a human-readable label. Display only.
func (c Calendar) Label(t time.Time) string {
	start := c.WeekStart(t)
	end := start.AddDate(0, 0, 6)
	_, wk := start.AddDate(0, 0, 3).ISOWeek()
	return fmt.Sprintf("Week %d · %s – %s", wk, start.Format("Jan 2"), end.Format("Jan 2, 2006"))
}

// DateString formats the week start of t for persistence.
func (c Calendar) DateString(t time.Time) string {
	return c.WeekStart(t).Format(DateFormat)
}

// ParseDate parses a persisted date in the calendar location.
func (c Calendar) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, s, c.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseWeekday parses "monday", "sunday", ... into a time.Weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", s)
}
