package models

import (
	"fmt"
	"time"
)

// WorkingDay is one day of a provider's weekly schedule. Times are "15:04"
// wall-clock strings interpreted in the booking's location.
type WorkingDay struct {
	Weekday    time.Weekday `bson:"weekday" json:"weekday"`
	Start      string       `bson:"start" json:"start"`
	End        string       `bson:"end" json:"end"`
	BreakStart string       `bson:"breakStart,omitempty" json:"breakStart,omitempty"`
	BreakEnd   string       `bson:"breakEnd,omitempty" json:"breakEnd,omitempty"`
}

// ClockMinutes parses an "HH:MM" wall-clock time into minutes after midnight.
func ClockMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// On returns hhmm on the calendar date of day.
func On(day time.Time, hhmm string) (time.Time, error) {
	minutes, err := ClockMinutes(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, day.Location()), nil
}

// HasBreak reports whether both break bounds are set.
func (w WorkingDay) HasBreak() bool {
	return w.BreakStart != "" && w.BreakEnd != ""
}

// WorkingDayFor returns the schedule entry for weekday, if the provider works that day.
func (p *Provider) WorkingDayFor(weekday time.Weekday) (WorkingDay, bool) {
	for _, d := range p.Schedule {
		if d.Weekday == weekday {
			return d, true
		}
	}
	return WorkingDay{}, false
}
