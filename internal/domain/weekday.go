package domain

import "time"

// Weekday is a fixed English day name ("Monday".."Sunday"). Schedules and
// reward rules key on these names; pinning them to Go's time.Weekday strings
// avoids locale-dependent mismatches.
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday().String())
}

func (w Weekday) Valid() bool {
	switch w {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	}
	return false
}

// DateFormat is the layout for assignment dates and KR date ranges.
const DateFormat = "2006-01-02"

func DateOf(t time.Time) string {
	return t.Format(DateFormat)
}
