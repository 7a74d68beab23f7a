// Package officehours decides whether inbound chat traffic should be routed
// straight to chat or to the prechat lead-capture form, based on a weekly
// schedule with holiday exceptions. All functions are pure over their inputs.
package officehours

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DefaultTimezone = "Asia/Kolkata"

var weekdayKeys = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var timePattern = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

type DaySchedule struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type Holiday struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Recurring bool   `json:"recurring"`
}

type Schedule struct {
	Enabled  bool                   `json:"enabled"`
	Timezone string                 `json:"timezone"`
	Weekdays map[string]DaySchedule `json:"weekdays"`
	Holidays []Holiday              `json:"holidays"`
}

// Status reports the evaluation outcome. ShowPrechatForm is always the
// negation of IsOfficeHours; it exists as a field only so the JSON response
// keeps the shape the widget expects. Build values through newStatus so the
// two cannot drift apart.
type Status struct {
	IsOfficeHours   bool   `json:"isOfficeHours"`
	Reason          string `json:"reason"`
	ShowPrechatForm bool   `json:"showPrechatForm"`
}

func newStatus(isOfficeHours bool, reason string) Status {
	return Status{
		IsOfficeHours:   isOfficeHours,
		Reason:          reason,
		ShowPrechatForm: !isOfficeHours,
	}
}

// Default returns the schedule used before an admin has configured anything:
// Monday through Friday 10:00-17:00, weekends off, no holidays.
func Default() Schedule {
	weekdays := make(map[string]DaySchedule, len(weekdayKeys))
	for _, day := range weekdayKeys {
		enabled := day != "saturday" && day != "sunday"
		weekdays[day] = DaySchedule{Enabled: enabled, Start: "10:00", End: "17:00"}
	}
	return Schedule{
		Enabled:  true,
		Timezone: DefaultTimezone,
		Weekdays: weekdays,
		Holidays: []Holiday{},
	}
}

// Evaluate reports whether now falls within office hours. now is converted
// into the schedule's timezone; an unloadable zone degrades to UTC rather
// than failing, since a stored schedule must always evaluate.
func Evaluate(schedule Schedule, now time.Time) Status {
	if !schedule.Enabled {
		return newStatus(false, "disabled")
	}

	local := now.In(location(schedule.Timezone))

	// Holidays are checked in configured order; the first match wins.
	for _, holiday := range schedule.Holidays {
		date, err := parseHolidayDate(holiday.Date)
		if err != nil {
			continue
		}
		if holiday.Recurring {
			if date.Month() == local.Month() && date.Day() == local.Day() {
				return newStatus(false, "holiday:"+holiday.Name)
			}
		} else if sameDate(date, local) {
			return newStatus(false, "holiday:"+holiday.Name)
		}
	}

	day, ok := schedule.Weekdays[weekdayKey(local.Weekday())]
	if !ok || !day.Enabled {
		return newStatus(false, "non-workday")
	}

	minute := local.Hour()*60 + local.Minute()
	start, errStart := minuteOfDay(day.Start)
	end, errEnd := minuteOfDay(day.End)
	if errStart != nil || errEnd != nil {
		return newStatus(false, "non-workday")
	}

	// Inclusive on both ends: a visitor arriving exactly at closing time is
	// still within office hours.
	if minute >= start && minute <= end {
		return newStatus(true, "within-hours")
	}
	return newStatus(false, "outside-hours")
}

// Validate checks the structural invariants of a schedule before it is
// accepted. Validation is atomic: the first violation rejects the whole
// schedule and nothing is coerced.
func Validate(schedule Schedule) error {
	if schedule.Weekdays == nil {
		return fmt.Errorf("weekdays configuration is required")
	}

	if strings.TrimSpace(schedule.Timezone) != "" {
		if _, err := time.LoadLocation(schedule.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", schedule.Timezone)
		}
	}

	for _, day := range weekdayKeys {
		config, ok := schedule.Weekdays[day]
		if !ok {
			return fmt.Errorf("missing configuration for %s", day)
		}
		if !config.Enabled {
			continue
		}
		if !timePattern.MatchString(config.Start) || !timePattern.MatchString(config.End) {
			return fmt.Errorf("invalid time format for %s, expected HH:MM", day)
		}
		start, _ := minuteOfDay(config.Start)
		end, _ := minuteOfDay(config.End)
		if start > end {
			return fmt.Errorf("start time after end time for %s", day)
		}
	}

	for _, holiday := range schedule.Holidays {
		if strings.TrimSpace(holiday.Name) == "" {
			return fmt.Errorf("each holiday must have a name")
		}
		if _, err := parseHolidayDate(holiday.Date); err != nil {
			return fmt.Errorf("invalid date for holiday %q: %s", holiday.Name, holiday.Date)
		}
	}

	return nil
}

func location(name string) *time.Location {
	if strings.TrimSpace(name) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseHolidayDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func weekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}

func minuteOfDay(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	return hour*60 + minute, nil
}
