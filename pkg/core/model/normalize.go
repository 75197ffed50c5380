package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeTrainer converts a raw trainer name into its canonical ID:
// lower-cased, trimmed, with internal whitespace runs collapsed to a single
// space.
func NormalizeTrainer(name string) TrainerID {
	fields := strings.Fields(strings.ToLower(name))
	return TrainerID(strings.Join(fields, " "))
}

// Weekdays in schedule order, used for deterministic iteration over the
// weekly schedule.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekdayIndex = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

// NormalizeDay maps a day name in any casing to its canonical form.
// Unrecognized input is returned trimmed as-is.
func NormalizeDay(day string) string {
	if idx, ok := weekdayIndex[strings.ToLower(strings.TrimSpace(day))]; ok {
		return Weekdays[idx]
	}
	return strings.TrimSpace(day)
}

// NextOccurrence returns the next calendar date on or after from that falls
// on the given weekday (a slot on today's weekday resolves to today).
// Unrecognized day names return from unchanged.
func NextOccurrence(day string, from time.Time) time.Time {
	target, ok := weekdayIndex[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return from
	}
	// time.Weekday has Sunday==0; our week starts Monday
	current := (int(from.Weekday()) + 6) % 7
	delta := (target - current + 7) % 7
	return from.AddDate(0, 0, delta)
}

// NormalizeTime converts the time formats seen in schedule sources into 24h
// "HH:MM". Accepted inputs: "HH:MM", "HH:MM:SS" (seconds dropped),
// "H:MM AM"/"H:MMPM" (12-hour with or without a space before the meridiem).
func NormalizeTime(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty time value")
	}

	upper := strings.ToUpper(s)
	meridiem := ""
	for _, m := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, m) {
			meridiem = m
			s = strings.TrimSpace(s[:len(s)-2])
			break
		}
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return "", fmt.Errorf("unrecognized time format %q", raw)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", fmt.Errorf("unrecognized time format %q", raw)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", fmt.Errorf("unrecognized time format %q", raw)
	}

	switch meridiem {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("time %q out of range", raw)
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// TimeMinutes converts a normalized "HH:MM" string to minutes since
// midnight. Returns -1 for malformed input.
func TimeMinutes(hhmm string) int {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return -1
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return -1
	}
	return hour*60 + minute
}

// TimeHour returns the hour component of a normalized "HH:MM" string, or -1
// for malformed input.
func TimeHour(hhmm string) int {
	minutes := TimeMinutes(hhmm)
	if minutes < 0 {
		return -1
	}
	return minutes / 60
}
