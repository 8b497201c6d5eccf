// Package scheduling holds the slot arithmetic behind appointment
// booking: the weekday availability template, reservation lookups and
// the offered-minus-reserved computation that yields bookable hours.
package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// DateLayout is the day-granular calendar date format used on the wire
	// and in storage.
	DateLayout = "2006-01-02"
	// HourLayout is the wall-clock slot format.
	HourLayout = "15:04"
)

// Weekdays are the days a doctor can publish availability for, in week
// order. Weekend availability is not modeled.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

// IsWeekday reports whether name is one of the supported weekday names.
func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// WeekdayOf computes the lowercase English weekday name for a calendar
// date using the calendar itself, never a locale-formatted string.
func WeekdayOf(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return strings.ToLower(t.Weekday().String()), nil
}

// ValidDate reports whether date is a well-formed calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// ValidHour reports whether hour is a well-formed, zero-padded "HH:MM"
// slot. time.Parse alone would accept "9:00", which would never match a
// stored "09:00" reservation.
func ValidHour(hour string) bool {
	if len(hour) != len(HourLayout) {
		return false
	}
	_, err := time.Parse(HourLayout, hour)
	return err == nil
}

// IsPastDate reports whether date falls strictly before today, at day
// granularity. ISO dates compare correctly as strings once validated.
func IsPastDate(date string, now time.Time) bool {
	return date < now.Format(DateLayout)
}

// DefaultHours returns the standard hourly template, 09:00 through 18:00.
func DefaultHours() []string {
	hours := make([]string, 0, 10)
	for h := 9; h <= 18; h++ {
		hours = append(hours, fmt.Sprintf("%02d:00", h))
	}
	return hours
}

// FreeSlots returns the offered hours not present in reserved, preserving
// the order of offered. It never mutates its inputs.
func FreeSlots(offered []string, reserved []string) []string {
	taken := make(map[string]struct{}, len(reserved))
	for _, r := range reserved {
		taken[r] = struct{}{}
	}
	free := make([]string, 0, len(offered))
	for _, h := range offered {
		if _, ok := taken[h]; !ok {
			free = append(free, h)
		}
	}
	return free
}

// ResetHours rebuilds a weekday's availability from the default template
// while keeping every reserved hour, so a reset can never drop a slot
// that has a live booking. The result is sorted and duplicate free.
func ResetHours(reserved []string) []string {
	seen := make(map[string]struct{})
	hours := make([]string, 0, len(reserved)+10)
	for _, h := range append(DefaultHours(), reserved...) {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		hours = append(hours, h)
	}
	sort.Strings(hours)
	return hours
}

// ValidateHours checks a full replacement availability list: every entry
// must be a well-formed hour and entries must not repeat.
func ValidateHours(hours []string) error {
	seen := make(map[string]struct{}, len(hours))
	for _, h := range hours {
		if !ValidHour(h) {
			return fmt.Errorf("invalid hour %q, expected HH:MM", h)
		}
		if _, ok := seen[h]; ok {
			return fmt.Errorf("duplicate hour %q", h)
		}
		seen[h] = struct{}{}
	}
	return nil
}
