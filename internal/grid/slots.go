// Package grid derives the discrete scheduling grid for a room and
// aggregates participant busy marks into the views the transport layer
// renders. Every function is pure; callers pass complete snapshots and own
// all mutable state.
package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekdays is the fixed alphabet of day labels a room may select from.
var Weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// slotSeparator joins day and time labels into a slot identifier. It never
// appears inside a day or time label, keeping SlotID injective.
const slotSeparator = "-"

// ParseClock converts an "HH:MM" 24-hour label into minutes from midnight.
// Hour 24 is accepted only as "24:00" so a room window may end at midnight.
// The second return value reports whether the label was well formed.
func ParseClock(label string) (int, bool) {
	parts := strings.Split(label, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 {
		return 0, false
	}
	if hour == 24 && minute != 0 {
		return 0, false
	}
	return hour*60 + minute, true
}

// TimeSlots enumerates the ordered time labels for a room window. Starting at
// startTime it emits zero-padded "HH:MM" labels stepped by slotMinutes,
// stopping strictly before endTime. Malformed labels, a non-positive
// duration, or startTime >= endTime all yield an empty sequence rather than
// an error so rendering degrades to an empty state.
func TimeSlots(startTime, endTime string, slotMinutes int) []string {
	start, ok := ParseClock(startTime)
	if !ok {
		return nil
	}
	end, ok := ParseClock(endTime)
	if !ok {
		return nil
	}
	if slotMinutes <= 0 || start >= end {
		return nil
	}

	slots := make([]string, 0, (end-start+slotMinutes-1)/slotMinutes)
	hour := start / 60
	minute := start % 60
	for {
		if hour*60+minute >= end {
			break
		}
		slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		minute += slotMinutes
		if minute >= 60 {
			hour += minute / 60
			minute = minute % 60
		}
	}
	return slots
}

// SlotID builds the canonical identifier for a (day, time) cell. Producers
// and consumers must use the same construction: busy marks carrying any other
// format silently match no slot.
func SlotID(day, timeLabel string) string {
	return day + slotSeparator + timeLabel
}
