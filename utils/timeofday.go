package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var bangkok = loadBangkok()

func loadBangkok() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		// No DST in Thailand, so the fixed offset is always correct.
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// Bangkok returns the timezone all booking times are interpreted in.
func Bangkok() *time.Location {
	return bangkok
}

// ParseHHMM parses a "HH:MM" time-of-day string and validates the range
// 00:00 to 23:59.
func ParseHHMM(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}

// MinuteOfDay converts a "HH:MM" string to minutes from midnight.
func MinuteOfDay(s string) (int, error) {
	h, m, err := ParseHHMM(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// CombineBangkok combines a "2006-01-02" date and a "HH:MM" time-of-day into
// a Bangkok-local time.Time.
func CombineBangkok(date, hhmm string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, bangkok)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, hhmm, err)
	}
	return t, nil
}
