package planner

import (
	"fmt"
	"strings"
	"time"
)

const MinutesPerDay = 24 * 60

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ParseClock converts "HH:MM" or "HH:MM:SS" into minutes after midnight.
// Seconds are dropped.
func ParseClock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == len("15:04:05") {
		raw = raw[:len(clockLayout)]
	}
	t, err := time.Parse(clockLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", raw, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock returns the HH:MM form of a clock string.
func NormalizeClock(raw string) (string, error) {
	m, err := ParseClock(raw)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// ParseDate parses YYYY-MM-DD into midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DateOnly drops the clock part of t, keeping its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var logTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	dateLayout,
}

// ParseLogTime accepts the timestamp shapes clients send for habit logs.
func ParseLogTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range logTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse log time %q: unsupported format", raw)
}
