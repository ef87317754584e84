package planner

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MaxLabelLength     = 30
	MaxDetailLength    = 1000
	MaxDurationMinutes = MinutesPerDay
	MaxExecutionTime   = 86400
	lastMinuteOfDay    = MinutesPerDay - 1
)

// CategoryFields are the reconcilable fields of an activity category.
type CategoryFields struct {
	Activity      string
	ColorName     string
	HexColorCode  string
	TextColorCode string
}

func (f CategoryFields) Normalize() CategoryFields {
	return CategoryFields{
		Activity:      strings.TrimSpace(f.Activity),
		ColorName:     strings.TrimSpace(f.ColorName),
		HexColorCode:  strings.TrimSpace(f.HexColorCode),
		TextColorCode: strings.TrimSpace(f.TextColorCode),
	}
}

func ValidateCategory(index int, f CategoryFields) error {
	f = f.Normalize()
	switch {
	case f.Activity == "":
		return missing(index, "activity")
	case f.ColorName == "":
		return missing(index, "color_name")
	case f.HexColorCode == "":
		return missing(index, "hex_color_code")
	case f.TextColorCode == "":
		return missing(index, "text_color_code")
	}
	if err := checkLength(index, "activity", f.Activity, MaxLabelLength); err != nil {
		return err
	}
	if err := checkLength(index, "color_name", f.ColorName, MaxLabelLength); err != nil {
		return err
	}
	if !IsHexColor(f.HexColorCode) {
		return invalid(index, "hex_color_code", "must look like #RRGGBB")
	}
	if !IsHexColor(f.TextColorCode) {
		return invalid(index, "text_color_code", "must look like #RRGGBB")
	}
	return nil
}

// CheckDistinctColors rejects a payload that assigns the same hex color to
// two categories.
func CheckDistinctColors(hexes []string) error {
	seen := make(map[string]int, len(hexes))
	for i, h := range hexes {
		key := normalizeHex(h)
		if prev, ok := seen[key]; ok {
			return &FieldError{
				Index:  i,
				Field:  "hex_color_code",
				Reason: fmt.Sprintf("%s is already used by item %d", h, prev),
				Err:    ErrDuplicateColor,
			}
		}
		seen[key] = i
	}
	return nil
}

// Interval is a schedule slot in minutes after midnight.
type Interval struct {
	Index int
	Start int
	End   int
}

// ParseInterval validates one schedule slot. Start must precede end and the
// slot must fit inside 00:00..23:59.
func ParseInterval(index int, start, end string) (Interval, error) {
	if strings.TrimSpace(start) == "" {
		return Interval{}, missing(index, "start_time")
	}
	if strings.TrimSpace(end) == "" {
		return Interval{}, missing(index, "end_time")
	}
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, invalid(index, "start_time", "must be HH:MM")
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, invalid(index, "end_time", "must be HH:MM")
	}
	if e > lastMinuteOfDay {
		return Interval{}, invalid(index, "end_time", "must be 23:59 or earlier")
	}
	if s >= e {
		return Interval{}, invalid(index, "start_time", "must be before end_time")
	}
	return Interval{Index: index, Start: s, End: e}, nil
}

// CheckOverlaps reports the first pair of intervals that overlap. Touching
// intervals (one ends when the next starts) are allowed.
func CheckOverlaps(intervals []Interval) error {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 0; i+1 < len(sorted); i++ {
		cur, next := sorted[i], sorted[i+1]
		if cur.End > next.Start {
			return &FieldError{
				Index: next.Index,
				Field: "start_time",
				Reason: fmt.Sprintf("%s-%s overlaps %s-%s",
					FormatClock(next.Start), FormatClock(next.End), FormatClock(cur.Start), FormatClock(cur.End)),
				Err: ErrTimeOverlap,
			}
		}
	}
	return nil
}

// GoalFields are the reconcilable fields of a habit goal. Pointer fields are
// optional on the wire.
type GoalFields struct {
	IsLinked        bool
	ColorName       *string
	HexColorCode    *string
	Title           *string
	Detail          string
	DurationMinutes *int
}

// ValidateGoal checks display and target fields for a goal whose linkage is
// already known.
func ValidateGoal(index int, f GoalFields) error {
	if strings.TrimSpace(f.Detail) == "" {
		return missing(index, "detail")
	}
	if err := checkLength(index, "detail", f.Detail, MaxDetailLength); err != nil {
		return err
	}
	if f.DurationMinutes == nil {
		return missing(index, "duration_minutes")
	}
	if d := *f.DurationMinutes; d < 0 || d > MaxDurationMinutes {
		return invalid(index, "duration_minutes", fmt.Sprintf("must be between 0 and %d", MaxDurationMinutes))
	}
	if f.IsLinked {
		return nil
	}
	if blank(f.ColorName) {
		return missing(index, "color_name")
	}
	if err := checkLength(index, "color_name", *f.ColorName, MaxLabelLength); err != nil {
		return err
	}
	if blank(f.HexColorCode) {
		return missing(index, "hex_color_code")
	}
	if !IsHexColor(strings.TrimSpace(*f.HexColorCode)) {
		return invalid(index, "hex_color_code", "must look like #RRGGBB")
	}
	if blank(f.Title) {
		return missing(index, "title")
	}
	return checkLength(index, "title", *f.Title, MaxLabelLength)
}

func ValidateExecutionTime(seconds int) error {
	if seconds < 0 || seconds >= MaxExecutionTime {
		return invalid(-1, "execution_time", fmt.Sprintf("must be between 0 and %d", MaxExecutionTime-1))
	}
	return nil
}

func checkLength(index int, field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalid(index, field, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
