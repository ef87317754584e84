package planner

import (
	"errors"
	"testing"
)

func TestCheckOverlaps(t *testing.T) {
	touching := []Interval{{Index: 0, Start: 8 * 60, End: 9 * 60}, {Index: 1, Start: 9 * 60, End: 10 * 60}}
	if err := CheckOverlaps(touching); err != nil {
		t.Fatalf("touching intervals: unexpected error %v", err)
	}
	overlapping := []Interval{{Index: 0, Start: 9 * 60, End: 10 * 60}, {Index: 1, Start: 8 * 60, End: 9*60 + 30}}
	err := CheckOverlaps(overlapping)
	if !errors.Is(err, ErrTimeOverlap) {
		t.Fatalf("overlap: want ErrTimeOverlap got=%v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Index != 0 {
		t.Fatalf("overlap index: want=0 got=%+v", fe)
	}
}

func TestParseInterval(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"ok", "08:00", "09:00", nil},
		{"seconds", "08:00:00", "09:30:59", nil},
		{"missing start", "", "09:00", ErrMissingField},
		{"reversed", "10:00", "09:00", ErrInvalidField},
		{"equal", "10:00", "10:00", ErrInvalidField},
		{"bad format", "8am", "09:00", ErrInvalidField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseInterval(0, tc.start, tc.end)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("want=%v got=%v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	ok := CategoryFields{Activity: "Work", ColorName: "red", HexColorCode: "#FF0000", TextColorCode: "#FFFFFF"}
	if err := ValidateCategory(0, ok); err != nil {
		t.Fatalf("valid category: %v", err)
	}
	noActivity := ok
	noActivity.Activity = "  "
	if err := ValidateCategory(0, noActivity); !errors.Is(err, ErrMissingField) {
		t.Fatalf("missing activity: got=%v", err)
	}
	badHex := ok
	badHex.HexColorCode = "red"
	if err := ValidateCategory(0, badHex); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("bad hex: got=%v", err)
	}
}

func TestCheckDistinctColors(t *testing.T) {
	if err := CheckDistinctColors([]string{"#FF0000", "#00FF00"}); err != nil {
		t.Fatalf("distinct: %v", err)
	}
	if err := CheckDistinctColors([]string{"#ff0000", "#FF0000"}); !errors.Is(err, ErrDuplicateColor) {
		t.Fatalf("duplicate: got=%v", err)
	}
}

func TestValidateGoal(t *testing.T) {
	dur := 30
	title, color, hex := "Read", "blue", "#0000FF"
	unlinked := GoalFields{Title: &title, ColorName: &color, HexColorCode: &hex, Detail: "10 pages", DurationMinutes: &dur}
	if err := ValidateGoal(0, unlinked); err != nil {
		t.Fatalf("unlinked goal: %v", err)
	}
	noTitle := unlinked
	noTitle.Title = nil
	if err := ValidateGoal(0, noTitle); !errors.Is(err, ErrMissingField) {
		t.Fatalf("missing title: got=%v", err)
	}
	linked := GoalFields{IsLinked: true, Detail: "gym", DurationMinutes: &dur}
	if err := ValidateGoal(0, linked); err != nil {
		t.Fatalf("linked goal: %v", err)
	}
	tooLong := 1441
	linked.DurationMinutes = &tooLong
	if err := ValidateGoal(0, linked); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("duration: got=%v", err)
	}
}

func TestTextColorFor(t *testing.T) {
	if got := TextColorFor("#FFFFFF"); got != "#000000" {
		t.Fatalf("white bg: want=#000000 got=%s", got)
	}
	if got := TextColorFor("#1A237E"); got != "#FFFFFF" {
		t.Fatalf("dark bg: want=#FFFFFF got=%s", got)
	}
}

func TestClockRoundTrip(t *testing.T) {
	got, err := NormalizeClock("07:05:33")
	if err != nil || got != "07:05" {
		t.Fatalf("normalize: want=07:05 got=%q err=%v", got, err)
	}
	if _, err := ParseDate("2025-02-30"); err == nil {
		t.Fatalf("invalid date accepted")
	}
	if _, err := ParseLogTime("2025-03-01 07:30:00"); err != nil {
		t.Fatalf("log time: %v", err)
	}
}
