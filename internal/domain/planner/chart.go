package planner

import (
	"sort"
	"strings"
)

const (
	UndefinedLabel    = "undefined"
	UndefinedColor    = "#000000"
	DefaultChartColor = "#9E9E9E"
)

// ChartEntry is one schedule slot as fed to the day chart.
type ChartEntry struct {
	StartTime string
	EndTime   string
	Label     string
	Color     string
}

// ChartData is a day split into labeled segments whose minutes sum to 1440.
type ChartData struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Colors []string `json:"colors"`
}

func (c *ChartData) push(label string, minutes int, color string) {
	c.Labels = append(c.Labels, label)
	c.Data = append(c.Data, minutes)
	c.Colors = append(c.Colors, color)
}

// Total returns the number of minutes covered by all segments.
func (c ChartData) Total() int {
	total := 0
	for _, d := range c.Data {
		total += d
	}
	return total
}

type chartSlot struct {
	start int
	end   int
	label string
	color string
}

// FormatDayChart lays schedule slots over a 24h day. Gaps become
// "undefined" segments, overlapping slots are clipped to the previous end
// and zero-length slots are dropped.
func FormatDayChart(entries []ChartEntry) ChartData {
	slots := make([]chartSlot, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.StartTime) == "" || strings.TrimSpace(e.EndTime) == "" {
			continue
		}
		start, err := ParseClock(e.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(e.EndTime)
		if err != nil {
			continue
		}
		if end < start {
			end = MinutesPerDay
		}
		slots = append(slots, chartSlot{start: start, end: end, label: e.Label, color: e.Color})
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].start < slots[j].start })

	out := ChartData{Labels: []string{}, Data: []int{}, Colors: []string{}}
	lastEnd := 0
	for _, s := range slots {
		if s.start > lastEnd {
			out.push(UndefinedLabel, s.start-lastEnd, UndefinedColor)
			lastEnd = s.start
		}
		start := max(s.start, lastEnd)
		end := min(max(start, s.end), MinutesPerDay)
		if end-start > 0 {
			color := s.color
			if color == "" {
				color = DefaultChartColor
			}
			out.push(s.label, end-start, color)
			lastEnd = end
		}
		if lastEnd >= MinutesPerDay {
			break
		}
	}
	if lastEnd < MinutesPerDay {
		out.push(UndefinedLabel, MinutesPerDay-lastEnd, UndefinedColor)
	}
	return out
}
