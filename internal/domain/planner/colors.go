package planner

import (
	"regexp"
	"strconv"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// TextColorFor picks black or white text for a background color using
// perceived luminance.
func TextColorFor(hex string) string {
	if !IsHexColor(hex) {
		return "#000000"
	}
	r, _ := strconv.ParseUint(hex[1:3], 16, 8)
	g, _ := strconv.ParseUint(hex[3:5], 16, 8)
	b, _ := strconv.ParseUint(hex[5:7], 16, 8)
	luminance := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if luminance > 186 {
		return "#000000"
	}
	return "#FFFFFF"
}

func normalizeHex(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
