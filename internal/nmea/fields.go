package nmea

import (
	"math"
	"strconv"
	"strings"
)

// splitFields splits a sentence on ',' and '*'. The first element is the
// "$" + talker + type token, the last one is the checksum token. Empty fields
// between consecutive separators are preserved.
func splitFields(sentence string) []string {
	out := make([]string, 0, 24)
	start := 0
	for i := 0; i < len(sentence); i++ {
		if sentence[i] == ',' || sentence[i] == '*' {
			out = append(out, sentence[start:i])
			start = i + 1
		}
	}
	return append(out, sentence[start:])
}

// field returns f[i] trimmed, or "" when the sentence is too short.
func field(f []string, i int) string {
	if i < 0 || i >= len(f) {
		return ""
	}
	return strings.TrimSpace(f[i])
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func floatOr(s string, def float64) float64 {
	if v, ok := parseFloat(s); ok {
		return v
	}
	return def
}

func intOr(s string, def int) int {
	if v, ok := parseInt(s); ok {
		return v
	}
	return def
}
