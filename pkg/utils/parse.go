package utils

import (
	"fmt"
	"strconv"
	"time"
)

var tradeDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTradeDate parses a trade entry timestamp. It accepts RFC3339 as
// well as the shorter forms produced by datetime-local inputs.
func ParseTradeDate(s string) (time.Time, error) {
	for _, layout := range tradeDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// ParseFloatOrZero parses a decimal field, falling back to 0 when the
// value is absent or unparseable.
func ParseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
