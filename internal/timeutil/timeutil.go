// Package timeutil canonicalizes the loosely formatted time strings the
// assistant and the mobile client send ("9:30", "5pm", "12am") into
// zero-padded 24-hour "HH:mm" form.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTime interprets a free-form time string and returns the hour and
// minute in 24-hour terms. ok is false when the input is empty or the
// hour segment is unparsable; a missing or unparsable minute segment
// defaults to 0. The function is pure and never fails hard: it is the
// single source of truth for time comparison everywhere in the backend.
func ParseTime(raw string) (hours, minutes int, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return 0, 0, false
	}

	if strings.Contains(lower, "pm") && !strings.HasPrefix(lower, "12") {
		hours = 12
	}
	// 12am resolves toward 00.
	if strings.HasPrefix(lower, "12") && strings.Contains(lower, "am") {
		hours = -12
	}

	stripped := strings.ReplaceAll(lower, "am", "")
	stripped = strings.ReplaceAll(stripped, "pm", "")
	parts := strings.Split(strings.TrimSpace(stripped), ":")

	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	hours += h

	if len(parts) > 1 {
		if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			minutes = m
		}
	}

	// 12pm would otherwise double-add to 24.
	if hours == 24 {
		hours = 12
	}

	return hours, minutes, true
}

// NormalizeTime converts raw into canonical "HH:mm". When the input
// cannot be parsed the raw string is returned unchanged, a deliberate
// degraded fallback: callers must treat any non-HH:mm-shaped result as
// unnormalizable. The function is idempotent on its own output.
func NormalizeTime(raw string) string {
	hours, minutes, ok := ParseTime(raw)
	if !ok {
		return raw
	}

	// Re-check literal 12am inputs, which the parse offset sent to 0.
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "12am" || strings.HasPrefix(lower, "12:") {
		if strings.Contains(lower, "am") {
			hours = 0
		}
	}

	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
