package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime converts a 24-hour "H:MM" time into a 12-hour display string,
// e.g. "14:30" becomes "2:30 PM". Strings that already carry an am/pm marker
// are considered display-ready and returned unchanged. On any parse failure
// the original input is returned with ok=false; formatting is best-effort
// and never fails hard.
func FormatTime(raw string) (formatted string, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw, false
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "am") || strings.Contains(lower, "pm") {
		return raw, true
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return raw, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hours < 0 || hours > 23 {
		return raw, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 || minutes > 59 {
		return raw, false
	}

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes, period), true
}
