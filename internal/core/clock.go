package core

import (
	"strconv"
	"strings"
	"time"
)

// Sentinels for unusable clock values, chosen so they can never win a
// first/last comparison.
const (
	firstSentinel = int(^uint(0) >> 1) // max int
	lastSentinel  = -1
)

// splitTimestamp breaks an ISO-8601 timestamp into its UTC calendar date and
// minute-precision clock time. An unparsable timestamp is a data-quality
// anomaly, not an error: it yields empty strings and the row still surfaces.
func splitTimestamp(iso string) (date, clock string) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(iso))
	if err != nil {
		return "", ""
	}
	t = t.UTC()
	return t.Format("2006-01-02"), t.Format("15:04")
}

// minutesOfDay parses a minute-precision clock time into minutes since
// midnight. Both the colon-delimited "HH:mm" and the dot-delimited "HH.mm"
// form appear in the data (the latter from a Thai-locale keyboard).
func minutesOfDay(clock string) (int, bool) {
	clock = strings.TrimSpace(clock)
	sep := ":"
	if !strings.Contains(clock, sep) {
		sep = "."
	}
	parts := strings.SplitN(clock, sep, 2)
	if len(parts) != 2 {
		return 0, false
	}

	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
