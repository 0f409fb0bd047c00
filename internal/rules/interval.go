package rules

import (
	"strconv"
	"strings"
)

// parseInterval parses a closed lot-size interval encoded as "min-max".
// Malformed entries report ok=false instead of an error so that one bad
// interval never aborts evaluation of the remaining allowed ranges.
func parseInterval(s string) (min, max float64, ok bool) {
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}

	min, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	max, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}

	return min, max, true
}

// inAnyInterval reports whether lots falls inside at least one of the
// "min-max" intervals. Bounds are inclusive; unparseable intervals never match.
func inAnyInterval(lots float64, intervals []string) bool {
	for _, entry := range intervals {
		min, max, ok := parseInterval(entry)
		if !ok {
			continue
		}
		if lots >= min && lots <= max {
			return true
		}
	}
	return false
}
