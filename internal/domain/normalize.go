package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// sentinelUnknown is the archive's marker for an unknown field value.
const sentinelUnknown = "?"

var (
	// bareClockRe matches times written without a colon, e.g. "1600" or "930".
	bareClockRe = regexp.MustCompile(`^\d{3,4}$`)

	// countTotalRe extracts the leading total from a count-triple,
	// e.g. "7 (passengers:6 crew:1)" -> 7.
	countTotalRe = regexp.MustCompile(`^(\d+)`)

	// passengersRe and crewRe find the parenthesized sub-counts anywhere in
	// the text; "?" marks an unknown sub-count.
	passengersRe = regexp.MustCompile(`passengers:([\d?]+)`)
	crewRe       = regexp.MustCompile(`crew:([\d?]+)`)

	// locationPrefixRe matches directional prefixes stripped before geocoding.
	locationPrefixRe = regexp.MustCompile(`(?i)^(Near|Off|Over)\s+`)
)

// NormalizeTime converts an archive time string to 24-hour HH:MM.
// Bare 3-4 digit values are zero-padded and reformatted without validating
// hour or minute ranges; otherwise a 12-hour clock with meridiem is tried,
// then a plain 24-hour clock. Anything else, "?", and empty input are null.
func NormalizeTime(raw string) Cell {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" || s == sentinelUnknown {
		return NullCell()
	}

	if bareClockRe.MatchString(s) {
		if len(s) == 3 {
			s = "0" + s
		}
		return TextCell(s[:2] + ":" + s[2:])
	}

	if t, err := time.Parse("3:04 PM", s); err == nil {
		return TextCell(t.Format("15:04"))
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return TextCell(t.Format("15:04"))
	}
	return NullCell()
}

// ParseCountTriple splits an Aboard or Fatalities value of the shape
// "<total> (passengers:<n|?> crew:<n|?>)" into its three components. Each
// component is null when absent, marked "?", or unparseable; text that does
// not match the expected shape at all yields three null cells.
func ParseCountTriple(raw string) (total, passengers, crew Cell) {
	raw = strings.TrimSpace(raw)
	return subCount(countTotalRe, raw), subCount(passengersRe, raw), subCount(crewRe, raw)
}

func subCount(re *regexp.Regexp, text string) Cell {
	m := re.FindStringSubmatch(text)
	if m == nil || m[1] == sentinelUnknown {
		return NullCell()
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return NullCell()
	}
	return IntCell(n)
}

// CleanLocation strips a leading directional prefix ("Near", "Off", "Over",
// case-insensitive) from a location string before geocoding. The cache key
// stays the original string; only the lookup query is cleaned.
func CleanLocation(location string) string {
	return strings.TrimSpace(locationPrefixRe.ReplaceAllString(location, ""))
}
