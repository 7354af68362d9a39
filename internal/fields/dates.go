package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthNames = `Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?`

var (
	numericDateRe   = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})\b`)
	isoDateRe       = regexp.MustCompile(`\b(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})\b`)
	shortYearDateRe = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{2})\b`)
	dayMonthYearRe  = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthNames + `)\s+(\d{4})\b`)
	monthDayYearRe  = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+(\d{1,2}),?\s+(\d{4})\b`)
)

var monthByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Dates extracts every date it can find in text, across all supported
// formats. Matches that do not form a valid calendar date are skipped;
// a single bad match never fails the extraction.
//
// Ambiguous numeric dates (both components <= 12) are assumed day-first.
// There is no locale signal to do better; this is an accepted source of
// misparsed dates rather than something to silently "fix".
func Dates(text string) []time.Time {
	var dates []time.Time

	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		a, b, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if d, ok := resolveDayMonth(a, b, year); ok {
			dates = append(dates, d)
		}
	}
	for _, m := range isoDateRe.FindAllStringSubmatch(text, -1) {
		if d, ok := newDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			dates = append(dates, d)
		}
	}
	for _, m := range shortYearDateRe.FindAllStringSubmatch(text, -1) {
		a, b, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if d, ok := resolveDayMonth(a, b, year); ok {
			dates = append(dates, d)
		}
	}
	for _, m := range dayMonthYearRe.FindAllStringSubmatch(text, -1) {
		month := monthByPrefix[strings.ToLower(m[2])[:3]]
		if d, ok := newDate(atoi(m[3]), int(month), atoi(m[1])); ok {
			dates = append(dates, d)
		}
	}
	for _, m := range monthDayYearRe.FindAllStringSubmatch(text, -1) {
		month := monthByPrefix[strings.ToLower(m[1])[:3]]
		if d, ok := newDate(atoi(m[3]), int(month), atoi(m[2])); ok {
			dates = append(dates, d)
		}
	}

	return dates
}

// resolveDayMonth applies the day/month disambiguation rule: a component
// greater than 12 must be the day; otherwise assume day-first.
func resolveDayMonth(a, b, year int) (time.Time, bool) {
	day, month := a, b
	if a <= 12 && b > 12 {
		day, month = b, a
	}
	return newDate(year, month, day)
}

// newDate builds a date and rejects values that do not form a real calendar
// date. time.Date normalizes out-of-range components (Feb 30 becomes Mar 2),
// so the result is checked against the inputs.
func newDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
