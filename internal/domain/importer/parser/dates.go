package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Statement dates are day-first throughout: UK consumer statements never use
// MM/DD ordering.
var (
	slashDateRe     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
	isoDateRe       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	monthNameDateRe = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3,9})\.?(?:\s+(\d{4}))?$`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// genericDateLayouts is the best-effort fallback list, tried in order.
var genericDateLayouts = []string{
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"2 January 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

// ParseDate parses a statement date string. Accepted forms, in priority
// order: DD/MM/YYYY, DD/MM/YY (years <50 are 2000s), ISO YYYY-MM-DD, and
// "DD Mon[th] [YYYY]" where a missing year defaults to now's year, rolled back
// one year if that would put the date in the future. Any other form falls
// through to a generic layout list.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		return makeDate(year, month, day, s)
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day, s)
	}

	if m := monthNameDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := monthsByName[strings.ToLower(m[2])[:3]]
		if ok {
			year := now.Year()
			explicit := m[3] != ""
			if explicit {
				year, _ = strconv.Atoi(m[3])
			}
			d, err := makeDate(year, int(month), day, s)
			if err != nil {
				return time.Time{}, err
			}
			if !explicit && d.After(now) {
				d = d.AddDate(-1, 0, 0)
			}
			return d, nil
		}
	}

	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", raw)
}

// makeDate builds a UTC date and rejects out-of-range components, which
// time.Date would otherwise silently normalize.
func makeDate(year, month, day int, raw string) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date: %q", raw)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, fmt.Errorf("invalid date: %q", raw)
	}
	return d, nil
}
