package booking

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"2 January 2006",
}

// frenchMonths lets spoken dates like "15 juillet 2024" go through the
// "2 January 2006" layout. Keys are lowercase.
var frenchMonths = map[string]string{
	"janvier":   "January",
	"février":   "February",
	"fevrier":   "February",
	"mars":      "March",
	"avril":     "April",
	"mai":       "May",
	"juin":      "June",
	"juillet":   "July",
	"août":      "August",
	"aout":      "August",
	"septembre": "September",
	"octobre":   "October",
	"novembre":  "November",
	"décembre":  "December",
	"decembre":  "December",
}

// ParseDate parses the date text the assistant relayed from the caller.
// Accepted formats, in order: day/month/year, ISO year-month-day,
// day-month-year, and "day Month year" with French or English month names.
// The result is midnight of that day in the clinic timezone. Impossible
// dates such as 31/02 are rejected by the layout parse itself.
func ParseDate(text string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	candidates := []string{trimmed}
	if translated := translateFrenchMonth(trimmed); translated != trimmed {
		candidates = append(candidates, translated)
	}

	for _, candidate := range candidates {
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, candidate, loc); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, ErrDateParse
}

func translateFrenchMonth(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i, w := range words {
		if english, ok := frenchMonths[w]; ok {
			words[i] = english
		}
	}
	return strings.Join(words, " ")
}
