package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// currencyTokens are stripped from either end of a numeric cell.
var currencyTokens = []string{
	"$", "€", "£", "¥", "﷼", "sar", "usd", "eur", "gbp", "aed", "egp", "ر.س", "ريال",
}

// MaxMagnitude is the largest absolute value ParseNumber accepts. Column sums
// and price times quantity products stay finite under it.
const MaxMagnitude = 1e15

// ParseNumber converts a raw cell to a float. It accepts currency markers,
// percent signs, accounting negatives "(12.50)" and both "1,234.5" and
// "1.234,5" separator conventions. A lone comma followed by exactly three
// digits is read as a thousands separator. Values beyond MaxMagnitude do not
// parse.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if raw == "" || IsMissing(raw) {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		neg = true
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	raw = strings.TrimSuffix(raw, "%")
	raw = stripCurrency(raw)
	if raw == "" {
		return 0, false
	}

	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	dec, thou := '.', ','
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			dec, thou = ',', '.'
		}
	case cpos >= 0:
		tail := raw[cpos+1:]
		if len(tail) != 3 || strings.Count(raw, ",") == 1 && len(strings.TrimLeft(raw[:cpos], "+-")) > 3 {
			dec, thou = ',', '.'
		}
	case dpos >= 0 && strings.Count(raw, ".") > 1:
		dec, thou = ',', '.'
	}
	raw = strings.ReplaceAll(raw, string(thou), "")
	raw = strings.ReplaceAll(raw, " ", "")
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > MaxMagnitude {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

func stripCurrency(s string) string {
	for changed := true; changed; {
		changed = false
		lower := strings.ToLower(s)
		for _, tok := range currencyTokens {
			if strings.HasPrefix(lower, tok) {
				s = strings.TrimSpace(s[len(tok):])
				changed = true
				break
			}
			if strings.HasSuffix(lower, tok) {
				s = strings.TrimSpace(s[:len(s)-len(tok)])
				changed = true
				break
			}
		}
	}
	return s
}

// dateLayouts are tried in order; month-first slashes win over day-first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006",
	"1-2-2006",
	"2-1-2006",
	"2.1.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"1/2/06",
	"2/1/06",
}

// twoDigitYearPivot folds two-digit years that land too far in the future
// back into the previous century.
const twoDigitYearPivot = 20

// ParseDate converts a raw cell to a time. Bare integers are never dates.
func ParseDate(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" || IsMissing(v) {
		return time.Time{}, false
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		t, err := time.Parse(l, v)
		if err != nil {
			continue
		}
		if strings.HasSuffix(l, "/06") && t.Year() > time.Now().Year()+twoDigitYearPivot {
			t = t.AddDate(-100, 0, 0)
		}
		return t, true
	}
	return time.Time{}, false
}

// DateRatio returns the share of the first n non-missing values of col that
// parse as dates, and how many values were sampled.
func DateRatio(col []string, n int) (float64, int) {
	ok, seen := 0, 0
	for _, v := range col {
		if IsMissing(v) {
			continue
		}
		seen++
		if _, good := ParseDate(v); good {
			ok++
		}
		if seen >= n {
			break
		}
	}
	if seen == 0 {
		return 0, 0
	}
	return float64(ok) / float64(seen), seen
}

// NumericRatio returns the share of non-missing values of col that parse as
// numbers, and the number of non-missing values.
func NumericRatio(col []string) (float64, int) {
	ok, seen := 0, 0
	for _, v := range col {
		if IsMissing(v) {
			continue
		}
		seen++
		if _, good := ParseNumber(v); good {
			ok++
		}
	}
	if seen == 0 {
		return 0, 0
	}
	return float64(ok) / float64(seen), seen
}
