package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

const monthNames = `jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec`

type datePattern struct {
	re *regexp.Regexp
	// toParts turns submatches into year, month, day strings
	toParts func(m []string) (y, mo, d string)
}

// datePatterns are tried in order on every candidate line
var datePatterns = []datePattern{
	{
		// MM/DD/YYYY, MM.DD.YY, MM-DD-YYYY
		re:      regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4}|\d{2})\b`),
		toParts: func(m []string) (string, string, string) { return m[3], m[1], m[2] },
	},
	{
		// YYYY-MM-DD, YYYY/MM/DD
		re:      regexp.MustCompile(`\b(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})\b`),
		toParts: func(m []string) (string, string, string) { return m[1], m[2], m[3] },
	},
	{
		// March 15, 2024
		re:      regexp.MustCompile(`(?i)\b(` + monthNames + `)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`),
		toParts: func(m []string) (string, string, string) { return m[3], m[1], m[2] },
	},
	{
		// 15 March 2024
		re:      regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthNames + `)[a-z]*\.?,?\s+(\d{4})\b`),
		toParts: func(m []string) (string, string, string) { return m[3], m[2], m[1] },
	},
}

// ExtractDate finds the purchase date in the receipt lines.
// Lines mentioning a date keyword are scanned first, then every line.
// ok is false when nothing valid was found.
func ExtractDate(lines []string) (date string, source Source, ok bool) {
	for _, line := range lines {
		if !dateKeywords.in(line) {
			continue
		}
		if d, found := scanDate(line); found {
			return d, SourcePriority, true
		}
	}

	for _, line := range lines {
		if d, found := scanDate(line); found {
			return d, SourceFallback, true
		}
	}

	return "", SourceDefault, false
}

// scanDate tries every pattern against line, skipping invalid candidates
func scanDate(line string) (string, bool) {
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(line, -1) {
			y, mo, d := p.toParts(m)
			if date, ok := buildDate(y, mo, d); ok {
				return date, true
			}
		}
	}
	return "", false
}

func buildDate(yearStr, monthStr, dayStr string) (string, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", false
	}
	if len(yearStr) == 2 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	month, err := parseMonth(monthStr)
	if err != nil {
		return "", false
	}

	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return "", false
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2100 {
		return "", false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// rejects Feb 30 and friends, which time.Date silently normalizes
	if t.Day() != day || int(t.Month()) != month {
		return "", false
	}
	return t.Format(isoDate), true
}

func parseMonth(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	prefix := strings.ToLower(s)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	idx := strings.Index(monthNames, prefix)
	if len(prefix) != 3 || idx < 0 {
		return 0, strconv.ErrSyntax
	}
	return idx/4 + 1, nil
}
