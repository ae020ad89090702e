package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type datePattern struct {
	re        *regexp.Regexp
	yearFirst bool
}

// Ordered from most to least specific. The first matching pattern is
// final: a labeled date that fails calendar validation returns empty
// rather than falling through to a looser pattern elsewhere in the
// document.
var datePatterns = []datePattern{
	{re: regexp.MustCompile(`(?i)Data\s*(?:d[ae]\s*)?Emissao[\s:]*([0-3]\d)[/\-]([01]\d)[/\-](\d{4})`)},
	{re: regexp.MustCompile(`(?i)Data\s+e\s+Hora\s+da\s+emissao[\s:]*([0-3]\d)[/\-]([01]\d)[/\-](\d{4})`)},
	{re: regexp.MustCompile(`(?i)Data\s+e\s+Hora\s+da\s+emissao\s+da\s+NFS-e[\s:]*([0-3]\d)[/\-]([01]\d)[/\-](\d{4})`)},
	{re: regexp.MustCompile(`(?i)Competencia[\s:]*([0-3]\d)[/\-]([01]\d)[/\-](\d{4})`)},
	{re: regexp.MustCompile(`(?i)Competencia\s+da\s+NFS-e[\s:]*([0-3]\d)[/\-]([01]\d)[/\-](\d{4})`)},
	{re: regexp.MustCompile(`([0-3]\d)[/\-]([01]\d)[/\-](\d{4})\s+\d{2}:\d{2}`)},
	{re: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), yearFirst: true},
}

// toISODate validates day/month/year as a real calendar date and
// renders it as YYYY-MM-DD, or "" when invalid (e.g. 31/02).
func toISODate(dd, mm, yyyy string) string {
	day, _ := strconv.Atoi(dd)
	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yyyy)

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func extractDateISO(text string) string {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if p.yearFirst {
			return toISODate(m[3], m[2], m[1])
		}
		return toISODate(m[1], m[2], m[3])
	}
	return ""
}
