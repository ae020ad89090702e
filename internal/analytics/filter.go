package analytics

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filters narrows a record set. Zero values mean "no constraint";
// Month is 1-12 and the date bounds are inclusive ISO dates.
type Filters struct {
	Month    int
	Year     int
	Search   string
	StartISO string
	EndISO   string
	MinValue *float64
	MaxValue *float64
}

var searchNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeSearch lowercases and strips accents so "São Paulo" matches
// a search for "sao".
func normalizeSearch(value string) string {
	out, _, err := transform.String(searchNormalizer, value)
	if err != nil {
		out = value
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Apply returns the records passing every active filter. Records with
// unparseable emission dates are dropped.
func Apply(records []Record, f Filters) []Record {
	var start, end time.Time
	var hasStart, hasEnd bool
	if f.StartISO != "" {
		start, hasStart = parseISODate(f.StartISO)
	}
	if f.EndISO != "" {
		end, hasEnd = parseISODate(f.EndISO)
	}
	search := normalizeSearch(f.Search)

	var out []Record
	for _, r := range records {
		date, ok := parseISODate(r.DataEmissao)
		if !ok {
			continue
		}
		if f.Month != 0 && int(date.Month()) != f.Month {
			continue
		}
		if f.Year != 0 && date.Year() != f.Year {
			continue
		}
		if f.MinValue != nil && r.Valor < *f.MinValue {
			continue
		}
		if f.MaxValue != nil && r.Valor > *f.MaxValue {
			continue
		}
		if hasStart && date.Before(start) {
			continue
		}
		if hasEnd && date.After(end) {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r Record, search string) bool {
	for _, field := range []string{r.NumeroNF, r.Cliente, r.Descricao, r.Documento} {
		if strings.Contains(normalizeSearch(field), search) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of records by the named field. Valid keys
// are numeroNF, cliente, descricao, documento, dataEmissao and valor;
// anything else leaves the order untouched.
func Sort(records []Record, key string, ascending bool) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	less := func(a, b Record) bool {
		switch key {
		case "dataEmissao":
			return a.DataEmissao < b.DataEmissao
		case "valor":
			return a.Valor < b.Valor
		case "numeroNF":
			return normalizeSearch(a.NumeroNF) < normalizeSearch(b.NumeroNF)
		case "cliente":
			return normalizeSearch(a.Cliente) < normalizeSearch(b.Cliente)
		case "descricao":
			return normalizeSearch(a.Descricao) < normalizeSearch(b.Descricao)
		case "documento":
			return normalizeSearch(a.Documento) < normalizeSearch(b.Documento)
		}
		return false
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}
