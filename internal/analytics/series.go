// Package analytics derives monthly series, summaries and insight
// cards from persisted invoice records.
package analytics

import (
	"fmt"
	"sort"
	"time"
)

// Record is the slim invoice view the analytics run on. DataEmissao is
// an ISO date (YYYY-MM-DD); invalid dates are skipped by the builders.
type Record struct {
	ID          string  `json:"id"`
	NumeroNF    string  `json:"numeroNF"`
	Cliente     string  `json:"cliente"`
	Documento   string  `json:"documento"`
	Descricao   string  `json:"descricao"`
	DataEmissao string  `json:"dataEmissao"`
	Valor       float64 `json:"valor"`
}

// MonthlyBucket is one month of aggregated billing.
type MonthlyBucket struct {
	Key   string  `json:"key"`   // "2024-03"
	Label string  `json:"label"` // "mar/2024"
	Total float64 `json:"total"`
}

// ClientBucket is a client's aggregated billing.
type ClientBucket struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Summary aggregates the whole record set. Commission is a flat 1%.
type Summary struct {
	TotalNFs        int     `json:"totalNFs"`
	TotalValue      float64 `json:"totalValue"`
	TotalCommission float64 `json:"totalCommission"`
	AvgTicket       float64 `json:"avgTicket"`
}

// MonthlySummaryRow is one row of the month-by-month report, newest
// first, with year-over-year variance when the same month exists a
// year earlier.
type MonthlySummaryRow struct {
	Label      string   `json:"label"`
	Count      int      `json:"count"`
	Total      float64  `json:"total"`
	Commission float64  `json:"commission"`
	Variance   *float64 `json:"variance"`
}

// GrowthIndicator compares the two latest months.
type GrowthIndicator struct {
	Text  string `json:"text"`
	Trend string `json:"trend"` // up, down or neutral
}

var ptShortMonths = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

var ptLongMonths = [...]string{
	"Janeiro", "Fevereiro", "Marco", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

func parseISODate(value string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// BuildMonthlySeries groups records by emission month, sorted
// chronologically.
func BuildMonthlySeries(records []Record) []MonthlyBucket {
	totals := map[string]float64{}
	for _, r := range records {
		t, ok := parseISODate(r.DataEmissao)
		if !ok {
			continue
		}
		totals[monthKey(t)] += r.Valor
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]MonthlyBucket, 0, len(keys))
	for _, k := range keys {
		var year, month int
		fmt.Sscanf(k, "%d-%d", &year, &month)
		buckets = append(buckets, MonthlyBucket{
			Key:   k,
			Label: fmt.Sprintf("%s/%d", ptShortMonths[month-1], year),
			Total: totals[k],
		})
	}
	return buckets
}

// BuildClientSeries aggregates billing per client, largest first,
// capped at the top 8. Records without a client land under
// "Sem cliente".
func BuildClientSeries(records []Record) []ClientBucket {
	totals := map[string]float64{}
	for _, r := range records {
		name := r.Cliente
		if name == "" {
			name = "Sem cliente"
		}
		totals[name] += r.Valor
	}

	buckets := make([]ClientBucket, 0, len(totals))
	for name, total := range totals {
		buckets = append(buckets, ClientBucket{Name: name, Total: total})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Total != buckets[j].Total {
			return buckets[i].Total > buckets[j].Total
		}
		return buckets[i].Name < buckets[j].Name
	})
	if len(buckets) > 8 {
		buckets = buckets[:8]
	}
	return buckets
}

// BuildSummary computes the overall totals.
func BuildSummary(records []Record) Summary {
	s := Summary{TotalNFs: len(records)}
	for _, r := range records {
		s.TotalValue += r.Valor
	}
	s.TotalCommission = s.TotalValue * 0.01
	if s.TotalNFs > 0 {
		s.AvgTicket = s.TotalValue / float64(s.TotalNFs)
	}
	return s
}

// BuildGrowthIndicator compares the two most recent months of billing.
func BuildGrowthIndicator(records []Record) GrowthIndicator {
	monthly := BuildMonthlySeries(records)
	if len(monthly) < 2 {
		return GrowthIndicator{Text: "-", Trend: "neutral"}
	}
	current := monthly[len(monthly)-1].Total
	prev := monthly[len(monthly)-2].Total
	if prev <= 0 {
		return GrowthIndicator{Text: "Sem base", Trend: "neutral"}
	}
	pct := (current - prev) / prev * 100
	switch {
	case pct > 0:
		return GrowthIndicator{Text: fmt.Sprintf("↑ %.1f%%", pct), Trend: "up"}
	case pct < 0:
		return GrowthIndicator{Text: fmt.Sprintf("↓ %.1f%%", -pct), Trend: "down"}
	}
	return GrowthIndicator{Text: "0,0%", Trend: "neutral"}
}

// MonthlyProjection extrapolates the current month's billing to the
// full month by daily run rate.
func MonthlyProjection(records []Record, now time.Time) float64 {
	var total float64
	for _, r := range records {
		t, ok := parseISODate(r.DataEmissao)
		if !ok {
			continue
		}
		if t.Year() == now.Year() && t.Month() == now.Month() {
			total += r.Valor
		}
	}

	day := now.Day()
	if day == 0 {
		return total
	}
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return total / float64(day) * float64(daysInMonth)
}

// BuildMonthlySummaryRows renders the month-by-month report, newest
// month first, including the flat commission and YoY variance.
func BuildMonthlySummaryRows(records []Record) []MonthlySummaryRow {
	type agg struct {
		count int
		total float64
	}
	data := map[string]agg{}
	for _, r := range records {
		t, ok := parseISODate(r.DataEmissao)
		if !ok {
			continue
		}
		k := monthKey(t)
		a := data[k]
		a.count++
		a.total += r.Valor
		data[k] = a
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	rows := make([]MonthlySummaryRow, 0, len(keys))
	for _, k := range keys {
		var year, month int
		fmt.Sscanf(k, "%d-%d", &year, &month)
		a := data[k]

		row := MonthlySummaryRow{
			Label:      fmt.Sprintf("%s/%d", ptLongMonths[month-1], year),
			Count:      a.count,
			Total:      a.total,
			Commission: a.total * 0.01,
		}
		prevKey := fmt.Sprintf("%04d-%02d", year-1, month)
		if prev, ok := data[prevKey]; ok && prev.total > 0 {
			variance := (a.total - prev.total) / prev.total * 100
			row.Variance = &variance
		}
		rows = append(rows, row)
	}
	return rows
}
