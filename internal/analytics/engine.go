package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Insight is one generated finding.
type Insight struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// formatBRL renders a value with a decimal comma, no thousands grouping.
func formatBRL(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// monthIndex collapses an emission date into a single comparable
// integer so consecutive months differ by exactly one.
func monthIndex(dateISO string) (int, bool) {
	t, ok := parseISODate(dateISO)
	if !ok {
		return 0, false
	}
	return t.Year()*12 + int(t.Month()) - 1, true
}

// Run derives insight cards from the invoice records and their monthly
// series: a linear-regression forecast, anomaly flags, per-client
// growth and recurrence, volatility and a suggested goal. Output order
// is fixed so repeated runs over the same data are identical.
func Run(records []Record, monthly []MonthlyBucket) []Insight {
	var insights []Insight

	if forecast, ok := forecastNextMonth(monthly); ok {
		insights = append(insights, Insight{
			Title: "Previsão de faturamento",
			Text:  fmt.Sprintf("Próximo mês estimado em R$ %s", formatBRL(forecast)),
		})
	}

	anomalies := monthAnomalies(records)

	type clientMonths struct {
		name   string
		series map[int]float64
	}
	var clients []clientMonths
	index := map[string]int{}
	for _, r := range records {
		mi, ok := monthIndex(r.DataEmissao)
		if !ok {
			continue
		}
		i, seen := index[r.Cliente]
		if !seen {
			i = len(clients)
			index[r.Cliente] = i
			clients = append(clients, clientMonths{name: r.Cliente, series: map[int]float64{}})
		}
		clients[i].series[mi] += r.Valor
	}

	var fastestClient string
	var fastestGrowth float64
	haveFastest := false
	var recurringClient string
	recurringCount := 0

	for _, c := range clients {
		keys := make([]int, 0, len(c.series))
		for k := range c.series {
			keys = append(keys, k)
		}
		sort.Ints(keys)

		if len(keys) > recurringCount {
			recurringCount = len(keys)
			recurringClient = c.name
		}

		if len(keys) >= 2 {
			prev := c.series[keys[len(keys)-2]]
			curr := c.series[keys[len(keys)-1]]
			if prev > 0 {
				growth := (curr - prev) / prev * 100
				if !haveFastest || growth > fastestGrowth {
					fastestClient, fastestGrowth = c.name, growth
					haveFastest = true
				}
				if growth > 80 {
					anomalies = append(anomalies, fmt.Sprintf("Crescimento abrupto detectado para %s: %.1f%%", c.name, growth))
				}
			}
		}
	}

	if len(anomalies) > 0 {
		if len(anomalies) > 3 {
			anomalies = anomalies[:3]
		}
		insights = append(insights, Insight{Title: "Anomalias", Text: strings.Join(anomalies, " | ")})
	}
	if haveFastest {
		insights = append(insights, Insight{
			Title: "Cliente que mais cresce",
			Text:  fmt.Sprintf("%s (%.1f%%)", fastestClient, fastestGrowth),
		})
	}
	if recurringClient != "" {
		insights = append(insights, Insight{
			Title: "Cliente recorrente",
			Text:  fmt.Sprintf("%s (%d meses)", recurringClient, recurringCount),
		})
	}

	if label, variation, ok := peakVolatility(monthly); ok {
		insights = append(insights, Insight{
			Title: "Mês com maior volatilidade",
			Text:  fmt.Sprintf("%s (variação R$ %s)", label, formatBRL(variation)),
		})
	}

	if len(monthly) > 0 {
		last3 := monthly
		if len(last3) > 3 {
			last3 = last3[len(last3)-3:]
		}
		var sum float64
		for _, m := range last3 {
			sum += m.Total
		}
		goal := sum / float64(len(last3)) * 1.15
		insights = append(insights, Insight{
			Title: "Meta sugerida",
			Text:  fmt.Sprintf("R$ %s (média últimos 3 meses + 15%%)", formatBRL(goal)),
		})
	}

	return insights
}

// forecastNextMonth fits an ordinary least squares line over the last
// six months and evaluates it one step ahead, clamped at zero.
func forecastNextMonth(monthly []MonthlyBucket) (float64, bool) {
	last6 := monthly
	if len(last6) > 6 {
		last6 = last6[len(last6)-6:]
	}
	n := len(last6)
	if n < 2 {
		return 0, false
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, m := range last6 {
		x := float64(i + 1)
		sumX += x
		sumY += m.Total
		sumXY += x * m.Total
		sumX2 += x * x
	}

	fn := float64(n)
	denom := fn*sumX2 - sumX*sumX
	slope := 0.0
	if denom != 0 {
		slope = (fn*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / fn
	return math.Max(0, intercept+slope*(fn+1)), true
}

// monthAnomalies flags invoices worth more than twice their month's
// average, in chronological month order.
func monthAnomalies(records []Record) []string {
	values := map[int][]float64{}
	for _, r := range records {
		mi, ok := monthIndex(r.DataEmissao)
		if !ok {
			continue
		}
		values[mi] = append(values[mi], r.Valor)
	}

	months := make([]int, 0, len(values))
	for m := range values {
		months = append(months, m)
	}
	sort.Ints(months)

	var anomalies []string
	for _, m := range months {
		vs := values[m]
		var sum float64
		for _, v := range vs {
			sum += v
		}
		avg := sum / float64(len(vs))
		for _, v := range vs {
			if avg > 0 && v > avg*2 {
				anomalies = append(anomalies, fmt.Sprintf("NF acima de 2x da média mensal detectada (mês #%d)", m))
			}
		}
	}
	return anomalies
}

// peakVolatility finds the month with the largest absolute swing from
// its predecessor.
func peakVolatility(monthly []MonthlyBucket) (string, float64, bool) {
	if len(monthly) < 2 {
		return "", 0, false
	}
	var maxVar float64
	label := ""
	for i := 1; i < len(monthly); i++ {
		v := math.Abs(monthly[i].Total - monthly[i-1].Total)
		if v > maxVar {
			maxVar = v
			label = monthly[i].Label
		}
	}
	if label == "" {
		return "", 0, false
	}
	return label, maxVar, true
}
