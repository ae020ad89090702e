package analytics

import (
	"testing"
	"time"
)

func TestBuildMonthlySeries(t *testing.T) {
	records := []Record{
		{DataEmissao: "2024-03-10", Valor: 100},
		{DataEmissao: "2024-01-05", Valor: 50},
		{DataEmissao: "2024-03-20", Valor: 200},
		{DataEmissao: "data invalida", Valor: 999},
	}

	monthly := BuildMonthlySeries(records)
	if len(monthly) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(monthly))
	}
	if monthly[0].Key != "2024-01" || monthly[0].Label != "jan/2024" || monthly[0].Total != 50 {
		t.Errorf("first bucket = %+v", monthly[0])
	}
	if monthly[1].Key != "2024-03" || monthly[1].Label != "mar/2024" || monthly[1].Total != 300 {
		t.Errorf("second bucket = %+v", monthly[1])
	}
}

func TestBuildClientSeries(t *testing.T) {
	records := []Record{
		{Cliente: "Pequeno", Valor: 10},
		{Cliente: "Grande", Valor: 500},
		{Cliente: "Grande", Valor: 500},
		{Cliente: "", Valor: 5},
	}

	clients := BuildClientSeries(records)
	if clients[0].Name != "Grande" || clients[0].Total != 1000 {
		t.Errorf("top client = %+v", clients[0])
	}
	found := false
	for _, c := range clients {
		if c.Name == "Sem cliente" {
			found = true
		}
	}
	if !found {
		t.Error("nameless records should aggregate under Sem cliente")
	}
}

func TestBuildClientSeriesTopEight(t *testing.T) {
	var records []Record
	for i := 0; i < 12; i++ {
		records = append(records, Record{Cliente: string(rune('A' + i)), Valor: float64(i + 1)})
	}
	if got := len(BuildClientSeries(records)); got != 8 {
		t.Errorf("client series length = %d, want 8", got)
	}
}

func TestBuildSummary(t *testing.T) {
	records := []Record{
		{Valor: 100},
		{Valor: 300},
	}
	s := BuildSummary(records)
	if s.TotalNFs != 2 || s.TotalValue != 400 {
		t.Errorf("summary = %+v", s)
	}
	if s.TotalCommission != 4 {
		t.Errorf("commission = %f, want 4 (1%%)", s.TotalCommission)
	}
	if s.AvgTicket != 200 {
		t.Errorf("avg ticket = %f, want 200", s.AvgTicket)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(nil)
	if s.TotalNFs != 0 || s.AvgTicket != 0 {
		t.Errorf("summary = %+v", s)
	}
}

func TestBuildGrowthIndicator(t *testing.T) {
	records := []Record{
		{DataEmissao: "2024-01-10", Valor: 100},
		{DataEmissao: "2024-02-10", Valor: 150},
	}
	g := BuildGrowthIndicator(records)
	if g.Trend != "up" {
		t.Errorf("trend = %q, want up", g.Trend)
	}

	single := BuildGrowthIndicator(records[:1])
	if single.Trend != "neutral" || single.Text != "-" {
		t.Errorf("single month indicator = %+v", single)
	}
}

func TestMonthlyProjection(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []Record{
		{DataEmissao: "2024-03-01", Valor: 100},
		{DataEmissao: "2024-03-09", Valor: 100},
		{DataEmissao: "2024-02-15", Valor: 9999}, // other month, ignored
	}

	// 200 over 10 days, March has 31 days
	got := MonthlyProjection(records, now)
	want := 200.0 / 10 * 31
	if got < want-0.01 || got > want+0.01 {
		t.Errorf("projection = %f, want %f", got, want)
	}
}

func TestBuildMonthlySummaryRows(t *testing.T) {
	records := []Record{
		{DataEmissao: "2023-03-10", Valor: 100},
		{DataEmissao: "2024-03-10", Valor: 150},
		{DataEmissao: "2024-04-01", Valor: 80},
	}

	rows := BuildMonthlySummaryRows(records)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// Newest first
	if rows[0].Label != "Abril/2024" {
		t.Errorf("rows[0].Label = %q", rows[0].Label)
	}
	if rows[1].Label != "Marco/2024" {
		t.Errorf("rows[1].Label = %q", rows[1].Label)
	}
	if rows[1].Variance == nil {
		t.Fatal("March 2024 should carry YoY variance")
	}
	if v := *rows[1].Variance; v < 49.99 || v > 50.01 {
		t.Errorf("variance = %f, want 50", v)
	}
	if rows[2].Variance != nil {
		t.Error("March 2023 has no prior year, variance must be nil")
	}
}
