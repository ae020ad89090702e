package analytics

import "testing"

var filterRecords = []Record{
	{ID: "1", NumeroNF: "100", Cliente: "Construções São João", DataEmissao: "2024-01-15", Valor: 500},
	{ID: "2", NumeroNF: "101", Cliente: "Padaria Central", DataEmissao: "2024-02-20", Valor: 80},
	{ID: "3", NumeroNF: "102", Cliente: "Construções São João", DataEmissao: "2024-02-25", Valor: 1200},
	{ID: "4", NumeroNF: "103", Cliente: "Oficina do Zé", DataEmissao: "data ruim", Valor: 10},
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApplySearchIgnoresDiacritics(t *testing.T) {
	got := Apply(filterRecords, Filters{Search: "construcoes sao"})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", ids(got))
	}
}

func TestApplyMonthAndYear(t *testing.T) {
	got := Apply(filterRecords, Filters{Month: 2, Year: 2024})
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Errorf("month filter returned %v", ids(got))
	}
}

func TestApplyValueBounds(t *testing.T) {
	min, max := 100.0, 1000.0
	got := Apply(filterRecords, Filters{MinValue: &min, MaxValue: &max})
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("value filter returned %v", ids(got))
	}
}

func TestApplyDateRange(t *testing.T) {
	got := Apply(filterRecords, Filters{StartISO: "2024-02-01", EndISO: "2024-02-29"})
	if len(got) != 2 {
		t.Errorf("date range returned %v", ids(got))
	}
}

func TestApplyDropsInvalidDates(t *testing.T) {
	got := Apply(filterRecords, Filters{})
	for _, r := range got {
		if r.ID == "4" {
			t.Error("record with invalid date should be dropped")
		}
	}
}

func TestSortByValorDescending(t *testing.T) {
	got := Sort(filterRecords, "valor", false)
	if got[0].ID != "3" {
		t.Errorf("largest first, got %v", ids(got))
	}
	// Input order untouched
	if filterRecords[0].ID != "1" {
		t.Error("Sort mutated its input")
	}
}

func TestSortByClienteAscending(t *testing.T) {
	got := Sort(filterRecords, "cliente", true)
	if got[0].Cliente != "Construções São João" {
		t.Errorf("first cliente = %q", got[0].Cliente)
	}
}
