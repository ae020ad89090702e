package extractor

import (
	"regexp"
	"testing"
)

func TestParseBRMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.234,56", "1234.56", true},
		{"45,00", "45", true},
		{"1.234.567,89", "1234567.89", true},
		{"0,01", "0.01", true},
		{"", "", false},
		{"R$ 45,00", "", false},
		{"abc", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseBRMoney(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseBRMoney(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && got.String() != tc.want {
			t.Errorf("ParseBRMoney(%q) = %s, want %s", tc.in, got.String(), tc.want)
		}
	}
}

func TestFindAllMoney(t *testing.T) {
	values := findAllMoney("base 1.000,00 imposto 180,00 total 1.180,00")
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[2].String() != "1180" {
		t.Errorf("last value = %s, want 1180", values[2].String())
	}
}

func TestExtractMoneyNearLabel(t *testing.T) {
	label := regexp.MustCompile(`(?i)Valor Liquido`)

	t.Run("same line", func(t *testing.T) {
		lines := []string{"Valor Liquido da NFS-e 1.500,00"}
		v, ok := extractMoneyNearLabel(lines, label, 5)
		if !ok || v.String() != "1500" {
			t.Errorf("got %v ok=%v, want 1500", v, ok)
		}
	})

	t.Run("following line within window", func(t *testing.T) {
		lines := []string{"Valor Liquido da NFS-e", "R$", "2.345,67"}
		v, ok := extractMoneyNearLabel(lines, label, 5)
		if !ok || v.String() != "2345.67" {
			t.Errorf("got %v ok=%v, want 2345.67", v, ok)
		}
	})

	t.Run("outside window", func(t *testing.T) {
		lines := []string{"Valor Liquido", "x", "y", "z", "1,00"}
		if _, ok := extractMoneyNearLabel(lines, label, 2); ok {
			t.Error("expected no match beyond window")
		}
	})

	t.Run("label absent", func(t *testing.T) {
		if _, ok := extractMoneyNearLabel([]string{"nada aqui 1,00"}, label, 5); ok {
			t.Error("expected no match without label")
		}
	})
}
