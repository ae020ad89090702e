package models

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConfidence(t *testing.T) {
	valor := decimal.NewFromInt(100)

	cases := []struct {
		name   string
		fields Fields
		want   int
	}{
		{"none", Fields{Tipo: "NF-e"}, 0},
		{"one of four", Fields{NumeroNF: "123"}, 25},
		{"two of four", Fields{NumeroNF: "123", DataEmissao: "2024-01-15"}, 50},
		{"three of four", Fields{NumeroNF: "123", DataEmissao: "2024-01-15", Cliente: "ACME"}, 75},
		{"all four", Fields{NumeroNF: "123", DataEmissao: "2024-01-15", Cliente: "ACME", Valor: &valor}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Confidence(tc.fields); got != tc.want {
				t.Errorf("Confidence = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMissingOrder(t *testing.T) {
	got := Missing(Fields{Cliente: "ACME"})
	want := []string{"numeroNF", "dataEmissao", "valor"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Missing = %v, want %v", got, want)
	}

	valor := decimal.NewFromInt(1)
	full := Fields{NumeroNF: "1", DataEmissao: "2024-01-01", Cliente: "A", Valor: &valor}
	if got := Missing(full); len(got) != 0 {
		t.Errorf("Missing on complete fields = %v", got)
	}
}

func TestFieldEmptyValor(t *testing.T) {
	f := Fields{}
	if !f.FieldEmpty("valor") {
		t.Error("nil Valor should be empty")
	}
	zero := decimal.Zero
	f.Valor = &zero
	if f.FieldEmpty("valor") {
		t.Error("zero Valor is still a found value")
	}
}
