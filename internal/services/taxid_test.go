package services

import "testing"

func TestValidateDocumentoCPF(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"529.982.247-25", true},
		{"52998224725", true},
		{"529.982.247-26", false}, // wrong check digit
		{"111.111.111-11", false}, // repeated digits
	}
	for _, tc := range cases {
		got := ValidateDocumento(tc.in)
		if got.Valid != tc.valid {
			t.Errorf("ValidateDocumento(%q).Valid = %v, want %v", tc.in, got.Valid, tc.valid)
		}
		if got.Kind != "CPF" {
			t.Errorf("ValidateDocumento(%q).Kind = %q, want CPF", tc.in, got.Kind)
		}
	}
}

func TestValidateDocumentoCNPJ(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"11.222.333/0001-81", true},
		{"11222333000181", true},
		{"11.222.333/0001-82", false},
		{"11111111111111", false},
	}
	for _, tc := range cases {
		got := ValidateDocumento(tc.in)
		if got.Valid != tc.valid {
			t.Errorf("ValidateDocumento(%q).Valid = %v, want %v", tc.in, got.Valid, tc.valid)
		}
		if got.Kind != "CNPJ" {
			t.Errorf("ValidateDocumento(%q).Kind = %q, want CNPJ", tc.in, got.Kind)
		}
	}
}

func TestValidateDocumentoBadInput(t *testing.T) {
	if got := ValidateDocumento(""); got.Valid || len(got.Warnings) == 0 {
		t.Errorf("empty documento: %+v", got)
	}
	if got := ValidateDocumento("12345"); got.Valid || got.Warnings[0].Code != "BAD_LENGTH" {
		t.Errorf("short documento: %+v", got)
	}
}
