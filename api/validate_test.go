package api

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var payload interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return payload
}

func TestValidateNotaPayload(t *testing.T) {
	valid := `{"numeroNF":"123","dataEmissao":"2024-03-05","cliente":"ACME","valor":1234.56}`
	if err := validateNotaPayload(decode(t, valid)); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	cases := []struct {
		name string
		raw  string
	}{
		{"missing required", `{"numeroNF":"123"}`},
		{"valor as string", `{"numeroNF":"1","dataEmissao":"2024-03-05","cliente":"ACME","valor":"1234,56"}`},
		{"bad date format", `{"numeroNF":"1","dataEmissao":"05/03/2024","cliente":"ACME","valor":10}`},
		{"unknown field", `{"numeroNF":"1","dataEmissao":"2024-03-05","cliente":"ACME","valor":10,"extra":true}`},
		{"bad estado", `{"numeroNF":"1","dataEmissao":"2024-03-05","cliente":"ACME","valor":10,"estado":"rascunho"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateNotaPayload(decode(t, tc.raw)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
