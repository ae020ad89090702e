package extractor

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	if got := truncate("curto", 160); got != "curto" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate(strings.Repeat("a", 200), 160); len(got) != 160 {
		t.Errorf("truncate length = %d, want 160", len(got))
	}

	// Ordinal indicators like "º" survive diacritic stripping; a cap
	// landing inside one must back off to the rune start.
	long := strings.Repeat("z", 159) + "º sala"
	got := truncate(long, 160)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if len(got) != 159 {
		t.Errorf("truncate length = %d, want 159", len(got))
	}
}

func TestExtractDescricaoNFSe(t *testing.T) {
	lines := []string{
		"NFS-e",
		"Descricao do Servico",
		"Manutencao preventiva",
		"Troca de pecas",
		"TRIBUTACAO MUNICIPAL",
	}
	got := extractDescricao(lines, strings.Join(lines, "\n"), "NFS-e")
	if got != "Manutencao preventiva | Troca de pecas" {
		t.Errorf("descricao = %q", got)
	}
}
