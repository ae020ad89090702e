package extractor

import "testing"

func TestNormalizeSpaces(t *testing.T) {
	in := "linha um\r\n\r\n\r\nlinha   dois\tcom\ttabs\r"
	got := NormalizeSpaces(in)
	want := "linha um\nlinha dois com tabs"
	if got != want {
		t.Errorf("NormalizeSpaces() = %q, want %q", got, want)
	}
}

func TestStripDiacritics(t *testing.T) {
	cases := map[string]string{
		"Emissão":        "Emissao",
		"SERVIÇO":        "SERVICO",
		"João da Silva":  "Joao da Silva",
		"sem acento":     "sem acento",
		"Discriminação":  "Discriminacao",
	}
	for in, want := range cases {
		if got := StripDiacritics(in); got != want {
			t.Errorf("StripDiacritics(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeReplacesOCRArtifacts(t *testing.T) {
	doc := Normalize("DEST|NATARIO\n“texto”")
	if doc.Lines[0] != "DESTINATARIO" {
		t.Errorf("pipe not converted: %q", doc.Lines[0])
	}
	if doc.Lines[1] != `"texto"` {
		t.Errorf("curly quotes not converted: %q", doc.Lines[1])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize("  Nota   Fiscal \r\n\r\n Emissão: 01/02/2024  ")
	second := Normalize(first.Text)
	if first.Text != second.Text {
		t.Errorf("normalization not idempotent:\nfirst:  %q\nsecond: %q", first.Text, second.Text)
	}
}

func TestNormalizeDropsEmptyLines(t *testing.T) {
	doc := Normalize("a\n   \nb\n\n\nc")
	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(doc.Lines), doc.Lines)
	}
}
