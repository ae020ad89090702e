package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reCarriage  = regexp.MustCompile(`\r\n?`)
	reHSpace    = regexp.MustCompile(`[\t ]+`)
	reBlankRuns = regexp.MustCompile(`\n{2,}`)
)

// OCR output carries artifacts that break label matching: pipes read as
// the letter I, curly quotes, accented labels. We flatten all of that
// before any pattern runs.
var matchReplacer = strings.NewReplacer(
	"|", "I",
	"“", `"`,
	"”", `"`,
	"’", "'",
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalized is raw document text prepared for pattern matching.
type Normalized struct {
	Text  string
	Lines []string
}

// NormalizeSpaces collapses runs of horizontal whitespace and blank
// lines, converting CR/CRLF line breaks to plain newlines.
func NormalizeSpaces(value string) string {
	out := reCarriage.ReplaceAllString(value, "\n")
	out = reHSpace.ReplaceAllString(out, " ")
	out = reBlankRuns.ReplaceAllString(out, "\n")
	return strings.TrimSpace(out)
}

// StripDiacritics removes combining accent marks so "Emissão" matches
// patterns written as "Emissao".
func StripDiacritics(value string) string {
	out, _, err := transform.String(diacriticStripper, value)
	if err != nil {
		return value
	}
	return out
}

// Normalize prepares raw invoice text for extraction. The returned
// Lines are trimmed and non-empty, and Text is their join, so running
// Normalize on its own output is a no-op.
func Normalize(raw string) Normalized {
	cleaned := NormalizeSpaces(raw)
	cleaned = matchReplacer.Replace(StripDiacritics(cleaned))

	lines := []string{}
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return Normalized{
		Text:  strings.Join(lines, "\n"),
		Lines: lines,
	}
}

var reNonDigits = regexp.MustCompile(`\D`)

func digitsOnly(value string) string {
	return reNonDigits.ReplaceAllString(value, "")
}
