package extractor

import (
	"regexp"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

var nfseNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Numero\s+da\s+NFS-?e[\s:]*([0-9]{3,})`),
	regexp.MustCompile(`(?i)NFS-?e\s*(?:n|no|n\.)?[\s:]*([0-9]{3,})`),
}

var genericNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bN\.?\s*([0-9]{1,3}(?:\.[0-9]{3})+|[0-9]{3,})\b`),
	regexp.MustCompile(`(?i)\bN[Oo\x{00ba}\x{00b0}]\s*[:\s]*([0-9]{1,3}(?:\.[0-9]{3})+|[0-9]{3,})\b`),
	regexp.MustCompile(`(?i)(?:NF-e|NFe|Nota Fiscal)[^\d]{0,25}([0-9]{3,})`),
}

var (
	reNumberHintLine = regexp.MustCompile(`(?i)\b(?:n\.?|nf|nota)`)
	reThreeDigits    = regexp.MustCompile(`\d{3,}`)
	reDigitRun       = regexp.MustCompile(`(\d{3,})`)
)

// extractNumeroNF pulls the invoice number. NFS-e documents get their
// dedicated labels tried first; the generic "N." / "No" / "Nota Fiscal"
// forms follow, and a labeled line scan is the last resort.
func extractNumeroNF(text string, lines []string, tipo models.DocumentType) string {
	if tipo == models.TipoNFSe {
		if direct := firstPattern(text, nfseNumberPatterns); direct != "" {
			return direct
		}
	}

	if fromText := firstPattern(text, genericNumberPatterns); fromText != "" {
		return digitsOnly(fromText)
	}

	for _, line := range lines {
		if reNumberHintLine.MatchString(line) && reThreeDigits.MatchString(line) {
			if m := reDigitRun.FindStringSubmatch(line); m != nil {
				return m[1]
			}
			return ""
		}
	}
	return ""
}
