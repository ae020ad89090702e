package extractor

import (
	"regexp"
	"strings"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

var (
	reTomadorNameLabel = regexp.MustCompile(`(?i)Nome\s*/\s*Nome Empresarial\s*\n([^\n]+)`)

	reTomadorNoise      = regexp.MustCompile(`(?i)TOMADOR|NOME|EMPRESARIAL|ENDERECO|MUNICIPIO|CNPJ|CPF|NIF|INSCRICAO|TELEFONE|EMAIL|CEP`)
	reLongDigitRun      = regexp.MustCompile(`\d{11,14}`)
	reDestinatarioNoise = regexp.MustCompile(`(?i)DESTINATARIO|REMETENTE|NOME|RAZAO|MUNICIPIO|INSCRICAO|CEP|FONE|UF|CNPJ|CPF|DATA|HORA`)
	reFormattedDoc      = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}|\d{3}\.\d{3}\.\d{3}-\d{2}`)
	reUppercase         = regexp.MustCompile(`[A-Z]`)
	reAnyLetter         = regexp.MustCompile(`[A-Za-z]`)

	// Recipient name followed by its tax id on the same line, a common
	// single-row DANFE layout.
	reNameThenDoc = regexp.MustCompile(`\n([A-Z0-9 \-&.,]{4,}?)\s+([0-9]{2}\.[0-9]{3}\.[0-9]{3}/[0-9]{4}-[0-9]{2}|[0-9]{3}\.[0-9]{3}\.[0-9]{3}-[0-9]{2})\b`)

	reRazaoSocialLabel = regexp.MustCompile(`(?i)NOME\s*/\s*RAZAO SOCIAL`)
	reNomeEmpresarial  = regexp.MustCompile(`(?i)Nome\s*/\s*Nome Empresarial`)

	clientFallbackPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Tomador[\s\S]{0,240}?Nome\s*/\s*Nome Empresarial\s*\n([^\n]+)`),
		regexp.MustCompile(`(?i)Destinatario/Remetente[\s\S]{0,280}?Nome\s*/\s*Razao Social\s*\n([^\n]+)`),
		regexp.MustCompile(`(?i)Razao Social[\s:]*([^\n]+)`),
	}

	reGenericNoise = regexp.MustCompile(`(?i)nota|valor|emissao|serie|chave|cfop|ncm|imposto|telefone`)
)

// nameBeforeDoc matches a name/tax-id row inside block, skipping rows
// where the emitter is named after the document on the same line.
func nameBeforeDoc(block string) string {
	offset := 0
	for {
		loc := reNameThenDoc.FindStringSubmatchIndex(block[offset:])
		if loc == nil {
			return ""
		}
		matchEnd := offset + loc[1]
		rest := block[matchEnd:]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[:i]
		}
		if !strings.Contains(rest, "Emitente") {
			return strings.TrimSpace(block[offset+loc[2] : offset+loc[3]])
		}
		offset += loc[1]
	}
}

func blockLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// extractCliente resolves the client name: labeled lookups inside the
// type-specific block, then a plausible-name line scan, then anchor
// lines, then the loosest document-wide fallbacks.
func extractCliente(lines []string, text string, tipo models.DocumentType) string {
	if tipo == models.TipoNFSe {
		block := tomadorBlock(text)

		if m := reTomadorNameLabel.FindStringSubmatch(block); m != nil {
			return strings.TrimSpace(m[1])
		}

		for _, line := range blockLines(block) {
			if len(line) > 5 && reUppercase.MatchString(line) &&
				!reTomadorNoise.MatchString(line) && !reLongDigitRun.MatchString(line) {
				return line
			}
		}
	}

	if tipo == models.TipoNFe {
		block := destinatarioBlock(text)

		if name := nameBeforeDoc(block); name != "" {
			return name
		}

		for _, line := range blockLines(block) {
			if len(line) > 5 && reUppercase.MatchString(line) &&
				!reDestinatarioNoise.MatchString(line) && !reFormattedDoc.MatchString(line) {
				return line
			}
		}
	}

	anchorStart, anchorLabel := reDestinatarioStart, reRazaoSocialLabel
	if tipo == models.TipoNFSe {
		anchorStart, anchorLabel = reTomadorStart, reNomeEmpresarial
	}

	anchor1 := -1
	for i, line := range lines {
		if anchorStart.MatchString(line) {
			anchor1 = i
			break
		}
	}
	if anchor1 >= 0 {
		for i := anchor1 + 1; i < len(lines); i++ {
			if anchorLabel.MatchString(lines[i]) {
				if i+1 < len(lines) {
					return strings.TrimSpace(lines[i+1])
				}
				break
			}
		}
		if anchor1+1 < len(lines) {
			return strings.TrimSpace(lines[anchor1+1])
		}
	}

	if fallback := firstPattern(text, clientFallbackPatterns); fallback != "" {
		return strings.TrimSpace(fallback)
	}

	for _, line := range lines {
		if len(line) > 6 && reAnyLetter.MatchString(line) && !reGenericNoise.MatchString(line) {
			return strings.TrimSpace(truncate(line, 120))
		}
	}
	return ""
}
