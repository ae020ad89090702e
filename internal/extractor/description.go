package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

var (
	reDescricaoServico = regexp.MustCompile(`(?i)Descricao do Servico`)
	reServiceDescStop  = regexp.MustCompile(`(?i)TRIBUTACAO MUNICIPAL|TRIBUTACAO FEDERAL|VALOR TOTAL DA NFS-E|INFORMACOES COMPLEMENTARES`)
	reDashRule         = regexp.MustCompile(`^-+$`)

	reProductsHeader   = regexp.MustCompile(`(?i)DADOS DOS PRODUTOS/SERVICOS`)
	reProductsBlockEnd = regexp.MustCompile(`(?i)CALCULO DO ISSQN|DADOS ADICIONAIS|INFORMACOES COMPLEMENTARES`)

	reItemAfterCode = regexp.MustCompile(`\n\d{6,}[^\n]{0,80}([A-Z][A-Z0-9 \-/().]{10,90})`)
	reTabularNoise  = regexp.MustCompile(`(?i)COD\.|NCM|CST|CFOP|VALOR|ICMS|ALIQUOTA|DESCRICAO DOS PRODUTOS`)

	inlineItemPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d,\d{2}\s*([A-Z][A-Z0-9 \-/().]{8,80})\s+\d{1,2},\d{2}`),
		regexp.MustCompile(`\b([A-Z]{3,}(?:\s+[A-Z0-9\-/().]{2,}){1,8})\b`),
	}
	reInlineNoise = regexp.MustCompile(`(?i)COD\.|NCM|CST|CFOP|VALOR|ICMS|ALIQUOTA`)

	reCandidateNoise = regexp.MustCompile(`(?i)COD\.|NCM|CST|CFOP|QUANT|V\. UNIT|ICMS`)

	reNaturezaOp    = regexp.MustCompile(`(?i)NATUREZA DA OPERACAO`)
	reDiscriminacao = regexp.MustCompile(`(?i)Discriminacao\s+dos\s+Servicos[\s\S]{0,200}?\n([^\n]+)`)
)

// truncate caps value at max bytes without splitting a rune.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	for max > 0 && !utf8.RuneStart(value[max]) {
		max--
	}
	return value[:max]
}

// extractDescricao assembles a short service or product description.
// NFS-e service blocks join their lines with " | "; NF-e product rows
// have to be fished out of tabular noise, so every candidate is
// rejected when it looks like a column header.
func extractDescricao(lines []string, text string, tipo models.DocumentType) string {
	if tipo == models.TipoNFSe {
		idx := -1
		for i, line := range lines {
			if reDescricaoServico.MatchString(line) {
				idx = i
				break
			}
		}
		if idx >= 0 {
			var collected []string
			limit := idx + 10
			if limit > len(lines) {
				limit = len(lines)
			}
			for i := idx + 1; i < limit; i++ {
				line := lines[i]
				if reServiceDescStop.MatchString(line) {
					break
				}
				if reDashRule.MatchString(line) || len(line) < 2 {
					continue
				}
				collected = append(collected, line)
			}
			if len(collected) > 0 {
				return truncate(strings.Join(collected, " | "), 200)
			}
		}
	}

	idx := -1
	for i, line := range lines {
		if reProductsHeader.MatchString(line) {
			idx = i
			break
		}
	}
	if idx >= 0 || tipo == models.TipoNFe {
		productBlock := sectionBetween(text, reProductsHeader, reProductsBlockEnd, 1600)

		if m := reItemAfterCode.FindStringSubmatch(productBlock); m != nil {
			if byCode := m[1]; !reTabularNoise.MatchString(byCode) {
				return truncate(byCode, 160)
			}
		}

		if inline := firstPattern(productBlock, inlineItemPatterns); inline != "" && !reInlineNoise.MatchString(inline) {
			return truncate(inline, 160)
		}

		limit := idx + 12
		if limit > len(lines) {
			limit = len(lines)
		}
		for i := idx + 1; i >= 0 && i < limit; i++ {
			line := lines[i]
			if len(line) > 10 && !reCandidateNoise.MatchString(line) {
				return truncate(line, 160)
			}
		}
	}

	for i, line := range lines {
		if reNaturezaOp.MatchString(line) && i+1 < len(lines) {
			return truncate(lines[i+1], 160)
		}
	}

	if m := reDiscriminacao.FindStringSubmatch(text); m != nil {
		return truncate(m[1], 160)
	}
	return ""
}
