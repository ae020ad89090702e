package extractor

import (
	"regexp"

	"github.com/nfscan/invoice-extract-service/internal/models"
	"github.com/shopspring/decimal"
)

var nfseValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Valor\s*Liquido\s*da\s*NFS-?e[\s:]*R?\$?\s*([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})`),
	regexp.MustCompile(`(?i)VALOR\s*TOTAL\s*DA\s*NFS-?E[\s:]*R?\$?\s*([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})`),
	regexp.MustCompile(`(?i)Valor\s*do\s*Servico[\s:]*R?\$?\s*([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})`),
}

var nfeValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)VALOR\s*TOTAL\s*DA\s*NOTA[\s\S]{0,120}?([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})`),
	regexp.MustCompile(`(?i)VALOR\s*TOTAL\s*DOS\s*PRODUTOS[\s\S]{0,120}?([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})`),
	regexp.MustCompile(`(?i)VALOR\s*TOTAL\s*DA\s*NF-e[\s\S]{0,120}?([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})`),
	regexp.MustCompile(`R\$\s*([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})`),
}

var (
	reLiquidoLabel    = regexp.MustCompile(`(?i)Valor\s*Liquido\s*da\s*NFS-?e`)
	reTotalNFSeLabel  = regexp.MustCompile(`(?i)VALOR\s*TOTAL\s*DA\s*NFS-?E`)
	reServicoLabel    = regexp.MustCompile(`(?i)Valor\s*do\s*Servico`)
	reTotalBlockStart = regexp.MustCompile(`(?i)VALOR TOTAL DA NFS-E`)
	reTotalBlockEnd   = regexp.MustCompile(`(?i)INFORMACOES COMPLEMENTARES`)
	reTaxBlockStart   = regexp.MustCompile(`(?i)CALCULO DE IMPOSTO`)
	reTaxBlockEnd     = regexp.MustCompile(`(?i)TRANSPORTADOR/VOLUMES|DADOS DOS PRODUTOS/SERVICOS`)
)

// extractValor resolves the invoice total. NFS-e layouts are searched
// label-first (liquid value beats gross total beats service value),
// then by the largest amount in the totals block. NF-e layouts take the
// last positive amount in the tax summary, which is where the note
// total sits after the per-tax columns. Both fall back to the flat
// pattern list, own-type patterns first.
func extractValor(text string, tipo models.DocumentType, lines []string) (decimal.Decimal, bool) {
	if tipo == models.TipoNFSe {
		if v, ok := extractMoneyNearLabel(lines, reLiquidoLabel, 8); ok {
			return v, true
		}
		if v, ok := extractMoneyNearLabel(lines, reTotalNFSeLabel, 12); ok {
			return v, true
		}
		if v, ok := extractMoneyNearLabel(lines, reServicoLabel, 8); ok {
			return v, true
		}

		totalBlock := sectionBetween(text, reTotalBlockStart, reTotalBlockEnd, 1400)
		var best decimal.Decimal
		found := false
		for _, v := range findAllMoney(totalBlock) {
			if v.IsPositive() && (!found || v.GreaterThan(best)) {
				best = v
				found = true
			}
		}
		if found {
			return best, true
		}
	}

	if tipo == models.TipoNFe {
		taxBlock := sectionBetween(text, reTaxBlockStart, reTaxBlockEnd, 1600)
		values := findAllMoney(taxBlock)
		for i := len(values) - 1; i >= 0; i-- {
			if values[i].IsPositive() {
				return values[i], true
			}
		}
	}

	patterns := append(append([]*regexp.Regexp{}, nfeValuePatterns...), nfseValuePatterns...)
	if tipo == models.TipoNFSe {
		patterns = append(append([]*regexp.Regexp{}, nfseValuePatterns...), nfeValuePatterns...)
	}
	return ParseBRMoney(firstPattern(text, patterns))
}
