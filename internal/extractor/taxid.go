package extractor

import (
	"regexp"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

// Block anchors shared by the documento and cliente extractors. The
// service taker block on NFS-e and the recipient block on NF-e both
// hold the client's name and tax id.
var (
	reTomadorStart = regexp.MustCompile(`(?i)TOMADOR DO SERVICO`)
	reTomadorEnd   = regexp.MustCompile(`(?i)INTERMEDIARIO DO SERVICO|SERVICO PRESTADO|TRIBUTACAO MUNICIPAL`)

	reDestinatarioStart = regexp.MustCompile(`(?i)DESTINATARIO/REMETENTE`)
	reDestinatarioEnd   = regexp.MustCompile(`(?i)DADOS DOS PRODUTOS/SERVICOS|CALCULO DO ISSQN|DADOS ADICIONAIS`)
)

func tomadorBlock(text string) string {
	return sectionBetween(text, reTomadorStart, reTomadorEnd, 1800)
}

func destinatarioBlock(text string) string {
	return sectionBetween(text, reDestinatarioStart, reDestinatarioEnd, 2800)
}

var tomadorDocPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CNPJ\s*/\s*CPF\s*/\s*NIF[\s:]*([0-9\./-]{11,18})`),
	regexp.MustCompile(`\b([0-9]{2}\.[0-9]{3}\.[0-9]{3}/[0-9]{4}-[0-9]{2})\b`),
	regexp.MustCompile(`\b([0-9]{11,14})\b`),
}

var destinatarioDocPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([0-9]{2}\.[0-9]{3}\.[0-9]{3}/[0-9]{4}-[0-9]{2})\b`),
	regexp.MustCompile(`\b([0-9]{3}\.[0-9]{3}\.[0-9]{3}-[0-9]{2})\b`),
}

var cnpjPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CNPJ\s*[:\-]?\s*([0-9\./-]{14,18})`),
	regexp.MustCompile(`(?i)CNPJ/CPF\s*[:\-]?\s*([0-9\./-]{11,18})`),
}

var cpfPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CPF\s*[:\-]?\s*([0-9\.\-]{11,14})`),
}

// extractDocumento finds the client's CPF (11 digits) or CNPJ (14
// digits). Type-specific blocks are searched first so the emitter's
// own document, which always appears earlier in the layout, is not
// picked up by accident.
func extractDocumento(text string, tipo models.DocumentType) string {
	if tipo == models.TipoNFSe {
		doc := digitsOnly(firstPattern(tomadorBlock(text), tomadorDocPatterns))
		if len(doc) == 14 || len(doc) == 11 {
			return doc
		}
	}

	if tipo == models.TipoNFe {
		doc := digitsOnly(firstPattern(destinatarioBlock(text), destinatarioDocPatterns))
		if len(doc) == 14 || len(doc) == 11 {
			return doc
		}
	}

	cnpj := digitsOnly(firstPattern(text, cnpjPatterns))
	if len(cnpj) == 14 || len(cnpj) == 11 {
		return cnpj
	}

	cpf := digitsOnly(firstPattern(text, cpfPatterns))
	if len(cpf) == 11 {
		return cpf
	}
	return ""
}
