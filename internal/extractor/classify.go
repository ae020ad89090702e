package extractor

import (
	"regexp"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

var (
	reNFSeSignal = regexp.MustCompile(`(?i)\bNFS-?e\b|DANFSe|Documento Auxiliar da NFS-e`)
	reNFeSignal  = regexp.MustCompile(`(?i)\bDANFE\b|Documento Auxiliar da Nota Fiscal Eletronica|CHAVE DE ACESSO`)
)

// DetectType classifies normalized text as a service invoice (NFS-e)
// or product invoice (NF-e). NFS-e markers win over NF-e markers;
// unrecognizable documents default to NF-e.
func DetectType(text string) models.DocumentType {
	if reNFSeSignal.MatchString(text) {
		return models.TipoNFSe
	}
	if reNFeSignal.MatchString(text) {
		return models.TipoNFe
	}
	return models.TipoNFe
}
