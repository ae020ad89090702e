package extractor

import (
	"testing"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

func TestDetectType(t *testing.T) {
	cases := []struct {
		name string
		text string
		want models.DocumentType
	}{
		{"danfse", "DANFSe - Documento Auxiliar", models.TipoNFSe},
		{"nfse word", "Prefeitura Municipal\nNFS-e numero 123", models.TipoNFSe},
		{"nfse no hyphen", "NFSe emitida em 2024", models.TipoNFSe},
		{"danfe", "DANFE\nDocumento Auxiliar da Nota Fiscal Eletronica", models.TipoNFe},
		{"chave de acesso", "CHAVE DE ACESSO 1234", models.TipoNFe},
		{"unknown defaults to nfe", "texto qualquer sem marcadores", models.TipoNFe},
		{"nfse wins over nfe", "DANFE com referencia a NFS-e", models.TipoNFSe},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectType(tc.text); got != tc.want {
				t.Errorf("DetectType(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
