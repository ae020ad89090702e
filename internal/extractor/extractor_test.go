package extractor

import (
	"strings"
	"testing"
)

const danfeSample = `DANFE
Documento Auxiliar da Nota Fiscal Eletronica
N. 123456
Data Emissao: 05/03/2024
DESTINATARIO/REMETENTE
NOME/RAZAO SOCIAL
ACME COMERCIO LTDA 12.345.678/0001-99
CALCULO DE IMPOSTO
BASE DE CALCULO 1.000,00
VALOR DO ICMS 180,00
VALOR TOTAL DA NOTA 1.234,56
DADOS DOS PRODUTOS/SERVICOS
000123456 PARAFUSO SEXTAVADO M8 ACO INOX 10,00 2,50
DADOS ADICIONAIS`

func TestHeuristicDANFE(t *testing.T) {
	result := Heuristic(danfeSample)

	if result.Method != "heuristic" {
		t.Errorf("method = %q, want heuristic", result.Method)
	}
	f := result.Fields
	if f.Tipo != "NF-e" {
		t.Errorf("tipo = %q, want NF-e", f.Tipo)
	}
	if f.NumeroNF != "123456" {
		t.Errorf("numeroNF = %q, want 123456", f.NumeroNF)
	}
	if f.DataEmissao != "2024-03-05" {
		t.Errorf("dataEmissao = %q, want 2024-03-05", f.DataEmissao)
	}
	if f.Cliente != "ACME COMERCIO LTDA" {
		t.Errorf("cliente = %q, want ACME COMERCIO LTDA", f.Cliente)
	}
	if f.Documento != "12345678000199" {
		t.Errorf("documento = %q, want 12345678000199", f.Documento)
	}
	if f.Valor == nil || f.Valor.String() != "1234.56" {
		t.Errorf("valor = %v, want 1234.56", f.Valor)
	}
	if !strings.HasPrefix(f.Descricao, "NF-e") {
		t.Errorf("descricao = %q, want NF-e prefix", f.Descricao)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", result.Confidence)
	}
	if len(result.Missing) != 0 {
		t.Errorf("missing = %v, want empty", result.Missing)
	}
}

// DANFEs print the emission label as "Data Emissao", "Data da Emissao"
// or "Data de Emissão"; every variant must land on the same ISO date.
func TestHeuristicDANFEDataDeEmissao(t *testing.T) {
	raw := `DANFE
Documento Auxiliar da Nota Fiscal Eletronica
N. 123456
Data de Emissão: 05/03/2024
DESTINATARIO/REMETENTE
NOME/RAZAO SOCIAL
ACME COMERCIO LTDA 12.345.678/0001-99
CALCULO DE IMPOSTO
VALOR TOTAL DA NOTA R$ 1.234,56
DADOS ADICIONAIS`

	result := Heuristic(raw)
	f := result.Fields
	if f.Tipo != "NF-e" {
		t.Errorf("tipo = %q, want NF-e", f.Tipo)
	}
	if f.DataEmissao != "2024-03-05" {
		t.Errorf("dataEmissao = %q, want 2024-03-05", f.DataEmissao)
	}
	if f.Documento != "12345678000199" {
		t.Errorf("documento = %q, want 12345678000199", f.Documento)
	}
	if f.Valor == nil || f.Valor.String() != "1234.56" {
		t.Errorf("valor = %v, want 1234.56", f.Valor)
	}
	if len(result.Missing) != 0 {
		t.Errorf("missing = %v, want empty", result.Missing)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", result.Confidence)
	}
}

const nfseSample = `Prefeitura Municipal de Sao Paulo
NFS-e
Numero da NFS-e: 2024001
Data e Hora da emissao 10/01/2024 09:15
TOMADOR DO SERVICO
Nome/Nome Empresarial
Joao da Silva Consultoria
CNPJ/CPF/NIF: 123.456.789-09
SERVICO PRESTADO
Descricao do Servico
Consultoria em TI
VALOR TOTAL DA NFS-E
Valor Liquido da NFS-e R$ 1.500,00
INFORMACOES COMPLEMENTARES`

func TestHeuristicNFSe(t *testing.T) {
	result := Heuristic(nfseSample)

	f := result.Fields
	if f.Tipo != "NFS-e" {
		t.Errorf("tipo = %q, want NFS-e", f.Tipo)
	}
	if f.NumeroNF != "2024001" {
		t.Errorf("numeroNF = %q, want 2024001", f.NumeroNF)
	}
	if f.DataEmissao != "2024-01-10" {
		t.Errorf("dataEmissao = %q, want 2024-01-10", f.DataEmissao)
	}
	if f.Cliente != "Joao da Silva Consultoria" {
		t.Errorf("cliente = %q, want Joao da Silva Consultoria", f.Cliente)
	}
	if f.Documento != "12345678909" {
		t.Errorf("documento = %q, want 12345678909", f.Documento)
	}
	if f.Valor == nil || f.Valor.String() != "1500" {
		t.Errorf("valor = %v, want 1500", f.Valor)
	}
	if f.Descricao != "NFS-e - Consultoria em TI" {
		t.Errorf("descricao = %q", f.Descricao)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", result.Confidence)
	}
}

func TestHeuristicAcceptsAccents(t *testing.T) {
	raw := "NFS-e\nNúmero da NFS-e: 555123\nData Emissão: 02/05/2024"
	result := Heuristic(raw)
	if result.Fields.NumeroNF != "555123" {
		t.Errorf("numeroNF = %q, want 555123", result.Fields.NumeroNF)
	}
	if result.Fields.DataEmissao != "2024-05-02" {
		t.Errorf("dataEmissao = %q, want 2024-05-02", result.Fields.DataEmissao)
	}
}

func TestHeuristicEmptyInput(t *testing.T) {
	result := Heuristic("")

	if result.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", result.Confidence)
	}
	if len(result.Missing) != 4 {
		t.Errorf("missing = %v, want all four required fields", result.Missing)
	}
	if result.Fields.Tipo != "NF-e" {
		t.Errorf("tipo = %q, want NF-e default", result.Fields.Tipo)
	}
}

func TestHeuristicPartialConfidence(t *testing.T) {
	// Only number and date are findable: 2 of 4 required fields
	raw := "CHAVE DE ACESSO\nNF-e 998877\nData Emissao: 01/02/2024"
	result := Heuristic(raw)

	if result.Fields.NumeroNF != "998877" {
		t.Fatalf("numeroNF = %q, want 998877", result.Fields.NumeroNF)
	}
	if result.Fields.DataEmissao != "2024-02-01" {
		t.Fatalf("dataEmissao = %q", result.Fields.DataEmissao)
	}
	if result.Confidence != 50 && result.Confidence != 75 {
		t.Errorf("confidence = %d, want 50 or 75", result.Confidence)
	}
}
