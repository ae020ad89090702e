package models

import (
	"github.com/shopspring/decimal"
)

// DocumentType distinguishes service invoices (NFS-e) from product
// invoices (NF-e), which carry different layouts and labels.
type DocumentType string

const (
	TipoNFSe DocumentType = "NFS-e"
	TipoNFe  DocumentType = "NF-e"
)

// Extraction methods reported back to callers.
const (
	MethodHeuristic   = "heuristic"
	MethodHeuristicAI = "heuristic+ai"
)

// RequiredFields drive the confidence score: each one present adds a
// quarter of the total.
var RequiredFields = []string{"numeroNF", "dataEmissao", "cliente", "valor"}

// Fields holds the values pulled out of an invoice document. Valor is
// nil when no amount could be determined.
type Fields struct {
	Tipo        string           `json:"tipo"`
	NumeroNF    string           `json:"numeroNF"`
	DataEmissao string           `json:"dataEmissao"`
	Cliente     string           `json:"cliente"`
	Documento   string           `json:"documento"`
	Valor       *decimal.Decimal `json:"valor"`
	Descricao   string           `json:"descricao"`
}

// FieldEmpty reports whether the named field has no usable value.
func (f Fields) FieldEmpty(name string) bool {
	switch name {
	case "tipo":
		return f.Tipo == ""
	case "numeroNF":
		return f.NumeroNF == ""
	case "dataEmissao":
		return f.DataEmissao == ""
	case "cliente":
		return f.Cliente == ""
	case "documento":
		return f.Documento == ""
	case "valor":
		return f.Valor == nil
	case "descricao":
		return f.Descricao == ""
	}
	return true
}

// Missing returns the required fields absent from f, in canonical order.
func Missing(f Fields) []string {
	missing := []string{}
	for _, name := range RequiredFields {
		if f.FieldEmpty(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Confidence scores f from 0 to 100 by the share of required fields found.
func Confidence(f Fields) int {
	found := 0
	for _, name := range RequiredFields {
		if !f.FieldEmpty(name) {
			found++
		}
	}
	return int(float64(found)/float64(len(RequiredFields))*100 + 0.5)
}

// Result is the outcome of one extraction pass.
type Result struct {
	Method     string   `json:"method"`
	Confidence int      `json:"confidence"`
	Missing    []string `json:"missing"`
	Fields     Fields   `json:"fields"`
	AINote     string   `json:"aiNote,omitempty"`
	AIError    string   `json:"aiError,omitempty"`
}
