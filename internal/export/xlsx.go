// Package export renders persisted invoices as spreadsheet downloads.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nfscan/invoice-extract-service/internal/db"
)

var headers = []string{
	"Numero NF", "Data Emissao", "Cliente", "Documento",
	"Valor", "Descricao", "Tipo", "Metodo", "Confianca", "Estado",
}

// BuildNotasXLSX renders the given records into an xlsx workbook.
func BuildNotasXLSX(notas []db.Nota) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Notas Fiscais"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, bold)
	}

	for i, n := range notas {
		row := i + 2
		emissao := ""
		if n.DataEmissao != nil {
			emissao = n.DataEmissao.Format("2006-01-02")
		}
		values := []interface{}{
			n.NumeroNF, emissao, n.Cliente, n.Documento,
			n.Valor, n.Descricao, n.Tipo, n.Method, n.Confidence, n.Estado,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row, err)
			}
		}
	}

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 14)
	f.SetColWidth(sheet, "C", "C", 32)
	f.SetColWidth(sheet, "D", "D", 18)
	f.SetColWidth(sheet, "E", "E", 14)
	f.SetColWidth(sheet, "F", "F", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}
