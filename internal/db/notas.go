package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Nota is the persisted form of an extracted invoice.
type Nota struct {
	ID          uuid.UUID  `json:"id"`
	NumeroNF    string     `json:"numero_nf"`
	DataEmissao *time.Time `json:"data_emissao"`
	Cliente     string     `json:"cliente"`
	Documento   string     `json:"documento"`
	Valor       float64    `json:"valor"`
	Descricao   string     `json:"descricao"`
	Tipo        string     `json:"tipo"`
	Method      string     `json:"method"`
	Confidence  int        `json:"confidence"`
	ArquivoURL  string     `json:"arquivo_url"`
	Estado      string     `json:"estado"`
	RawText     string     `json:"raw_text,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func SaveNota(ctx context.Context, orgAlias string, n *Nota) error {
	schema := GetSchemaForOrg(orgAlias)

	query := fmt.Sprintf(`
		INSERT INTO %s.notas_fiscais (
			numero_nf, data_emissao, cliente, documento, valor,
			descricao, tipo, method, confidence, arquivo_url, estado, raw_text
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`, schema)

	return Pool.QueryRow(ctx, query,
		n.NumeroNF, n.DataEmissao, n.Cliente, n.Documento, n.Valor,
		n.Descricao, n.Tipo, n.Method, n.Confidence, n.ArquivoURL, n.Estado, n.RawText,
	).Scan(&n.ID, &n.CreatedAt)
}

func GetNotas(ctx context.Context, orgAlias string, limit int) ([]Nota, error) {
	schema := GetSchemaForOrg(orgAlias)

	query := fmt.Sprintf(`
		SELECT id, COALESCE(numero_nf, ''), data_emissao, COALESCE(cliente, ''),
		       COALESCE(documento, ''), COALESCE(valor, 0), COALESCE(descricao, ''),
		       COALESCE(tipo, ''), COALESCE(method, ''), COALESCE(confidence, 0),
		       COALESCE(arquivo_url, ''), COALESCE(estado, ''), created_at, updated_at
		FROM %s.notas_fiscais
		ORDER BY created_at DESC
		LIMIT $1
	`, schema)

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notas []Nota
	for rows.Next() {
		var n Nota
		if err := rows.Scan(
			&n.ID, &n.NumeroNF, &n.DataEmissao, &n.Cliente, &n.Documento,
			&n.Valor, &n.Descricao, &n.Tipo, &n.Method, &n.Confidence,
			&n.ArquivoURL, &n.Estado, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notas = append(notas, n)
	}
	return notas, rows.Err()
}

func GetNotaByID(ctx context.Context, orgAlias string, id uuid.UUID) (*Nota, error) {
	schema := GetSchemaForOrg(orgAlias)

	query := fmt.Sprintf(`
		SELECT id, COALESCE(numero_nf, ''), data_emissao, COALESCE(cliente, ''),
		       COALESCE(documento, ''), COALESCE(valor, 0), COALESCE(descricao, ''),
		       COALESCE(tipo, ''), COALESCE(method, ''), COALESCE(confidence, 0),
		       COALESCE(arquivo_url, ''), COALESCE(estado, ''), COALESCE(raw_text, ''),
		       created_at, updated_at
		FROM %s.notas_fiscais
		WHERE id = $1
	`, schema)

	var n Nota
	err := Pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.NumeroNF, &n.DataEmissao, &n.Cliente, &n.Documento,
		&n.Valor, &n.Descricao, &n.Tipo, &n.Method, &n.Confidence,
		&n.ArquivoURL, &n.Estado, &n.RawText, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNota applies the given column/value pairs. Column names are
// validated against an allow list before entering the query.
func UpdateNota(ctx context.Context, orgAlias string, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	schema := GetSchemaForOrg(orgAlias)

	allowed := map[string]bool{
		"numero_nf": true, "data_emissao": true, "cliente": true,
		"documento": true, "valor": true, "descricao": true,
		"tipo": true, "estado": true,
	}

	var sets []string
	var args []interface{}
	i := 1
	for col, val := range updates {
		if !allowed[col] {
			return fmt.Errorf("campo nao atualizavel: %s", col)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s.notas_fiscais SET %s WHERE id = $%d`,
		schema, strings.Join(sets, ", "), i)

	tag, err := Pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("nota nao encontrada")
	}
	return nil
}

func DeleteNota(ctx context.Context, orgAlias string, id uuid.UUID) error {
	schema := GetSchemaForOrg(orgAlias)

	tag, err := Pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s.notas_fiscais WHERE id = $1`, schema), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("nota nao encontrada")
	}
	return nil
}

// MonthlyTotal is one month's billing as stored.
type MonthlyTotal struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
	Total float64   `json:"total"`
}

func GetMonthlyTotals(ctx context.Context, orgAlias string, months int) ([]MonthlyTotal, error) {
	schema := GetSchemaForOrg(orgAlias)

	query := fmt.Sprintf(`
		SELECT date_trunc('month', data_emissao) AS mes, COUNT(*), COALESCE(SUM(valor), 0)
		FROM %s.notas_fiscais
		WHERE data_emissao IS NOT NULL
		  AND data_emissao >= date_trunc('month', NOW()) - ($1 || ' months')::interval
		GROUP BY mes
		ORDER BY mes
	`, schema)

	rows, err := Pool.Query(ctx, query, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []MonthlyTotal
	for rows.Next() {
		var t MonthlyTotal
		if err := rows.Scan(&t.Month, &t.Count, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
