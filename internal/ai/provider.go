// Package ai augments heuristic extraction results with fields
// recovered by external AI providers. Heuristic values always win:
// providers only fill in what the patterns missed.
package ai

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

// Provider enriches a heuristic extraction result.
type Provider interface {
	Enhance(ctx context.Context, raw string, base models.Result) (models.Result, error)
}

var mergeOrder = []string{"numeroNF", "dataEmissao", "cliente", "documento", "valor", "descricao"}

var reNonDigits = regexp.MustCompile(`\D`)

func digitsOnly(value string) string {
	return reNonDigits.ReplaceAllString(value, "")
}

// parseBRMoney converts "1.234,56" to a decimal.
func parseBRMoney(value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Decimal{}, false
	}
	normalized := strings.ReplaceAll(value, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// normalizeRemoteFields sanitizes a provider payload: digits-only ids
// with hard length caps, trimmed strings, and amounts accepted as JSON
// numbers or Brazilian-format strings.
func normalizeRemoteFields(data map[string]any) models.Fields {
	fields := models.Fields{
		NumeroNF:    truncate(digitsOnly(asString(data["numeroNF"])), 20),
		DataEmissao: strings.TrimSpace(asString(data["dataEmissao"])),
		Cliente:     truncate(strings.TrimSpace(asString(data["cliente"])), 120),
		Documento:   truncate(digitsOnly(asString(data["documento"])), 14),
		Descricao:   truncate(strings.TrimSpace(asString(data["descricao"])), 200),
	}

	switch v := data["valor"].(type) {
	case nil:
	case float64:
		d := decimal.NewFromFloat(v)
		fields.Valor = &d
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			fields.Valor = &d
		}
	case string:
		if d, ok := parseBRMoney(v); ok {
			fields.Valor = &d
		}
	}
	return fields
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return decimal.NewFromFloat(s).String()
	case json.Number:
		return s.String()
	case nil:
		return ""
	}
	return ""
}

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

// mergeFields fills empty base fields from the provider's candidates.
// A field the heuristics already found is never overwritten.
func mergeFields(base, candidate models.Fields) models.Fields {
	merged := base
	for _, name := range mergeOrder {
		if merged.FieldEmpty(name) && !candidate.FieldEmpty(name) {
			setField(&merged, name, candidate)
		}
	}
	return merged
}

func setField(dst *models.Fields, name string, src models.Fields) {
	switch name {
	case "numeroNF":
		dst.NumeroNF = src.NumeroNF
	case "dataEmissao":
		dst.DataEmissao = src.DataEmissao
	case "cliente":
		dst.Cliente = src.Cliente
	case "documento":
		dst.Documento = src.Documento
	case "valor":
		dst.Valor = src.Valor
	case "descricao":
		dst.Descricao = src.Descricao
	}
}

// applyPayload merges a provider payload into base and rescales
// confidence. Confidence never drops below the heuristic score.
func applyPayload(base models.Result, payload map[string]any) models.Result {
	data := payload
	if fields, ok := payload["fields"].(map[string]any); ok {
		data = fields
	} else if inner, ok := payload["data"].(map[string]any); ok {
		data = inner
	}

	merged := mergeFields(base.Fields, normalizeRemoteFields(data))

	result := base
	result.Method = models.MethodHeuristicAI
	result.Fields = merged
	result.Missing = models.Missing(merged)
	if c := models.Confidence(merged); c > result.Confidence {
		result.Confidence = c
	}
	if note, ok := payload["note"].(string); ok && note != "" {
		result.AINote = note
	} else if expl, ok := payload["explanation"].(string); ok {
		result.AINote = expl
	}
	return result
}

// extractJSONFromText recovers a JSON object embedded in free-form
// text by taking the outermost brace pair. LLMs routinely wrap their
// answer in prose or markdown fences.
func extractJSONFromText(value string) map[string]any {
	txt := strings.TrimSpace(stripCodeFences(value))
	start := strings.Index(txt, "{")
	end := strings.LastIndex(txt, "}")
	if start < 0 || end <= start {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(txt[start:end+1]), &payload); err != nil {
		return nil
	}
	return payload
}

func stripCodeFences(value string) string {
	out := strings.TrimSpace(value)
	if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```json")
		out = strings.TrimPrefix(out, "```")
		out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	}
	return strings.TrimSpace(out)
}
