package api

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema for manually created notas. Extraction results skip this
// gate: heuristics are allowed to return partial data.
const notaSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "numeroNF": {"type": "string", "maxLength": 20},
    "dataEmissao": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "cliente": {"type": "string", "minLength": 1, "maxLength": 120},
    "documento": {"type": "string", "pattern": "^[0-9]*$", "maxLength": 14},
    "valor": {"type": "number", "minimum": 0},
    "descricao": {"type": "string", "maxLength": 200},
    "tipo": {"type": "string", "enum": ["NFS-e", "NF-e"]},
    "estado": {"type": "string", "enum": ["pendente", "confirmada", "cancelada"]}
  },
  "required": ["numeroNF", "dataEmissao", "cliente", "valor"],
  "additionalProperties": false
}`

var notaSchema = jsonschema.MustCompileString("nota.json", notaSchemaJSON)

// validateNotaPayload checks a decoded request body against the nota
// schema and returns a readable error.
func validateNotaPayload(payload interface{}) error {
	if err := notaSchema.Validate(payload); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			var causes []string
			for _, c := range ve.BasicOutput().Errors {
				if c.Error != "" && c.KeywordLocation != "" {
					causes = append(causes, fmt.Sprintf("%s: %s", c.InstanceLocation, c.Error))
				}
			}
			if len(causes) > 0 {
				return fmt.Errorf("%s", strings.Join(causes, "; "))
			}
		}
		return err
	}
	return nil
}
