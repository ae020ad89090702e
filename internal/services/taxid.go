// Package services holds domain checks that sit between extraction and
// persistence.
package services

import (
	"regexp"
	"strings"
)

// ValidationWarning represents a non-critical issue found on a record
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DocumentValidation is the outcome of a CPF/CNPJ check
type DocumentValidation struct {
	Valid    bool                `json:"valid"`
	Kind     string              `json:"kind"` // "CPF", "CNPJ" or ""
	Warnings []ValidationWarning `json:"warnings"`
}

var reDocDigits = regexp.MustCompile(`\D`)

// ValidateDocumento checks a Brazilian tax id by length and check
// digits. Documents that fail validation are flagged, never rejected:
// OCR noise makes hard failures too aggressive for this pipeline.
func ValidateDocumento(documento string) DocumentValidation {
	digits := reDocDigits.ReplaceAllString(documento, "")

	switch len(digits) {
	case 0:
		return DocumentValidation{Valid: false, Warnings: []ValidationWarning{{
			Field: "documento", Code: "MISSING", Message: "documento nao informado",
		}}}
	case 11:
		if validCPF(digits) {
			return DocumentValidation{Valid: true, Kind: "CPF"}
		}
		return DocumentValidation{Kind: "CPF", Warnings: []ValidationWarning{{
			Field: "documento", Code: "CPF_CHECK_DIGIT", Message: "CPF com digito verificador invalido",
		}}}
	case 14:
		if validCNPJ(digits) {
			return DocumentValidation{Valid: true, Kind: "CNPJ"}
		}
		return DocumentValidation{Kind: "CNPJ", Warnings: []ValidationWarning{{
			Field: "documento", Code: "CNPJ_CHECK_DIGIT", Message: "CNPJ com digito verificador invalido",
		}}}
	}

	return DocumentValidation{Warnings: []ValidationWarning{{
		Field: "documento", Code: "BAD_LENGTH", Message: "documento deve ter 11 (CPF) ou 14 (CNPJ) digitos",
	}}}
}

func allSame(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func validCPF(digits string) bool {
	if allSame(digits) {
		return false
	}
	d1 := checkDigit(digits, []int{10, 9, 8, 7, 6, 5, 4, 3, 2})
	if d1 != int(digits[9]-'0') {
		return false
	}
	d2 := checkDigit(digits, []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2})
	return d2 == int(digits[10]-'0')
}

func validCNPJ(digits string) bool {
	if allSame(digits) {
		return false
	}
	d1 := checkDigit(digits, []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	if d1 != int(digits[12]-'0') {
		return false
	}
	d2 := checkDigit(digits, []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	return d2 == int(digits[13]-'0')
}
