package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Brazilian notation: "." groups thousands, "," marks decimals.
var reBRMoney = regexp.MustCompile(`([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})`)

var reBRMoneyBounded = regexp.MustCompile(`\b([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2})\b`)

// ParseBRMoney converts "1.234,56" to a decimal. The boolean is false
// when the value does not parse as a number.
func ParseBRMoney(value string) (decimal.Decimal, bool) {
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

// findAllMoney returns every Brazilian-format amount in text, in order
// of appearance.
func findAllMoney(text string) []decimal.Decimal {
	var values []decimal.Decimal
	for _, m := range reBRMoneyBounded.FindAllStringSubmatch(text, -1) {
		if d, ok := ParseBRMoney(m[1]); ok {
			values = append(values, d)
		}
	}
	return values
}

// extractMoneyNearLabel finds the line matching label and returns the
// first amount on that line, or on one of the next window lines. OCR
// frequently splits a label and its value across lines, so looking only
// at the label line misses real values.
func extractMoneyNearLabel(lines []string, label *regexp.Regexp, window int) (decimal.Decimal, bool) {
	index := -1
	for i, line := range lines {
		if label.MatchString(line) {
			index = i
			break
		}
	}
	if index < 0 {
		return decimal.Decimal{}, false
	}

	if m := reBRMoney.FindStringSubmatch(lines[index]); m != nil {
		return ParseBRMoney(m[1])
	}

	limit := index + window
	if limit > len(lines)-1 {
		limit = len(lines) - 1
	}
	for i := index + 1; i <= limit; i++ {
		if m := reBRMoney.FindStringSubmatch(lines[i]); m != nil {
			return ParseBRMoney(m[1])
		}
	}

	return decimal.Decimal{}, false
}
