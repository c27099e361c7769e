// Package core provides the record model and the locale conventions of the
// warehouse ledger.
//
// Amounts in the source files use Guatemalan formatting: "." groups
// thousands and "," separates decimals ("100.589,56"). On-screen amounts are
// shown in Quetzales with the opposite convention ("Q 100,589.56").
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes amounts rendered for display.
const CurrencySymbol = "Q"

// ParseCurrency converts a ledger amount such as "100.589,56" to 100589.56.
//
// Every "." is treated as a thousands separator and the first "," as the
// decimal separator. Only the leading number is read, so trailing text is
// ignored ("1.500,00 Q" is 1500). Input without a leading number yields 0.
func ParseCurrency(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	s = numericPrefix(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// numericPrefix returns the longest leading decimal literal of s: an
// optional sign, digits with at most one ".", and an optional exponent.
// It is empty when s does not start with a number.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for ; j < len(s) && isDigit(s[j]); j++ {
			digits++
		}
		if j > i+1 {
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for ; k < len(s) && isDigit(s[k]); k++ {
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// FormatCurrency renders v for display, e.g. "Q 1,500.00".
func FormatCurrency(v float64) string {
	intPart, frac, neg := splitCents(v)
	out := CurrencySymbol + " "
	if neg {
		out += "-"
	}
	return out + groupThousands(intPart, ',') + "." + frac
}

// FormatCurrencyForExport renders v in the ledger format, e.g. "1.500,00".
// It is the inverse of ParseCurrency to the cent.
func FormatCurrencyForExport(v float64) string {
	intPart, frac, neg := splitCents(v)
	out := groupThousands(intPart, '.') + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// splitCents rounds v to two decimals and returns the integer digits, the
// two fractional digits and the sign.
func splitCents(v float64) (string, string, bool) {
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	dot := strings.IndexByte(s, '.')
	return s[:dot], s[dot+1:], neg
}

func groupThousands(digits string, sep byte) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
