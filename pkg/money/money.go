// Package money formatea montos en pesos con separadores de miles en español.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// Format redondea a pesos enteros y agrupa miles: 1234567.8 → "$1.234.568".
func Format(d decimal.Decimal) string {
	return printer.Sprintf("$%d", d.Round(0).IntPart())
}

// FormatUnits agrupa miles de una cantidad entera.
func FormatUnits(n int64) string {
	return printer.Sprintf("%d", n)
}
