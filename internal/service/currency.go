package service

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatCurrency renders an amount as whole Rupiah with Indonesian digit grouping,
// e.g. "Rp 1.200.000" or "-Rp 500.000".
func FormatCurrency(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	if whole < 0 {
		return "-Rp " + rupiahPrinter.Sprintf("%d", -whole)
	}
	return "Rp " + rupiahPrinter.Sprintf("%d", whole)
}
