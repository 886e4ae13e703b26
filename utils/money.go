package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatEuro renders an amount the way French receipts do: "25,00 €".
func FormatEuro(amount decimal.Decimal) string {
	return strings.Replace(amount.StringFixed(2), ".", ",", 1) + " €"
}
