package style

import (
	"strconv"

	"github.com/leekchan/accounting"
)

var usd = accounting.Accounting{Symbol: "$", Precision: 2}

// FormatUSD formats an amount as dollars with thousands separators, e.g. $1,234.56
func FormatUSD(amount float64) string {
	return usd.FormatMoney(amount)
}

// FormatPercentage formats a decimal fraction as a percentage with prec decimals
func FormatPercentage(fraction float64, prec int) string {
	return strconv.FormatFloat(fraction*100, 'f', prec, 64) + "%"
}

// PremiumColor returns the color for a value compared with its par amount
func PremiumColor(value, par float64) string {
	if value >= par {
		return GreenColor
	}
	return RedColor
}
