package utils

import "github.com/shopspring/decimal"

// currencyPrecision maps ISO 4217 codes to their decimal places. Codes not
// listed here use the default of 2.
var currencyPrecision = map[string]int32{
	"BHD": 3,
	"JOD": 3,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"CLP": 0,
	"ISK": 0,
}

// CurrencyPrecision returns the number of decimal places for a currency code.
func CurrencyPrecision(code string) int32 {
	if p, ok := currencyPrecision[code]; ok {
		return p
	}
	return 2
}

// RoundToCurrency rounds an amount to the precision of the given currency.
// Example: 12.3456 with USD (precision 2) returns 12.35.
// Example: 12.3456 with JPY (precision 0) returns 12.
func RoundToCurrency(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Round(CurrencyPrecision(code))
}

// FormatWithPrecision formats an amount with the given precision.
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.Round(precision).String()
}
