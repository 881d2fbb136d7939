package models

import (
	"fmt"
	"math"
	"strings"
)

// zeroDecimal and threeDecimal list ISO 4217 currencies whose minor unit is not cents.
var (
	zeroDecimal = map[string]struct{}{
		"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "IDR": {}, "ISK": {}, "JPY": {}, "KMF": {},
		"KRW": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {}, "VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
	}
	threeDecimal = map[string]struct{}{
		"BHD": {}, "IQD": {}, "JOD": {}, "KWD": {}, "LYD": {}, "OMR": {}, "TND": {},
	}
)

// MinorUnitExponent returns the number of decimal places the currency is settled in.
func MinorUnitExponent(currency string) int {
	code := strings.ToUpper(currency)
	if _, ok := zeroDecimal[code]; ok {
		return 0
	}
	if _, ok := threeDecimal[code]; ok {
		return 3
	}
	return 2
}

// ToMinor converts a major-unit amount to integral minor units, rounding half away from zero.
func ToMinor(amount float64, currency string) int64 {
	scale := math.Pow10(MinorUnitExponent(currency))
	return int64(math.Round(amount * scale))
}

// Money is an amount held in minor units.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Major returns the amount in major units.
func (m Money) Major() float64 {
	return float64(m.Amount) / math.Pow10(MinorUnitExponent(m.Currency))
}

func (m Money) String() string {
	return fmt.Sprintf("%s %.*f", strings.ToUpper(m.Currency), MinorUnitExponent(m.Currency), m.Major())
}
