package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"lazorwallet/internal/domain/entity"
)

const (
	// DefaultRateUSDToVND is the fixed demo conversion rate.
	DefaultRateUSDToVND = 27000.0

	// On-ramp submission bounds in fiat units.
	DefaultOnrampMin = 20.0
	DefaultOnrampMax = 500.0

	vndGlyph = "đ"
)

// integerSymbols lists tokens rendered without fractional digits.
var integerSymbols = map[string]struct{}{
	"BONK": {},
}

// Currency renders a fiat amount. USD uses fixed 2-decimal dollar
// formatting, VND a grouped integer with the đ suffix. Non-finite input
// degrades to the zero-value string instead of propagating NaN into the UI.
func Currency(amount float64, fiat entity.Fiat) string {
	if !isFinite(amount) {
		if fiat == entity.FiatVND {
			return "0 " + vndGlyph
		}
		return "$0.00"
	}
	if fiat == entity.FiatVND {
		return Number(amount, 0) + " " + vndGlyph
	}
	return "$" + Number(amount, 2)
}

// Number formats v with the given number of decimals and thousands grouping.
func Number(v float64, decimals int) string {
	if !isFinite(v) {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	grouped := groupThousands(intPart)
	if hasFrac {
		grouped += "." + fracPart
	}
	if neg {
		return "-" + grouped
	}
	return grouped
}

// TokenAmount renders a token quantity with its symbol. Tokens in the
// integer table get no fractional digits; otherwise 4 decimals below one
// unit, 2 above.
func TokenAmount(amount float64, symbol string) string {
	decimals := 2
	if _, ok := integerSymbols[symbol]; ok {
		decimals = 0
	} else if math.Abs(amount) < 1 {
		decimals = 4
	}
	return Number(amount, decimals) + " " + symbol
}

// Percentage renders a signed percentage with 2 decimals, keeping an
// explicit leading + for non-negative values.
func Percentage(value float64) string {
	if !isFinite(value) {
		value = 0
	}
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// Address truncates an address to start leading plus end trailing
// characters joined by an ellipsis; short addresses pass through unchanged.
func Address(address string, start, end int) string {
	if len(address) <= start+end {
		return address
	}
	return address[:start] + "..." + address[len(address)-end:]
}

// ConvertCurrency converts between the two demo fiats using the supplied
// USD->VND rate; identity when from == to. A non-positive rate falls back
// to the default.
func ConvertCurrency(amount float64, from, to entity.Fiat, rate float64) float64 {
	if from == to || !isFinite(amount) {
		return amount
	}
	if rate <= 0 || !isFinite(rate) {
		rate = DefaultRateUSDToVND
	}
	switch {
	case from == entity.FiatUSD && to == entity.FiatVND:
		return amount * rate
	case from == entity.FiatVND && to == entity.FiatUSD:
		return amount / rate
	}
	return amount
}

// ValidateAmount is the inclusive range check gating on-ramp submission.
func ValidateAmount(amount, min, max float64) bool {
	if !isFinite(amount) {
		return false
	}
	return amount >= min && amount <= max
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	pre := n % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
	}
	for i := pre; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
