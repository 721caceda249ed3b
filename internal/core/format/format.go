// Package format renders report numbers and dates for display.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Date formats t as YYYY-MM-DD in UTC.
func Date(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// WithCommas groups the integer part of n in thousands: 1234567 -> "1,234,567".
func WithCommas(n float64) string {
	whole, frac := math.Modf(n)
	out := printer.Sprintf("%d", int64(whole))
	if frac == 0 {
		return out
	}
	fraction := strconv.FormatFloat(math.Abs(frac), 'f', -1, 64)
	if whole == 0 && n < 0 {
		out = "-" + out
	}
	return out + strings.TrimPrefix(fraction, "0")
}

// Count is WithCommas for integer counts.
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}

// Percent renders a fraction as a whole percentage: 0.123 -> "12%".
func Percent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(0) + "%"
}

// DecimalPercent renders a fraction as a percentage with two decimals: 0.01234 -> "1.23%".
func DecimalPercent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(2) + "%"
}

var siPrefixes = []string{"y", "z", "a", "f", "p", "n", "µ", "m", "", "k", "M", "G", "T", "P", "E", "Z", "Y"}

var trailingZeroes = regexp.MustCompile(`\.0+`)

// SI renders n with two significant digits and an SI prefix, dropping a zero fraction:
// 1230000 -> "1.2M", 1000 -> "1k".
func SI(n float64) string {
	if n == 0 {
		return "0"
	}

	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	// d.de±XX: two significant digits and the decimal exponent after rounding
	sci := strconv.FormatFloat(n, 'e', 1, 64)
	mantissa, exp, _ := strings.Cut(sci, "e")
	exponent, _ := strconv.Atoi(exp)
	digits := strings.Replace(mantissa, ".", "", 1)

	group := min(max(int(math.Floor(float64(exponent)/3)), -8), 8)
	k := exponent - group*3 + 1

	var out string
	switch {
	case k == len(digits):
		out = digits
	case k > len(digits):
		out = digits + strings.Repeat("0", k-len(digits))
	case k > 0:
		out = digits[:k] + "." + digits[k:]
	default:
		out = "0." + strings.Repeat("0", -k) + digits
	}

	return trailingZeroes.ReplaceAllString(sign+out, "") + siPrefixes[group+8]
}
