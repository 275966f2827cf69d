// Package format renders budget amounts for display.
//
// Currency strings follow the digit grouping of the configured locale
// (lakh/crore grouping for en-IN). Compact strings use the Indian K/L/Cr
// magnitude bands regardless of locale.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale = "en-IN"
	DefaultSymbol = "₹"

	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
)

// Formatter carries the locale and currency symbol used for rendering.
type Formatter struct {
	tag     language.Tag
	symbol  string
	printer *message.Printer
}

// New returns a Formatter for the given BCP 47 locale and symbol.
// An unparsable locale falls back to DefaultLocale.
func New(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return &Formatter{
		tag:     tag,
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}
}

// Default is the en-IN / ₹ formatter.
var Default = New(DefaultLocale, DefaultSymbol)

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() language.Tag { return f.tag }

// Symbol returns the currency symbol prefixed to amounts.
func (f *Formatter) Symbol() string { return f.symbol }

// Currency renders amount with zero decimal places, e.g. "₹12,34,567".
// Negative amounts get a leading minus; non-finite input renders as zero.
func (f *Formatter) Currency(amount float64) string {
	if !finite(amount) {
		return f.symbol + "0"
	}
	neg := amount < 0
	abs := math.Round(math.Abs(amount))
	s := f.symbol + f.printer.Sprint(number.Decimal(abs, number.MaxFractionDigits(0)))
	if neg {
		return "-" + s
	}
	return s
}

// Compact renders value with K, L or Cr suffixes, e.g. "₹1.5L".
// Values below one thousand are written as-is.
func (f *Formatter) Compact(value float64) string {
	if !finite(value) {
		return f.symbol + "0"
	}
	neg := value < 0
	abs := math.Abs(value)

	var s string
	switch {
	case abs >= crore:
		s = f.symbol + fixed1(abs/crore) + "Cr"
	case abs >= lakh:
		s = f.symbol + fixed1(abs/lakh) + "L"
	case abs >= thousand:
		s = f.symbol + fixed1(abs/thousand) + "K"
	default:
		s = f.symbol + strconv.FormatFloat(abs, 'f', -1, 64)
	}
	if neg {
		return "-" + s
	}
	return s
}

// Percentage renders a percentage with one decimal, e.g. "70.0%".
func (f *Formatter) Percentage(p float64) string {
	if !finite(p) {
		p = 0
	}
	if p < 0 {
		return "-" + fixed1(-p) + "%"
	}
	return fixed1(p) + "%"
}

// FormatCurrency formats amount with the Default formatter.
func FormatCurrency(amount float64) string { return Default.Currency(amount) }

// FormatCompactNumber formats value with the Default formatter.
func FormatCompactNumber(value float64) string { return Default.Compact(value) }

// FormatPercentage formats p with the Default formatter.
func FormatPercentage(p float64) string { return Default.Percentage(p) }

// fixed1 writes a non-negative x with one decimal. strconv rounds exact
// ties to even; here they round up, so 26.25 becomes "26.3".
func fixed1(x float64) string {
	if q := x * 4; q == math.Trunc(q) && math.Mod(q, 2) == 1 {
		return strconv.FormatFloat(math.Ceil(x*10)/10, 'f', 1, 64)
	}
	return strconv.FormatFloat(x, 'f', 1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
