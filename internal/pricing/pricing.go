package pricing

import (
	"encoding/json"
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money is a non-negative amount in whole currency units.
type Money struct {
	Amount   int64
	Currency currency.Unit
}

func New(amount int64, unit currency.Unit) Money {
	if amount < 0 {
		amount = 0
	}

	return Money{Amount: amount, Currency: unit}
}

// FromFloat rounds a backend decimal price to whole units. Prices beyond the
// int64 range saturate at math.MaxInt64.
func FromFloat(v float64, unit currency.Unit) Money {
	if math.IsNaN(v) || v < 0 {
		return Money{Amount: 0, Currency: unit}
	}

	v = math.Round(v)
	if v >= math.MaxInt64 {
		return Money{Amount: math.MaxInt64, Currency: unit}
	}

	return Money{Amount: int64(v), Currency: unit}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%s %d", m.Currency, m.Amount)
}

func (m Money) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck
	return json.Marshal(struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency.String(),
	})
}

// TotalPrice multiplies the nightly rate by the night count. Callers validate
// the night count first; a non-positive count prices to zero. A product that
// does not fit in int64 saturates at math.MaxInt64.
func TotalPrice(nightlyRate Money, nights int) Money {
	if nights <= 0 || nightlyRate.Amount <= 0 {
		return Money{Amount: 0, Currency: nightlyRate.Currency}
	}

	if nightlyRate.Amount > math.MaxInt64/int64(nights) {
		return Money{Amount: math.MaxInt64, Currency: nightlyRate.Currency}
	}

	return Money{Amount: nightlyRate.Amount * int64(nights), Currency: nightlyRate.Currency}
}

type Formatter struct {
	printer *message.Printer
}

func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Format renders m with the locale's currency symbol and digit grouping and
// no fractional digits, e.g. "$ 450.000" for es-CO.
func (f *Formatter) Format(m Money) string {
	symbol := f.printer.Sprint(currency.NarrowSymbol(m.Currency))
	amount := f.printer.Sprint(number.Decimal(m.Amount, number.MaxFractionDigits(0)))

	return symbol + " " + amount
}
