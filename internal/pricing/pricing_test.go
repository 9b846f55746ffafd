package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		name   string
		rate   int64
		nights int
		want   int64
	}{
		{name: "three nights", rate: 150000, nights: 3, want: 450000},
		{name: "free stay", rate: 0, nights: 4, want: 0},
		{name: "no nights", rate: 150000, nights: 0, want: 0},
		{name: "negative nights", rate: 150000, nights: -2, want: 0},
		{name: "single night", rate: 98000, nights: 1, want: 98000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalPrice(New(tt.rate, currency.MustParseISO("COP")), tt.nights)

			assert.Equal(t, tt.want, got.Amount)
			assert.Equal(t, currency.MustParseISO("COP"), got.Currency)
		})
	}
}

func TestTotalPriceIsProduct(t *testing.T) {
	for rate := int64(0); rate <= 500000; rate += 12500 {
		for nights := 0; nights <= 30; nights++ {
			assert.Equal(t, rate*int64(nights), TotalPrice(New(rate, currency.MustParseISO("COP")), nights).Amount)
		}
	}
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, int64(150000), FromFloat(150000.4, currency.MustParseISO("COP")).Amount)
	assert.Equal(t, int64(150001), FromFloat(150000.5, currency.MustParseISO("COP")).Amount)
	assert.True(t, FromFloat(-3, currency.MustParseISO("COP")).IsZero())
	assert.True(t, New(-3, currency.MustParseISO("COP")).IsZero())
}

func TestMoneySaturatesInsteadOfWrapping(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), FromFloat(1e19, currency.MustParseISO("COP")).Amount)
	assert.Equal(t, int64(math.MaxInt64), FromFloat(math.Inf(1), currency.MustParseISO("COP")).Amount)

	total := TotalPrice(New(math.MaxInt64/2, currency.MustParseISO("COP")), 3)
	assert.Equal(t, int64(math.MaxInt64), total.Amount)

	total = TotalPrice(New(math.MaxInt64/3, currency.MustParseISO("COP")), 3)
	assert.Equal(t, int64(math.MaxInt64/3)*3, total.Amount)
}

func TestMoneyJSON(t *testing.T) {
	raw, err := json.Marshal(New(450000, currency.MustParseISO("COP")))
	require.NoError(t, err)

	assert.JSONEq(t, `{"amount":450000,"currency":"COP"}`, string(raw))
}

func TestFormatterFormat(t *testing.T) {
	f := NewFormatter(language.MustParse("es-CO"))

	out := f.Format(New(450000, currency.MustParseISO("COP")))

	assert.Contains(t, out, "450")
	assert.NotContains(t, out, ",00")
}
