package textparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantVal  float64
		wantCur  string
		wantNone bool
	}{
		{
			name:    "dollar prefix",
			in:      "casa venta $95000 centro",
			wantVal: 95000, wantCur: "USD",
		},
		{
			name:    "thousands separator",
			in:      "residencia US$ 1,200,000",
			wantVal: 1200000, wantCur: "USD",
		},
		{
			name:    "es locale decimal",
			in:      "apartamento $1.200,50 mensual",
			wantVal: 1200.50, wantCur: "USD",
		},
		{
			name:    "lempira alias",
			in:      "alquiler Lps. 8,500",
			wantVal: 8500, wantCur: "HNL",
		},
		{
			name:    "magnitude mil",
			in:      "se vende $265 mil negociable",
			wantVal: 265000, wantCur: "USD",
		},
		{
			name:    "magnitude k glued",
			in:      "venta $120k centro",
			wantVal: 120000, wantCur: "USD",
		},
		{
			name:    "area not mistaken for price",
			in:      "terreno 594 v2 esquina",
			wantNone: true,
		},
		{
			name:    "rooms not mistaken for price",
			in:      "casa 3 hab 2 baños centro",
			wantNone: true,
		},
		{
			name:    "year not mistaken for price",
			in:      "construida en 2015, $78,000",
			wantVal: 78000, wantCur: "USD",
		},
		{
			name:    "first of two prices wins",
			in:      "venta $80,000 antes $95,000",
			wantVal: 80000, wantCur: "USD",
		},
		{
			name:    "range keeps lower bound",
			in:      "apartamentos $550 - $700 mensual",
			wantVal: 550, wantCur: "USD",
		},
		{
			name:     "no currency means no price",
			in:       "casa grande 95000 centro",
			wantNone: true,
		},
	}

	e := newPriceExtractor(testRuleset())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, cur := e.Extract(tt.in)
			if tt.wantNone {
				assert.Nil(t, val)
				return
			}
			require.NotNil(t, val)
			assert.InDelta(t, tt.wantVal, *val, 0.001)
			require.NotNil(t, cur)
			assert.Equal(t, tt.wantCur, *cur)
		})
	}
}

func TestExtractPriceLargestPolicy(t *testing.T) {
	rs := testRuleset()
	rs.MultiPricePolicy = domain.PickLargestPrice
	e := newPriceExtractor(rs)

	val, cur := e.Extract("venta $80,000 antes $95,000")
	require.NotNil(t, val)
	assert.InDelta(t, 95000.0, *val, 0.001)
	require.NotNil(t, cur)
	assert.Equal(t, "USD", *cur)
}

func TestExtractPriceOptionalCurrency(t *testing.T) {
	rs := testRuleset()
	rs.RequireCurrency = false
	e := newPriceExtractor(rs)

	val, cur := e.Extract("casa amplia precio 95,000 centro")
	require.NotNil(t, val)
	assert.InDelta(t, 95000.0, *val, 0.001)
	assert.Nil(t, cur)
}

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"170,000", 170000},
		{"1,200.50", 1200.50},
		{"1.200,50", 1200.50},
		{"2,5", 2.5},
		{"1.200", 1200},
		{"95000", 95000},
	}
	for _, tt := range tests {
		got := parseLocaleNumber(tt.in)
		if assert.NotNil(t, got, "input %q", tt.in) {
			assert.InDelta(t, tt.want, *got, 0.001, "input %q", tt.in)
		}
	}

	assert.Nil(t, parseLocaleNumber("no-number"))
	assert.Nil(t, parseLocaleNumber(""))
}

func TestExtractPriceSharedCurrencyToken(t *testing.T) {
	e := newPriceExtractor(testRuleset())

	// "3500 L" и "L 4000" делят один валютный токен: кандидаты
	// не должны пересекаться, побеждает префиксная форма
	val, cur := e.Extract("apto amueblado 3500 L 4000 negociable")
	require.NotNil(t, val)
	assert.InDelta(t, 4000.0, *val, 0.001)
	require.NotNil(t, cur)
	assert.Equal(t, "HNL", *cur)
}

func TestExtractPriceConfusedDigits(t *testing.T) {
	rs := testRuleset()
	n := NewNormalizer(rs)
	e := newPriceExtractor(rs)

	val, cur := e.Extract(n.Normalize("casa venta $95O00"))
	require.NotNil(t, val)
	assert.InDelta(t, 95000.0, *val, 0.001)
	require.NotNil(t, cur)
	assert.Equal(t, "USD", *cur)
}
