package textparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

func neighborhoodWith(t *testing.T, strategy domain.NeighborhoodStrategy) *neighborhoodExtractor {
	t.Helper()
	rs := testRuleset()
	rs.NeighborhoodStrategies = []domain.NeighborhoodStrategy{strategy}
	e, err := newNeighborhoodExtractor(rs)
	require.NoError(t, err)
	return e
}

func TestNeighborhoodBeforeColon(t *testing.T) {
	e := neighborhoodWith(t, domain.StrategyBeforeColon)

	tests := []struct {
		name string
		in   string
		want *string
	}{
		{"plain candidate", "OZ CENTRO: casa venta 3 hab", sptr("OZ CENTRO")},
		{"prefix token stripped", "Col. Kennedy: casa de dos plantas", sptr("KENNEDY")},
		{"alias resolved", "oz c: apartamento amueblado", sptr("OZ CENTRO")},
		{"no delimiter", "casa bonita sin indicador de zona", nil},
		{"delimiter outside window", strings.Repeat("x", 70) + ": casa", nil},
		{"delimiter at start", ": casa en venta", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNeighborhoodBeforeComma(t *testing.T) {
	e := neighborhoodWith(t, domain.StrategyBeforeComma)

	got := e.Extract("Lomas del Sur, casa de lujo")
	require.NotNil(t, got)
	assert.Equal(t, "LOMAS DEL SUR", *got)
}

func TestNeighborhoodBeforeDot(t *testing.T) {
	e := neighborhoodWith(t, domain.StrategyBeforeDot)

	got := e.Extract("Miraflores. casa en venta")
	require.NotNil(t, got)
	assert.Equal(t, "MIRAFLORES", *got)

	// точка раньше минимального сдвига трактуется как сокращение
	assert.Nil(t, e.Extract("Av. principal casa"))
}

func TestNeighborhoodBeforeCurrency(t *testing.T) {
	e := neighborhoodWith(t, domain.StrategyBeforeCurrency)

	got := e.Extract("TOCOA CENTRO $95,000 casa grande")
	require.NotNil(t, got)
	assert.Equal(t, "TOCOA CENTRO", *got)

	assert.Nil(t, e.Extract("$95,000 casa grande"))
}

func TestNeighborhoodLeadingUppercase(t *testing.T) {
	e := neighborhoodWith(t, domain.StrategyLeadingUppercase)

	got := e.Extract("BELLA VISTA casa 3 hab 2 baños")
	require.NotNil(t, got)
	assert.Equal(t, "BELLA VISTA", *got)

	assert.Nil(t, e.Extract("venta de casa en buen estado"))
}

func TestNeighborhoodFirstLine(t *testing.T) {
	e := neighborhoodWith(t, domain.StrategyFirstLine)

	got := e.Extract("El Hatillo\ncasa de dos plantas")
	require.NotNil(t, got)
	assert.Equal(t, "EL HATILLO", *got)
}

func TestNeighborhoodUnknownStrategy(t *testing.T) {
	rs := testRuleset()
	rs.NeighborhoodStrategies = []domain.NeighborhoodStrategy{"weird"}

	_, err := newNeighborhoodExtractor(rs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weird")
}

func sptr(v string) *string { return &v }
