package textparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

func TestSplitListings(t *testing.T) {
	a := mustAdapter(testRuleset())

	lines := []string{
		"# CASAS EN VENTA",
		"* OZ CENTRO: casa venta 3 hab",
		"2 baños 150 mts2",
		"",
		"- terreno plano en las afueras",
		"# APARTAMENTOS EN ALQUILER",
		"* apto amueblado centro",
	}

	got := a.SplitListings(lines)
	require.Len(t, got, 3)

	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, "OZ CENTRO: casa venta 3 hab 2 baños 150 mts2", got[0].Text)
	assert.Equal(t, domain.TransactionSale, got[0].SectionTransaction)
	assert.Equal(t, domain.TypeHouse, got[0].SectionType)

	// синоним маркера открывает объявление наравне с каноническим
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, "terreno plano en las afueras", got[1].Text)
	assert.Equal(t, domain.TransactionSale, got[1].SectionTransaction)

	assert.Equal(t, 2, got[2].Index)
	assert.Equal(t, "apto amueblado centro", got[2].Text)
	assert.Equal(t, domain.TransactionRent, got[2].SectionTransaction)
	assert.Equal(t, domain.TypeApartment, got[2].SectionType)
}

func TestSplitListingsTextBeforeFirstMarker(t *testing.T) {
	a := mustAdapter(testRuleset())

	got := a.SplitListings([]string{
		"aviso sin marcador de inicio",
		"* casa en venta",
	})
	require.Len(t, got, 2)
	assert.Equal(t, "aviso sin marcador de inicio", got[0].Text)
	assert.Equal(t, "casa en venta", got[1].Text)
}

func TestSplitListingsNoSections(t *testing.T) {
	a := mustAdapter(testRuleset())

	got := a.SplitListings([]string{"* casa en venta 3 hab"})
	require.Len(t, got, 1)
	assert.Empty(t, got[0].SectionTransaction)
	assert.Empty(t, got[0].SectionType)
}

func TestSplitListingsHeaderWithoutMarkerIsContent(t *testing.T) {
	a := mustAdapter(testRuleset())

	// текст заголовка без маркера раздела остаётся обычной строкой
	got := a.SplitListings([]string{
		"* CASAS EN VENTA aqui",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "CASAS EN VENTA aqui", got[0].Text)
}

func TestSplitListingsBOMBeforeHeader(t *testing.T) {
	a := mustAdapter(testRuleset())

	// BOM в начале файла прилипает к первой строке заголовка
	got := a.SplitListings([]string{
		"\uFEFF# CASAS EN VENTA",
		"* casa grande centro",
	})
	require.Len(t, got, 1)
	assert.Equal(t, domain.TransactionSale, got[0].SectionTransaction)
	assert.Equal(t, domain.TypeHouse, got[0].SectionType)
}
