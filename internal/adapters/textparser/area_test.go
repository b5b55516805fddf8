package textparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAreaFamilies(t *testing.T) {
	e := newAreaExtractor(testRuleset())

	tests := []struct {
		name  string
		in    string
		area  *float64
		areaU string
		lot   *float64
		lotU  string
	}{
		{
			name:  "built unit",
			in:    "casa de 150 mts2 en esquina",
			area:  fptr(150),
			areaU: "mts2",
		},
		{
			name: "terrain unit",
			in:   "terreno de 300 vrs2",
			lot:  fptr(300),
			lotU: "vrs2",
		},
		{
			name: "manzana converted to varas",
			in:   "2 mz de terreno plano",
			lot:  fptr(20000),
			lotU: "mz",
		},
		{
			name:  "both families in one listing",
			in:    "residencia 180 mts2 construccion sobre 420 vrs2",
			area:  fptr(180),
			areaU: "mts2",
			lot:   fptr(420),
			lotU:  "vrs2",
		},
		{
			name: "thousands separator in value",
			in:   "lote de 1,200 vrs2",
			lot:  fptr(1200),
			lotU: "vrs2",
		},
		{
			name:  "first match per family wins",
			in:    "casa 150 mts2 con ampliacion de 180 mts2",
			area:  fptr(150),
			areaU: "mts2",
		},
		{
			name: "no area present",
			in:   "casa bonita en el centro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.in)
			assertAreaValue(t, tt.area, got.Area, got.AreaUnit, tt.areaU)
			assertAreaValue(t, tt.lot, got.LotArea, got.LotAreaUnit, tt.lotU)
		})
	}
}

func TestExtractAreaAmbiguousM2(t *testing.T) {
	e := newAreaExtractor(testRuleset())

	t.Run("AT and AC labels split the pair", func(t *testing.T) {
		got := e.Extract("AC: 120 m2 AT: 200 m2")
		require.NotNil(t, got.Area)
		require.NotNil(t, got.LotArea)
		assert.InDelta(t, 120.0, *got.Area, 0.001)
		assert.InDelta(t, 200.0, *got.LotArea, 0.001)
	})

	t.Run("terrain context word claims bare m2", func(t *testing.T) {
		got := e.Extract("terreno 500 m2 cercado")
		require.NotNil(t, got.LotArea)
		assert.InDelta(t, 500.0, *got.LotArea, 0.001)
		assert.Nil(t, got.Area)
	})

	t.Run("built context needs a second unit nearby", func(t *testing.T) {
		got := e.Extract("casa de 150 m2 junto a lote de 300 vrs2")
		require.NotNil(t, got.Area)
		require.NotNil(t, got.LotArea)
		assert.InDelta(t, 150.0, *got.Area, 0.001)
		assert.InDelta(t, 300.0, *got.LotArea, 0.001)
	})

	t.Run("unresolved m2 falls back to built area", func(t *testing.T) {
		got := e.Extract("apartamento 80 m2 amueblado")
		require.NotNil(t, got.Area)
		assert.InDelta(t, 80.0, *got.Area, 0.001)
		require.NotNil(t, got.AreaUnit)
		assert.Equal(t, "m2", *got.AreaUnit)
		assert.Nil(t, got.LotArea)
	})
}

func TestExtractAreaSkipsPriceFigures(t *testing.T) {
	e := newAreaExtractor(testRuleset())

	got := e.Extract("lote de 400 v2 a $250 v2")
	require.NotNil(t, got.LotArea)
	assert.InDelta(t, 400.0, *got.LotArea, 0.001)
	assert.Nil(t, got.Area)
}

func TestExtractAreaAfterWordEndingInL(t *testing.T) {
	e := newAreaExtractor(testRuleset())

	// хвостовая L слова — не валюта, площадь остаётся
	got := e.Extract("RES. EL SOL 150 mts2 esquina")
	require.NotNil(t, got.Area)
	assert.InDelta(t, 150.0, *got.Area, 0.001)

	// одиночная L перед числом по-прежнему читается как цена
	got = e.Extract("vendo L 150 mts2")
	assert.Nil(t, got.Area)
}

func TestNormUnitToken(t *testing.T) {
	assert.Equal(t, "vrs2", normUnitToken("Vrs²"))
	assert.Equal(t, "metroscuadrados", normUnitToken("metros cuadrados"))
	assert.Equal(t, "mz", normUnitToken(" MZ "))
}

func assertAreaValue(t *testing.T, want, got *float64, gotUnit *string, wantUnit string) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.InDelta(t, *want, *got, 0.001)
	require.NotNil(t, gotUnit)
	assert.Equal(t, wantUnit, *gotUnit)
}

func fptr(v float64) *float64 { return &v }
