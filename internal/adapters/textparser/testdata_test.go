package textparser

import (
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// testRuleset возвращает набор правил, близкий к реальной конфигурации
// газетного источника.
func testRuleset() *domain.Ruleset {
	return &domain.Ruleset{
		Agency:   "SERPECAL",
		Mnemonic: "SPC",

		Marker:         "*",
		MarkerSynonyms: []string{"-", "•"},

		NeighborhoodStrategies: []domain.NeighborhoodStrategy{domain.StrategyBeforeColon},
		ParsingWindow:          60,
		PrefixTokens:           []string{"col.", "res.", "barrio", "urb."},
		NeighborhoodAliases:    map[string]string{"OZ C": "OZ CENTRO"},
		MinDotOffset:           4,

		CurrencyAliases: map[string]string{
			"$": "USD", "US$": "USD", "USD": "USD",
			"L": "HNL", "L.": "HNL", "Lps": "HNL", "Lps.": "HNL",
		},
		PriceKeywords:    []string{"precio", "valor"},
		MultiPricePolicy: domain.PickFirstPrice,
		RequireCurrency:  true,
		RangeSeparators:  []string{"-", "/", " a "},

		BuiltAreaUnits:   []string{"mt2", "mts2", "metros cuadrados"},
		TerrainAreaUnits: []string{"vrs2", "vrs²", "v2", "varas cuadradas"},
		ManzanaUnits:     []string{"mz", "manzana", "manzanas"},

		BedroomKeywords:     []string{"hab", "habitaciones", "dormitorios"},
		BathroomKeywords:    []string{"baños", "banos", "baño"},
		MaxBathrooms:        6,
		AllowSlashShorthand: true,

		TypeKeywords: []domain.KeywordRule{
			{Label: domain.TypeHouse, Keywords: []string{"casa", "residencia"}},
			{Label: domain.TypeApartment, Keywords: []string{"apartamento", "apto"}},
			{Label: domain.TypeLand, Keywords: []string{"terreno", "lote"}},
			{Label: domain.TypeCommercial, Keywords: []string{"local comercial", "bodega"}},
		},
		TransactionKeywords: []domain.KeywordRule{
			{Label: domain.TransactionSale, Keywords: []string{"venta", "se vende"}},
			{Label: domain.TransactionRent, Keywords: []string{"alquiler", "renta", "se alquila"}},
		},

		HeaderMarker: "#",
		SectionHeaders: []domain.SectionHeader{
			{Pattern: "CASAS EN VENTA", Transaction: domain.TransactionSale, PropertyType: domain.TypeHouse},
			{Pattern: "APARTAMENTOS EN ALQUILER", Transaction: domain.TransactionRent, PropertyType: domain.TypeApartment},
		},

		PriceBands: map[string]domain.PriceBand{
			domain.TypeHouse:     {RentMax: 20000, SaleMin: 5000, Tolerance: 0.1},
			domain.TypeApartment: {RentMax: 10000, SaleMin: 15000, Tolerance: 0.1},
		},

		DefaultTransaction:  domain.TransactionSale,
		DefaultPropertyType: domain.TypeHouse,
	}
}

func mustAdapter(rs *domain.Ruleset) *Adapter {
	a, err := NewAdapter(rs)
	if err != nil {
		panic(err)
	}
	return a
}
