package textparser

import (
	"regexp"
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// Квадратных вар в одной мансане.
const varasPerManzana = 10000.0

var (
	atLabelRx   = regexp.MustCompile(`(?i)\bAT:\s*$`)
	acLabelRx   = regexp.MustCompile(`(?i)\bAC:\s*$`)
	atContextRx = regexp.MustCompile(`(?i)\b(terreno|parcela|solar)\b`)
	acContextRx = regexp.MustCompile(`(?i)\b(construccion|construcción|construida|built|construction|casa)\b`)
	unitTokenRx = regexp.MustCompile(`[ .\-_]+`)
)

// areaFields — результат извлечения площадей: застройка и участок,
// каждая со своей единицей. Конвертация единиц остаётся внешнему этапу.
type areaFields struct {
	Area        *float64
	AreaUnit    *string
	LotArea     *float64
	LotAreaUnit *string
}

// areaExtractor распознаёт пары значение+единица и относит их
// к семейству застройки (AC), участка (AT) или мансаны (MZ).
type areaExtractor struct {
	rx     *regexp.Regexp
	builtN map[string]bool
	landN  map[string]bool
	mzN    map[string]bool
	ambigN map[string]bool
}

func newAreaExtractor(rs *domain.Ruleset) *areaExtractor {
	built := withDefaults(rs.BuiltAreaUnits, []string{"mt2", "mts2", "mtrs2", "metros cuadrados"})
	land := withDefaults(rs.TerrainAreaUnits, []string{"vrs²", "vrs2", "vr2", "vara2", "varas2", "varas cuadradas"})
	mz := withDefaults(rs.ManzanaUnits, []string{"mz", "manzana", "manzanas"})

	all := append([]string{}, built...)
	all = append(all, land...)
	all = append(all, mz...)
	all = append(all, "m2", "m²")

	rx := regexp.MustCompile(
		`(?i)(?P<num>\d[\d.,]*)\s*(?P<unit>` + escapeAlternation(all) + `)(?:$|[\s.,;:)\]-])`)

	ambig := map[string]bool{"m2": true}

	builtN := make(map[string]bool, len(built))
	for _, u := range built {
		key := normUnitToken(u)
		if !ambig[key] {
			builtN[key] = true
		}
	}
	landN := make(map[string]bool, len(land))
	for _, u := range land {
		landN[normUnitToken(u)] = true
	}
	mzN := make(map[string]bool, len(mz))
	for _, u := range mz {
		mzN[normUnitToken(u)] = true
	}

	return &areaExtractor{rx: rx, builtN: builtN, landN: landN, mzN: mzN, ambigN: ambig}
}

func withDefaults(configured, defaults []string) []string {
	if len(configured) > 0 {
		return configured
	}
	return defaults
}

// normUnitToken приводит токен единицы к ключу классификации:
// 'Vrs²' -> 'vrs2', 'metros cuadrados' -> 'metroscuadrados'.
func normUnitToken(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = strings.ReplaceAll(u, "²", "2")
	return unitTokenRx.ReplaceAllString(u, "")
}

// Extract классифицирует все пары значение+единица в тексте.
// Неоднозначный голый m2 решается метками AT:/AC: и контекстными
// словами рядом; число, входящее в ценовое выражение, не берётся.
func (a *areaExtractor) Extract(text string) areaFields {
	var out areaFields
	if text == "" {
		return out
	}

	matches := a.rx.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return out
	}

	// предварительный проход: сколько m2-значений и есть ли единицы участка
	m2Count := 0
	hasLotUnit := false
	for _, m := range matches {
		unit := normUnitToken(text[m[4]:m[5]])
		if a.builtN[unit] || a.ambigN[unit] {
			m2Count++
		}
		if a.landN[unit] || a.mzN[unit] {
			hasLotUnit = true
		}
	}
	allowACContext := m2Count >= 2 || hasLotUnit

	var generic *struct {
		val  float64
		unit string
	}

	for _, m := range matches {
		numStart, numEnd := m[2], m[3]
		rawUnit := text[m[4]:m[5]]
		unit := normUnitToken(rawUnit)

		if looksLikePrice(text, numStart) {
			continue
		}
		val := parseLocaleNumber(strings.TrimSpace(text[numStart:numEnd]))
		if val == nil {
			continue
		}

		switch {
		case a.landN[unit]:
			setArea(&out.LotArea, &out.LotAreaUnit, *val, rawUnit)
		case a.mzN[unit]:
			setArea(&out.LotArea, &out.LotAreaUnit, *val*varasPerManzana, rawUnit)
		case a.builtN[unit]:
			setArea(&out.Area, &out.AreaUnit, *val, rawUnit)
		case a.ambigN[unit]:
			left := text[maxInt(0, numStart-6):numStart]
			ctx := text[maxInt(0, numStart-18):minInt(len(text), m[1]+18)]
			switch {
			case atLabelRx.MatchString(left):
				setArea(&out.LotArea, &out.LotAreaUnit, *val, rawUnit)
			case acLabelRx.MatchString(left):
				setArea(&out.Area, &out.AreaUnit, *val, rawUnit)
			case atContextRx.MatchString(ctx):
				setArea(&out.LotArea, &out.LotAreaUnit, *val, rawUnit)
			case allowACContext && acContextRx.MatchString(ctx):
				setArea(&out.Area, &out.AreaUnit, *val, rawUnit)
			default:
				if generic == nil {
					generic = &struct {
						val  float64
						unit string
					}{*val, rawUnit}
				}
			}
		}
	}

	if out.Area == nil && out.LotArea == nil && generic != nil {
		setArea(&out.Area, &out.AreaUnit, generic.val, generic.unit)
	}
	return out
}

// setArea пишет значение один раз: первое совпадение семейства выигрывает.
func setArea(val **float64, unit **string, v float64, u string) {
	if *val != nil {
		return
	}
	*val = &v
	uCopy := u
	*unit = &uCopy
}

// looksLikePrice отсекает числа, перед которыми стоит валютный символ.
// Одиночная L считается валютой только как отдельное слово: хвост слова
// вроде "EL SOL 150" площадь не отменяет.
func looksLikePrice(s string, start int) bool {
	i := start
	if i > 0 && s[i-1] == ' ' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	if i == 0 {
		return false
	}
	switch s[i-1] {
	case '$':
		return true
	case 'L':
		return i < 2 || !isLetter(s[i-2])
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
