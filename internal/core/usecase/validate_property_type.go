package usecase

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"sync"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contextkeys"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
)

// Вес, с которым заголовок раздела полосы перекрывает текстовые сигналы.
const sectionOverrideScore = 100

// Сигнальные шаблоны классификатора типа. Текст к моменту поиска уже
// свёрнут (нижний регистр, без диакритик), поэтому шаблоны в ASCII.
var (
	housePropRx = regexp.MustCompile(`\b(casa(?:s)?|residencia(?:s)?|familiar(?:es)?|vivienda(?:s)?)\b`)
	aptPropRx   = regexp.MustCompile(`\b(apartamento(?:s)?|departamento(?:s)?|apto(?:s)?|condominio(?:s)?|penthouse)\b`)

	bedroomCueRx   = regexp.MustCompile(`\b(habitacion(?:es)?|recamara(?:s)?|dormitorio(?:s)?|alcoba(?:s)?|\d+\s*hab)\b`)
	zeroBedroomsRx = regexp.MustCompile(`\b(habitaciones?|hab(?:s)?|bedrooms?)\s*(?:=|:)?\s*0\b`)
	residentRoomRx = regexp.MustCompile(`\b(sala|comedor|cocina|terraza|familiar|oficina|lavanderia|patio|jardin|piscina|estudio|amueblado)\b`)
	amenityCueRx   = regexp.MustCompile(`\b(balcon|piscina|gimnasio|areas?\s+comunes?|walk\s*closet|cuarto\s+de\s+empleada)\b`)

	landCueRx     = regexp.MustCompile(`\b(terreno(?:s)?|lote(?:s)?|solar(?:es)?|parcela(?:s)?|finca(?:s)?|manzanas|topografia)\b`)
	areaCueRx     = regexp.MustCompile(`\b(m2|mts2|mts|metros|vrs2|varas)\b`)
	landVarasRx   = regexp.MustCompile(`\b(v(?:rs)?\s*2|vara(?:s)?\s*(?:cuadrada(?:s)?|2))\b`)
	porVarasRx    = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\s*(?:por|/)\s*(?:v(?:rs)?\s*2|vara(?:s)?\s*(?:cuadrada(?:s)?|2))\b`)
	constructedRx = regexp.MustCompile(`\b(construccion|construida|construido|area\s+construida|edificado|edificada)\b`)

	commUnitRx    = regexp.MustCompile(`\b(local(?:es)?(?:\s+comercial(?:es)?)?|salon(?:es)?|oficina(?:s)?(?:\s+medica(?:s)?)?|colegio(?:s)?|hotel(?:es)?|clinica(?:s)?|galeria(?:s)?|nave(?:s)?\s+industrial(?:es)?|plaza(?:s)?\s+comercial(?:es)?|kiosko(?:s)?|kiosco(?:s)?)\b`)
	commUseRx     = regexp.MustCompile(`\b(?:ideal|excelente|apto)\s+para\s+(?:oficina(?:s)?|clinica(?:s)?|negocio(?:s)?|comercio|comercial|corporativo)\b`)
	commUseAdjRx  = regexp.MustCompile(`\b(comercial|coworking|co-working)\b`)
	corporateRx   = regexp.MustCompile(`\b(corporativo(?:s)?|edificio(?:s)?\s+corporativo(?:s)?|edificio(?:s)?\s+comercial(?:es)?|por\s+metro\s+cuadrado)\b`)
	commAmenityRx = regexp.MustCompile(`\b(ascensor(?:es)?|elevador(?:es)?|tarjeta\s+electronica|control\s+de\s+acceso|recepcion|lobby|seguridad|vigilancia|cctv|camara(?:s)?|aire\s+acondicionado(?:\s+central)?|fibra\s+optica|red\s+de\s+datos|planta\s+electrica|generador|parqueo(?:s)?\s+(?:asignado(?:s)?|techado(?:s)?|privado(?:s)?)|estacionamiento(?:s)?)\b`)
	bodegaRx      = regexp.MustCompile(`\b(ofi[-\s]?bodega(?:s)?|bodega(?:s)?)\b`)
	plantelRx     = regexp.MustCompile(`\bplantel\b`)
	dimXMtsRx     = regexp.MustCompile(`\b\d{1,3}\s*[x×]\s*\d{1,3}\s*m(?:t|ts|trs)?\b`)
	unitPriceXRx  = regexp.MustCompile(`(?:u\$|usd|\$)\s*\d+(?:[.,]\d+)?(?:\s*\+\s*[a-z]{1,10})?\s*[x×]\s*(?:m|mt|mts|metros)(?:\s*2)?\.?`)
	pricePerM2Rx  = regexp.MustCompile(`\$\s*\d+(?:[.,]\d+)?\s*(?:x|por)\s*m\s*2`)
)

// ValidatePropertyTypeUseCase — пакетный проход сверки типа недвижимости
// с текстовыми сигналами объявления. Побеждает наибольшая сумма баллов;
// исходная метка записи не изменяется, решение пишется в отдельное поле.
type ValidatePropertyTypeUseCase struct {
	workers int
}

// NewValidatePropertyTypeUseCase создает новый экземпляр use case.
func NewValidatePropertyTypeUseCase(workers int) *ValidatePropertyTypeUseCase {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ValidatePropertyTypeUseCase{workers: workers}
}

// Execute оценивает все записи пакета и возвращает по одной
// диагностической строке на запись. Записи мутируются на месте:
// заполняются PropertyTypeValidated и TypeOutcome.
func (uc *ValidatePropertyTypeUseCase) Execute(ctx context.Context, ruleset *domain.Ruleset, records []domain.ParsedRecord) ([]domain.TypeDiagnostics, error) {
	if ruleset == nil {
		return nil, fmt.Errorf("validate property type: ruleset is required")
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "ValidatePropertyType",
		"agency":       ruleset.Agency,
		"record_count": len(records),
	})
	ucLogger.Info("Use case started: scoring property types", nil)

	diags := make([]domain.TypeDiagnostics, len(records))

	var wg sync.WaitGroup
	sem := make(chan struct{}, uc.workers)
	for i := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			diags[idx] = scoreRecordType(&records[idx])
		}(i)
	}
	wg.Wait()

	corrected := 0
	ambiguous := 0
	for i := range records {
		switch records[i].TypeOutcome.State {
		case domain.StateCorrected:
			corrected++
		case domain.StateAmbiguous:
			ambiguous++
		}
	}
	ucLogger.Info("Use case finished: property types scored", port.Fields{
		"corrected": corrected,
		"ambiguous": ambiguous,
	})
	return diags, nil
}

// typeTally накапливает баллы и сработавшие правила по кандидатам.
type typeTally struct {
	scores map[string]int
	rules  map[string][]string
}

func newTypeTally() *typeTally {
	scores := make(map[string]int, len(domain.TypePriority))
	for _, label := range domain.TypePriority {
		scores[label] = 0
	}
	return &typeTally{scores: scores, rules: make(map[string][]string)}
}

func (t *typeTally) add(label string, pts int, rule string) {
	t.scores[label] += pts
	t.rules[label] = append(t.rules[label], fmt.Sprintf("%s%+d", rule, pts))
}

// reset обнуляет накопленный счёт кандидата, сохраняя след в правилах.
func (t *typeTally) reset(label, rule string) {
	t.scores[label] = 0
	t.rules[label] = append(t.rules[label], rule)
}

// scoreRecordType начисляет баллы кандидатам и фиксирует решение в записи.
// Порядок начислений значим: обнуление по PLANTEL снимает только уже
// накопленные баллы, а контекст раздела добавляется последним.
func scoreRecordType(rec *domain.ParsedRecord) domain.TypeDiagnostics {
	original := rec.PropertyType
	text := foldText(rec.Title + " " + rec.Notes)

	tally := newTypeTally()

	if _, known := tally.scores[original]; known {
		tally.add(original, 3, "PRIOR")
	}

	if pricePerM2Rx.MatchString(text) {
		tally.add(domain.TypeHouse, -5, "PRICE_PER_M2")
		tally.add(domain.TypeApartment, -5, "PRICE_PER_M2")
		tally.add(domain.TypeCommercial, 3, "PRICE_PER_M2")
		tally.add(domain.TypeLand, 2, "PRICE_PER_M2")
	}
	if plantelRx.MatchString(text) {
		tally.reset(domain.TypeHouse, "PLANTEL:RESET")
		tally.reset(domain.TypeApartment, "PLANTEL:RESET")
	}

	hasHouseKw := housePropRx.MatchString(text)
	hasAreaKw := areaCueRx.MatchString(text)
	hasZeroBeds := zeroBedroomsRx.MatchString(text)

	// Apartment
	if aptPropRx.MatchString(text) {
		tally.add(domain.TypeApartment, 8, "APT_KW")
	}
	if bedroomCueRx.MatchString(text) {
		tally.add(domain.TypeApartment, 2, "BEDROOM_KW")
	}
	if amenityCueRx.MatchString(text) {
		tally.add(domain.TypeApartment, 3, "AMENITY_KW")
	}
	if hasAreaKw {
		tally.add(domain.TypeApartment, 3, "AREA_KW")
	}
	if landCueRx.MatchString(text) {
		tally.add(domain.TypeApartment, -5, "LAND_KW")
	}
	if dimXMtsRx.MatchString(text) {
		tally.add(domain.TypeApartment, -5, "DIM_X_MTS")
	}

	// House
	if hasHouseKw {
		tally.add(domain.TypeHouse, 8, "HOUSE_KW")
	}
	if bedroomCueRx.MatchString(text) {
		tally.add(domain.TypeHouse, 5, "BEDROOM_KW")
	}
	if residentRoomRx.MatchString(text) {
		tally.add(domain.TypeHouse, 2, "RESIDENTIAL_ROOMS_KW")
	}
	if amenityCueRx.MatchString(text) {
		tally.add(domain.TypeHouse, 1, "AMENITY_KW")
	}
	if hasAreaKw && hasHouseKw {
		tally.add(domain.TypeHouse, 5, "AREA_KW")
	}
	if hasHouseKw && commUseAdjRx.MatchString(text) {
		tally.add(domain.TypeHouse, -8, "COMM_USE_ADJ")
	}
	if hasZeroBeds {
		tally.add(domain.TypeHouse, -5, "ZERO_BEDROOMS")
	}
	if bodegaRx.MatchString(text) {
		tally.add(domain.TypeHouse, -5, "BODEGA_KW")
	}
	if unitPriceXRx.MatchString(text) {
		tally.add(domain.TypeHouse, -5, "UNIT_PRICE_X")
	}
	if dimXMtsRx.MatchString(text) {
		tally.add(domain.TypeHouse, -5, "DIM_X_MTS")
	}
	if porVarasRx.MatchString(text) {
		tally.add(domain.TypeHouse, -5, "UNIT_PRICE_POR_VARAS")
	}

	// Commercial
	if commUseRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 5, "COMM_USE_KW")
	}
	if commUnitRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 8, "COMM_UNIT_KW")
	}
	if corporateRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 2, "CORPORATE_KW")
	}
	if commAmenityRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 2, "COMM_AMENITY_KW")
	}
	if amenityCueRx.MatchString(text) {
		tally.add(domain.TypeCommercial, -3, "AMENITY_KW")
	}
	if bedroomCueRx.MatchString(text) {
		tally.add(domain.TypeCommercial, -3, "BEDROOM_KW")
	}
	if bodegaRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 5, "BODEGA_KW")
	}
	if dimXMtsRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 5, "DIM_X_MTS")
	}
	if unitPriceXRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 5, "UNIT_PRICE_X")
	}
	if plantelRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 8, "PLANTEL_KW")
	}
	if commUseAdjRx.MatchString(text) {
		tally.add(domain.TypeCommercial, 3, "COMM_USE_ADJ")
		if hasZeroBeds {
			tally.add(domain.TypeCommercial, 8, "COMM_USE_ADJ_ZERO_BEDS")
		}
	}

	// Land
	if constructedRx.MatchString(text) {
		tally.add(domain.TypeLand, -2, "CONSTRUCTION_KW")
	}
	if landCueRx.MatchString(text) {
		tally.add(domain.TypeLand, 5, "LAND_KW")
	}
	if hasAreaKw && !hasHouseKw {
		tally.add(domain.TypeLand, 3, "AREA_KW")
	}
	if landVarasRx.MatchString(text) && !hasHouseKw {
		tally.add(domain.TypeLand, 5, "LAND_VARAS_UNIT")
	}
	if porVarasRx.MatchString(text) {
		tally.add(domain.TypeLand, 5, "UNIT_PRICE_POR_VARAS")
	}

	// контекст раздела полосы перекрывает текстовые сигналы
	if _, known := tally.scores[rec.SectionType]; known && rec.SectionType != "" {
		tally.add(rec.SectionType, sectionOverrideScore, "SECTION_HEADER")
	}

	outcome := decideType(original, tally)
	rec.PropertyTypeValidated = outcome.Final
	rec.TypeOutcome = outcome

	candidates := make([]domain.CandidateScore, 0, len(domain.TypePriority))
	for _, label := range domain.TypePriority {
		candidates = append(candidates, domain.CandidateScore{
			Label: label,
			Score: tally.scores[label],
			Rules: tally.rules[label],
		})
	}

	return domain.TypeDiagnostics{
		ListingUID:   rec.ListingUID,
		OriginalType: original,
		Winner:       outcome.Final,
		Rationale:    outcome.Basis,
		Candidates:   candidates,
	}
}

// decideType выбирает победителя по максимальному счёту. Порядок
// TypePriority задаёт детерминированный обход; равный максимум
// у двух кандидатов делает запись неоднозначной.
func decideType(original string, tally *typeTally) *domain.ValidationOutcome {
	maxScore := 0
	winner := ""
	tied := 0
	for _, label := range domain.TypePriority {
		score := tally.scores[label]
		if winner == "" || score > maxScore {
			winner = label
			maxScore = score
			tied = 1
			continue
		}
		if score == maxScore {
			tied++
		}
	}

	switch {
	case maxScore == 0:
		return domain.Confirmed(original, "KEEP:NO_CUES")
	case tied > 1:
		return domain.Ambiguous(original, fmt.Sprintf("TIE:%s(%d)", winner, maxScore))
	case winner == original:
		return domain.Confirmed(original, fmt.Sprintf("POINTS:%s(%d)", winner, maxScore))
	default:
		return domain.Corrected(original, winner, fmt.Sprintf("POINTS:%s(%d)", winner, maxScore))
	}
}
