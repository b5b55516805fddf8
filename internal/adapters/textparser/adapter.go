package textparser

import (
	"fmt"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// Длина заголовка-заглушки, когда явного заголовка в тексте нет.
const fallbackTitleLen = 140

// Adapter реализует port.ListingParserPort для газетного текста одного
// агентства. Все таблицы и шаблоны собираются один раз из набора правил;
// сам адаптер после создания неизменяем и безопасен для параллельного
// использования.
type Adapter struct {
	ruleset      *domain.Ruleset
	normalizer   *Normalizer
	price        *priceExtractor
	area         *areaExtractor
	rooms        *roomsExtractor
	neighborhood *neighborhoodExtractor
	classifier   *classifier
	sections     *sectionDetector
	segmenter    *segmenter
}

// NewAdapter собирает разборщик под набор правил. Незнакомое имя
// стратегии — ошибка целостности конфигурации.
func NewAdapter(rs *domain.Ruleset) (*Adapter, error) {
	if rs == nil {
		return nil, fmt.Errorf("textparser: ruleset is required")
	}

	neighborhood, err := newNeighborhoodExtractor(rs)
	if err != nil {
		return nil, fmt.Errorf("textparser: %w", err)
	}

	sections := newSectionDetector(rs)

	return &Adapter{
		ruleset:      rs,
		normalizer:   NewNormalizer(rs),
		price:        newPriceExtractor(rs),
		area:         newAreaExtractor(rs),
		rooms:        newRoomsExtractor(rs),
		neighborhood: neighborhood,
		classifier:   newClassifier(rs),
		sections:     sections,
		segmenter:    newSegmenter(rs, sections),
	}, nil
}

// SplitListings размечает строки полосы на объявления.
func (a *Adapter) SplitListings(lines []string) []domain.RawListing {
	return a.segmenter.Split(lines)
}

// ParseListing разбирает одно объявление в запись с фиксированной схемой.
// Исходный текст копируется в Notes дословно и не изменяется ни одним
// экстрактором; неудача извлечения поля — nil, а не ошибка.
func (a *Adapter) ParseListing(raw domain.RawListing) domain.ParsedRecord {
	normalized := a.normalizer.Normalize(raw.Text)

	record := domain.ParsedRecord{
		ListingNo: raw.Index + 1,
		Agency:    a.ruleset.Agency,
		Notes:     raw.Text,
		Title:     domain.FallbackTitle(normalized, fallbackTitleLen),

		SectionTransaction: raw.SectionTransaction,
		SectionType:        raw.SectionType,
	}

	record.Price, record.Currency = a.price.Extract(normalized)

	areas := a.area.Extract(normalized)
	record.Area = areas.Area
	record.AreaUnit = areas.AreaUnit
	record.LotArea = areas.LotArea
	record.LotAreaUnit = areas.LotAreaUnit

	record.Bedrooms = a.rooms.Bedrooms(normalized)
	record.Bathrooms = a.rooms.Bathrooms(normalized)

	record.Neighborhood = a.neighborhood.Extract(normalized)

	record.PropertyType = a.resolvePropertyType(normalized, raw)
	record.Transaction = a.resolveTransaction(normalized, raw)

	return record
}

// resolvePropertyType: экстрактор, затем контекст раздела, затем
// дефолт агентства.
func (a *Adapter) resolvePropertyType(normalized string, raw domain.RawListing) string {
	if t := a.classifier.PropertyType(normalized); t != "" {
		return t
	}
	if raw.SectionType != "" {
		return raw.SectionType
	}
	return a.ruleset.DefaultPropertyType
}

// resolveTransaction: экстрактор, затем контекст раздела, затем
// дефолт агентства.
func (a *Adapter) resolveTransaction(normalized string, raw domain.RawListing) string {
	if t := a.classifier.Transaction(normalized); t != "" {
		return t
	}
	if raw.SectionTransaction != "" {
		return raw.SectionTransaction
	}
	return a.ruleset.DefaultTransaction
}
