package domain

import (
	"fmt"
	"strconv"
)

// RawListing — одна размеченная единица исходного текста: подстрока после
// нормализованного маркера до следующего маркера или конца входа.
// После разметки не изменяется.
type RawListing struct {
	Index int    // порядковый номер во входе, задаёт порядок выхода
	Text  string // дословный текст объявления

	// Контекст раздела, унаследованный от последнего заголовка полосы.
	SectionTransaction string
	SectionType        string
}

// ParsedRecord — результат разбора одного объявления с фиксированной схемой
// полей. Инвариант: каждое объявленное поле присутствует всегда, даже если
// извлечение не удалось (nil, а не отсутствие). Поле Notes хранит дословный
// исходный текст и никогда не изменяется экстракторами.
type ParsedRecord struct {
	ListingNo   int    `json:"listing_no"`
	ListingUID  string `json:"listing_uid"`
	IngestionID string `json:"ingestion_id"`
	Agency      string `json:"agency"`
	Date        string `json:"date"`

	Title        string  `json:"title"`
	Neighborhood *string `json:"neighborhood"`
	Notes        string  `json:"notes"`

	Bedrooms  *int     `json:"bedrooms"`
	Bathrooms *float64 `json:"bathrooms"`

	Area        *float64 `json:"area"`
	AreaUnit    *string  `json:"area_unit"`
	LotArea     *float64 `json:"lot_area"`
	LotAreaUnit *string  `json:"lot_area_unit"`

	Price    *float64 `json:"price"`
	Currency *string  `json:"currency"`
	// PriceUSD заполняется внешним этапом стандартизации валют
	// и потребляется валидатором сделки.
	PriceUSD *float64 `json:"price_usd"`

	// Контекст раздела полосы, унаследованный при разметке.
	SectionTransaction string `json:"section_transaction,omitempty"`
	SectionType        string `json:"section_type,omitempty"`

	PropertyType          string `json:"property_type"`
	PropertyTypeValidated string `json:"property_type_validated"`
	Transaction           string `json:"transaction"`
	TransactionValidated  string `json:"transaction_validated"`

	TypeOutcome        *ValidationOutcome `json:"type_outcome,omitempty"`
	TransactionOutcome *ValidationOutcome `json:"transaction_outcome,omitempty"`
}

// RecordColumns — фиксированный порядок колонок CSV-проекции записи.
var RecordColumns = []string{
	"Listing ID", "Title", "Neighborhood", "Bedrooms", "Bathrooms",
	"AT", "Area", "Price", "Currency",
	"Transaction", "Transaction Validated",
	"Type", "Type Validated",
	"Agency", "Date", "Notes",
}

// Row возвращает CSV-проекцию записи в порядке RecordColumns.
// Пустая строка обозначает отсутствующее значение.
func (r *ParsedRecord) Row() []string {
	return []string{
		r.ListingUID,
		r.Title,
		strOrEmpty(r.Neighborhood),
		intOrEmpty(r.Bedrooms),
		floatOrEmpty(r.Bathrooms),
		floatOrEmpty(r.LotArea),
		floatOrEmpty(r.Area),
		floatOrEmpty(r.Price),
		strOrEmpty(r.Currency),
		r.Transaction,
		r.TransactionValidated,
		r.PropertyType,
		r.PropertyTypeValidated,
		r.Agency,
		r.Date,
		r.Notes,
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FallbackTitle строит заголовок из начала нормализованного текста,
// ограниченный maxLen символами, когда явного заголовка нет.
func FallbackTitle(normalized string, maxLen int) string {
	runes := []rune(normalized)
	if len(runes) <= maxLen {
		return normalized
	}
	return string(runes[:maxLen])
}

// BuildListingUID собирает стабильный идентификатор объявления из мнемоники
// источника, даты выпуска и порядкового номера.
func BuildListingUID(mnemonic, date string, index int) string {
	return fmt.Sprintf("%s-%s-%04d", mnemonic, date, index+1)
}
