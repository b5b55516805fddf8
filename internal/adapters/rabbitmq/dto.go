package rabbitmq

import (
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// RawListingBatchDTO - структура контракта входящего события.
// Она точно соответствует JSON-схеме raw-listing-batch/v1
type RawListingBatchDTO struct {
	Agency      string   `json:"agency"`
	Date        string   `json:"date"`
	IngestionID string   `json:"ingestion_id,omitempty"`
	Lines       []string `json:"lines"`
}

// ParsedListingsEventDTO - структура контракта исходящего события
// parsed-listings/v1
type ParsedListingsEventDTO struct {
	Agency      string            `json:"agency"`
	Date        string            `json:"date"`
	IngestionID string            `json:"ingestion_id"`
	Records     []ParsedRecordDTO `json:"records"`
}

// ParsedRecordDTO - часть контракта для одной разобранной записи
type ParsedRecordDTO struct {
	ListingNo  int    `json:"listing_no"`
	ListingUID string `json:"listing_uid"`
	Agency     string `json:"agency"`
	Date       string `json:"date"`
	Title      string `json:"title"`
	Notes      string `json:"notes"`

	Neighborhood *string  `json:"neighborhood"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms"`
	Area         *float64 `json:"area"`
	AreaUnit     *string  `json:"area_unit"`
	LotArea      *float64 `json:"lot_area"`
	LotAreaUnit  *string  `json:"lot_area_unit"`
	Price        *float64 `json:"price"`
	Currency     *string  `json:"currency"`
	PriceUSD     *float64 `json:"price_usd"`

	PropertyType          string `json:"property_type"`
	PropertyTypeValidated string `json:"property_type_validated"`
	Transaction           string `json:"transaction"`
	TransactionValidated  string `json:"transaction_validated"`
}

func toParsedRecordDTO(r domain.ParsedRecord) ParsedRecordDTO {
	return ParsedRecordDTO{ // Маппинг полей
		ListingNo:  r.ListingNo,
		ListingUID: r.ListingUID,
		Agency:     r.Agency,
		Date:       r.Date,
		Title:      r.Title,
		Notes:      r.Notes,

		Neighborhood: r.Neighborhood,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		Area:         r.Area,
		AreaUnit:     r.AreaUnit,
		LotArea:      r.LotArea,
		LotAreaUnit:  r.LotAreaUnit,
		Price:        r.Price,
		Currency:     r.Currency,
		PriceUSD:     r.PriceUSD,

		PropertyType:          r.PropertyType,
		PropertyTypeValidated: r.PropertyTypeValidated,
		Transaction:           r.Transaction,
		TransactionValidated:  r.TransactionValidated,
	}
}
