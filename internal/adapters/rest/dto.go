package rest

import (
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// ParseListingRequest - тело запроса QA-эндпоинта разбора.
// Text может содержать несколько строк одного объявления
type ParseListingRequest struct {
	Agency string `json:"agency"`
	Date   string `json:"date,omitempty"`
	Text   string `json:"text"`
}

// ParseListingResponse - результат разбора с диагностикой валидатора типа
type ParseListingResponse struct {
	Records     []domain.ParsedRecord    `json:"records"`
	Diagnostics []domain.TypeDiagnostics `json:"diagnostics"`
}

// RulesetsResponse - список сконфигурированных агентств
type RulesetsResponse struct {
	Agencies []string `json:"agencies"`
}
