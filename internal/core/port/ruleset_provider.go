package port

import (
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// RulesetProviderPort отдаёт загруженные наборы правил по имени агентства.
type RulesetProviderPort interface {
	// Get возвращает набор правил для агентства или ошибку,
	// если агентство не сконфигурировано.
	Get(agency string) (*domain.Ruleset, error)

	// Agencies возвращает имена всех загруженных агентств.
	Agencies() []string
}
