package usecases_port

import (
	"context"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// ValidateTransactionPort — контракт пакетной сверки типа сделки
// со стандартизованной ценой.
type ValidateTransactionPort interface {
	Execute(ctx context.Context, ruleset *domain.Ruleset, records []domain.ParsedRecord) error
}
