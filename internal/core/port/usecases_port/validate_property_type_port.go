package usecases_port

import (
	"context"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// ValidatePropertyTypePort — контракт пакетной валидации типа недвижимости.
// Записи мутируются на месте, диагностика возвращается параллельным срезом.
type ValidatePropertyTypePort interface {
	Execute(ctx context.Context, ruleset *domain.Ruleset, records []domain.ParsedRecord) ([]domain.TypeDiagnostics, error)
}
