package port

import (
	"context"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// BatchSaveStats — статистика пакетного сохранения.
type BatchSaveStats struct {
	Records     int
	Diagnostics int
}

// RecordStoragePort определяет контракт пакетного сохранения записей
// и диагностических строк валидатора типа.
type RecordStoragePort interface {
	BatchSave(ctx context.Context, records []domain.ParsedRecord, diags []domain.TypeDiagnostics) (*BatchSaveStats, error)
}
