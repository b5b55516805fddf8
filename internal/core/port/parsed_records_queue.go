package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// ParsedRecordsQueuePort определяет контракт для отправки разобранных
// записей в очередь следующему этапу конвейера.
type ParsedRecordsQueuePort interface {
	Enqueue(ctx context.Context, records []domain.ParsedRecord, ingestionID uuid.UUID) error
}
