package usecases_port

import (
	"context"

	"github.com/google/uuid"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

// ParseBatchPort — контракт разбора одной газетной полосы в записи.
type ParseBatchPort interface {
	Execute(ctx context.Context, batch domain.ListingBatch, ingestionID uuid.UUID) ([]domain.ParsedRecord, error)
}
