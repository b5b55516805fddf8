package usecase

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contextkeys"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
)

// ParserFactory собирает разборщик под набор правил одного агентства.
// Ошибка означает дефект конфигурации, а не содержимого.
type ParserFactory func(rs *domain.Ruleset) (port.ListingParserPort, error)

// ParseBatchUseCase инкапсулирует разбор одной газетной полосы:
// выбор правил агентства, разметку на объявления и параллельный
// разбор каждого объявления в запись с фиксированной схемой.
type ParseBatchUseCase struct {
	rulesets port.RulesetProviderPort
	factory  ParserFactory
	workers  int
}

// NewParseBatchUseCase создает новый экземпляр use case.
func NewParseBatchUseCase(rulesets port.RulesetProviderPort, factory ParserFactory, workers int) *ParseBatchUseCase {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ParseBatchUseCase{
		rulesets: rulesets,
		factory:  factory,
		workers:  workers,
	}
}

// Execute разбирает полосу в записи. Порядок записей на выходе равен
// порядку объявлений во входе независимо от числа воркеров.
func (uc *ParseBatchUseCase) Execute(ctx context.Context, batch domain.ListingBatch, ingestionID uuid.UUID) ([]domain.ParsedRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "ParseBatch",
		"agency":       batch.Agency,
		"date":         batch.Date,
		"ingestion_id": ingestionID.String(),
	})

	ucLogger.Info("Use case started: parsing raw listing batch", nil)

	rs, err := uc.rulesets.Get(batch.Agency)
	if err != nil {
		ucLogger.Error("No ruleset configured for agency", err, nil)
		return nil, fmt.Errorf("failed to resolve ruleset for agency %s: %w", batch.Agency, err)
	}

	parser, err := uc.factory(rs)
	if err != nil {
		ucLogger.Error("Failed to build parser from ruleset", err, nil)
		return nil, fmt.Errorf("failed to build parser for agency %s: %w", batch.Agency, err)
	}

	raws := parser.SplitListings(batch.Lines)
	ucLogger.Info("Page segmented into listings", port.Fields{"listing_count": len(raws)})

	// результаты пишутся по индексу объявления, поэтому выход
	// упорядочен независимо от порядка завершения воркеров
	records := make([]domain.ParsedRecord, len(raws))

	var wg sync.WaitGroup
	sem := make(chan struct{}, uc.workers)

	for _, raw := range raws {
		wg.Add(1)
		sem <- struct{}{}
		go func(r domain.RawListing) {
			defer wg.Done()
			defer func() { <-sem }()

			rec := parser.ParseListing(r)
			rec.ListingUID = domain.BuildListingUID(rs.Mnemonic, batch.Date, r.Index)
			rec.IngestionID = ingestionID.String()
			rec.Date = batch.Date
			records[r.Index] = rec
		}(raw)
	}
	wg.Wait()

	ucLogger.Info("Use case finished: batch parsed", port.Fields{"record_count": len(records)})
	return records, nil
}
