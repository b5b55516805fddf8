package usecase

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contextkeys"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
)

// ValidateTransactionUseCase — пакетный проход сверки типа сделки
// со стандартизованной ценой по пороговой таблице типа недвижимости.
// Исправление применяется только при решающем правиле: цена строго
// за пределами собственной полосы с учётом допуска и внутри полосы
// противоположной метки. Ни одна запись не отбрасывается.
type ValidateTransactionUseCase struct {
	workers int
}

// NewValidateTransactionUseCase создает новый экземпляр use case.
func NewValidateTransactionUseCase(workers int) *ValidateTransactionUseCase {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ValidateTransactionUseCase{workers: workers}
}

// Execute сверяет все записи пакета. Записи мутируются на месте:
// заполняются TransactionValidated и TransactionOutcome.
func (uc *ValidateTransactionUseCase) Execute(ctx context.Context, ruleset *domain.Ruleset, records []domain.ParsedRecord) error {
	if ruleset == nil {
		return fmt.Errorf("validate transaction: ruleset is required")
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "ValidateTransaction",
		"agency":       ruleset.Agency,
		"record_count": len(records),
	})
	ucLogger.Info("Use case started: cross-checking transactions against price bands", nil)

	var wg sync.WaitGroup
	sem := make(chan struct{}, uc.workers)
	for i := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := decideTransaction(ruleset, &records[idx])
			records[idx].TransactionValidated = outcome.Final
			records[idx].TransactionOutcome = outcome
		}(i)
	}
	wg.Wait()

	corrected := 0
	ambiguous := 0
	for i := range records {
		switch records[i].TransactionOutcome.State {
		case domain.StateCorrected:
			corrected++
		case domain.StateAmbiguous:
			ambiguous++
		}
	}
	ucLogger.Info("Use case finished: transactions cross-checked", port.Fields{
		"corrected": corrected,
		"ambiguous": ambiguous,
	})
	return nil
}

// decideTransaction выносит решение по одной записи. Тип недвижимости
// берётся уже сверенный, когда проход типа отработал раньше.
func decideTransaction(rs *domain.Ruleset, rec *domain.ParsedRecord) *domain.ValidationOutcome {
	original := rec.Transaction

	if original != domain.TransactionSale && original != domain.TransactionRent {
		return domain.Confirmed(original, "SKIP:OUT_OF_SCOPE_LABEL")
	}
	if rec.PriceUSD == nil {
		return domain.Confirmed(original, "SKIP:NO_PRICE")
	}

	ptype := rec.PropertyTypeValidated
	if ptype == "" {
		ptype = rec.PropertyType
	}
	band, ok := rs.PriceBands[ptype]
	if !ok {
		return domain.Confirmed(original, "SKIP:NO_PRICE_BAND")
	}

	price := *rec.PriceUSD
	saleFloor := band.SaleMin * (1 - band.Tolerance)
	rentCeiling := band.RentMax * (1 + band.Tolerance)

	if original == domain.TransactionSale {
		switch {
		case price >= band.SaleMin:
			return domain.Confirmed(original, "OK:WITHIN_SALE_BAND")
		case price >= saleFloor:
			// в полосе допуска собственной метки исправление не решающее
			return domain.Ambiguous(original, "AMBIGUOUS:SALE_FLOOR_TOLERANCE")
		case price <= band.RentMax:
			return domain.Corrected(original, domain.TransactionRent, "below-sale-floor")
		default:
			return domain.Ambiguous(original, "AMBIGUOUS:OUTSIDE_BOTH_BANDS")
		}
	}

	switch {
	case price <= band.RentMax:
		return domain.Confirmed(original, "OK:WITHIN_RENT_BAND")
	case price <= rentCeiling:
		return domain.Ambiguous(original, "AMBIGUOUS:RENT_CEILING_TOLERANCE")
	case price >= band.SaleMin:
		return domain.Corrected(original, domain.TransactionSale, "above-rent-ceiling")
	default:
		return domain.Ambiguous(original, "AMBIGUOUS:OUTSIDE_BOTH_BANDS")
	}
}
