package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

func bandRuleset() *domain.Ruleset {
	return &domain.Ruleset{
		Agency: "SERPECAL",
		PriceBands: map[string]domain.PriceBand{
			domain.TypeHouse:     {RentMax: 20000, SaleMin: 5000, Tolerance: 0.1},
			domain.TypeApartment: {RentMax: 10000, SaleMin: 15000, Tolerance: 0.1},
		},
	}
}

func txRecord(ptype, transaction string, priceUSD *float64) domain.ParsedRecord {
	return domain.ParsedRecord{
		ListingUID:            "SPC-1999-03-14-0001",
		PropertyType:          ptype,
		PropertyTypeValidated: ptype,
		Transaction:           transaction,
		PriceUSD:              priceUSD,
	}
}

func usd(v float64) *float64 { return &v }

func TestValidateTransactionDecisions(t *testing.T) {
	tests := []struct {
		name      string
		record    domain.ParsedRecord
		wantLabel string
		wantState domain.ValidationState
		wantBasis string
	}{
		{
			name:      "sale within band confirmed",
			record:    txRecord(domain.TypeHouse, domain.TransactionSale, usd(95000)),
			wantLabel: domain.TransactionSale,
			wantState: domain.StateConfirmed,
			wantBasis: "OK:WITHIN_SALE_BAND",
		},
		{
			name:      "sale far below floor corrected to rent",
			record:    txRecord(domain.TypeHouse, domain.TransactionSale, usd(400)),
			wantLabel: domain.TransactionRent,
			wantState: domain.StateCorrected,
			wantBasis: "below-sale-floor",
		},
		{
			name:      "sale inside floor tolerance stays ambiguous",
			record:    txRecord(domain.TypeHouse, domain.TransactionSale, usd(4700)),
			wantLabel: domain.TransactionSale,
			wantState: domain.StateAmbiguous,
			wantBasis: "AMBIGUOUS:SALE_FLOOR_TOLERANCE",
		},
		{
			name:      "rent within band confirmed",
			record:    txRecord(domain.TypeHouse, domain.TransactionRent, usd(1500)),
			wantLabel: domain.TransactionRent,
			wantState: domain.StateConfirmed,
			wantBasis: "OK:WITHIN_RENT_BAND",
		},
		{
			name:      "rent far above ceiling corrected to sale",
			record:    txRecord(domain.TypeHouse, domain.TransactionRent, usd(30000)),
			wantLabel: domain.TransactionSale,
			wantState: domain.StateCorrected,
			wantBasis: "above-rent-ceiling",
		},
		{
			name:      "rent inside ceiling tolerance stays ambiguous",
			record:    txRecord(domain.TypeHouse, domain.TransactionRent, usd(21000)),
			wantLabel: domain.TransactionRent,
			wantState: domain.StateAmbiguous,
			wantBasis: "AMBIGUOUS:RENT_CEILING_TOLERANCE",
		},
		{
			name:      "rent outside both bands stays ambiguous",
			record:    txRecord(domain.TypeApartment, domain.TransactionRent, usd(12000)),
			wantLabel: domain.TransactionRent,
			wantState: domain.StateAmbiguous,
			wantBasis: "AMBIGUOUS:OUTSIDE_BOTH_BANDS",
		},
		{
			name:      "missing price skips",
			record:    txRecord(domain.TypeHouse, domain.TransactionSale, nil),
			wantLabel: domain.TransactionSale,
			wantState: domain.StateConfirmed,
			wantBasis: "SKIP:NO_PRICE",
		},
		{
			name:      "missing band skips",
			record:    txRecord(domain.TypeLand, domain.TransactionSale, usd(400)),
			wantLabel: domain.TransactionSale,
			wantState: domain.StateConfirmed,
			wantBasis: "SKIP:NO_PRICE_BAND",
		},
		{
			name:      "out of scope label skips",
			record:    txRecord(domain.TypeHouse, domain.TransactionSeasonal, usd(400)),
			wantLabel: domain.TransactionSeasonal,
			wantState: domain.StateConfirmed,
			wantBasis: "SKIP:OUT_OF_SCOPE_LABEL",
		},
	}

	uc := NewValidateTransactionUseCase(2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []domain.ParsedRecord{tt.record}
			err := uc.Execute(context.Background(), bandRuleset(), records)
			require.NoError(t, err)

			rec := records[0]
			require.NotNil(t, rec.TransactionOutcome)
			assert.Equal(t, tt.wantLabel, rec.TransactionValidated)
			assert.Equal(t, tt.wantState, rec.TransactionOutcome.State)
			assert.Equal(t, tt.wantBasis, rec.TransactionOutcome.Basis)
			assert.Equal(t, tt.record.Transaction, rec.Transaction)
		})
	}
}

// Цена внутри обеих полос никогда не ведёт к исправлению.
func TestValidateTransactionOverlapNeverCorrects(t *testing.T) {
	uc := NewValidateTransactionUseCase(1)

	for _, label := range []string{domain.TransactionSale, domain.TransactionRent} {
		records := []domain.ParsedRecord{txRecord(domain.TypeHouse, label, usd(10000))}
		err := uc.Execute(context.Background(), bandRuleset(), records)
		require.NoError(t, err)
		assert.Equal(t, label, records[0].TransactionValidated)
		assert.Equal(t, domain.StateConfirmed, records[0].TransactionOutcome.State)
	}
}

func TestValidateTransactionUsesValidatedType(t *testing.T) {
	uc := NewValidateTransactionUseCase(1)

	rec := txRecord(domain.TypeLand, domain.TransactionSale, usd(400))
	rec.PropertyTypeValidated = domain.TypeHouse

	records := []domain.ParsedRecord{rec}
	err := uc.Execute(context.Background(), bandRuleset(), records)
	require.NoError(t, err)
	// полоса берётся по сверенному типу, а не по первичной метке
	assert.Equal(t, domain.TransactionRent, records[0].TransactionValidated)
}

func TestValidateTransactionNilRuleset(t *testing.T) {
	uc := NewValidateTransactionUseCase(1)
	err := uc.Execute(context.Background(), nil, nil)
	require.Error(t, err)
}
