package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
)

func typeRecord(original, notes string) domain.ParsedRecord {
	return domain.ParsedRecord{
		ListingUID:   "SPC-1999-03-14-0001",
		PropertyType: original,
		Notes:        notes,
	}
}

func runTypeValidation(t *testing.T, records []domain.ParsedRecord) ([]domain.ParsedRecord, []domain.TypeDiagnostics) {
	t.Helper()
	uc := NewValidatePropertyTypeUseCase(2)
	diags, err := uc.Execute(context.Background(), &domain.Ruleset{Agency: "SERPECAL"}, records)
	require.NoError(t, err)
	require.Len(t, diags, len(records))
	return records, diags
}

func TestValidatePropertyTypeCorrectsByKeywords(t *testing.T) {
	records, diags := runTypeValidation(t, []domain.ParsedRecord{
		typeRecord(domain.TypeApartment, "casa venta 3 hab 150 m2"),
	})

	rec := records[0]
	require.NotNil(t, rec.TypeOutcome)
	assert.Equal(t, domain.StateCorrected, rec.TypeOutcome.State)
	assert.Equal(t, domain.TypeApartment, rec.TypeOutcome.Original)
	assert.Equal(t, domain.TypeHouse, rec.PropertyTypeValidated)
	assert.Equal(t, domain.TypeApartment, rec.PropertyType)
	assert.Equal(t, "POINTS:House(18)", rec.TypeOutcome.Basis)

	d := diags[0]
	assert.Equal(t, "SPC-1999-03-14-0001", d.ListingUID)
	assert.Equal(t, domain.TypeHouse, d.Winner)
	require.Len(t, d.Candidates, len(domain.TypePriority))
	assert.Equal(t, domain.TypeHouse, d.Candidates[0].Label)
	assert.Equal(t, 18, d.Candidates[0].Score)
	assert.Contains(t, d.Candidates[0].Rules, "HOUSE_KW+8")
}

func TestValidatePropertyTypeConfirmsOriginal(t *testing.T) {
	records, _ := runTypeValidation(t, []domain.ParsedRecord{
		typeRecord(domain.TypeHouse, "casa con sala y cocina, 2 baños"),
	})

	rec := records[0]
	assert.Equal(t, domain.StateConfirmed, rec.TypeOutcome.State)
	assert.Equal(t, domain.TypeHouse, rec.PropertyTypeValidated)
}

func TestValidatePropertyTypeNoCuesKeepsOriginal(t *testing.T) {
	records, diags := runTypeValidation(t, []domain.ParsedRecord{
		typeRecord("Dorms", "sin texto util"),
	})

	rec := records[0]
	assert.Equal(t, "Dorms", rec.PropertyTypeValidated)
	assert.Equal(t, "KEEP:NO_CUES", rec.TypeOutcome.Basis)
	assert.Equal(t, domain.StateConfirmed, rec.TypeOutcome.State)
	assert.Equal(t, "KEEP:NO_CUES", diags[0].Rationale)
}

func TestValidatePropertyTypeTieIsAmbiguous(t *testing.T) {
	records, _ := runTypeValidation(t, []domain.ParsedRecord{
		typeRecord(domain.TypeLand, "apartamento o casa"),
	})

	rec := records[0]
	require.NotNil(t, rec.TypeOutcome)
	assert.Equal(t, domain.StateAmbiguous, rec.TypeOutcome.State)
	assert.True(t, rec.TypeOutcome.Ambiguous)
	// при равном максимуме исходная метка сохраняется и в решении
	assert.Equal(t, domain.TypeLand, rec.PropertyTypeValidated)
}

func TestValidatePropertyTypeSectionOverrideWins(t *testing.T) {
	rec := typeRecord(domain.TypeHouse, "casa 3 hab")
	rec.SectionType = domain.TypeLand

	records, diags := runTypeValidation(t, []domain.ParsedRecord{rec})

	got := records[0]
	assert.Equal(t, domain.TypeLand, got.PropertyTypeValidated)
	assert.Equal(t, domain.StateCorrected, got.TypeOutcome.State)
	assert.Contains(t, diags[0].Candidates[3].Rules, "SECTION_HEADER+100")
}

func TestValidatePropertyTypeScoringIsMonotonic(t *testing.T) {
	base := typeRecord(domain.TypeApartment, "apartamento en torre")
	richer := typeRecord(domain.TypeApartment, "apartamento en torre con piscina")

	_, baseDiags := runTypeValidation(t, []domain.ParsedRecord{base})
	_, richerDiags := runTypeValidation(t, []domain.ParsedRecord{richer})

	baseScore := candidateScore(t, baseDiags[0], domain.TypeApartment)
	richerScore := candidateScore(t, richerDiags[0], domain.TypeApartment)
	assert.GreaterOrEqual(t, richerScore, baseScore)
}

func TestValidatePropertyTypePlantelResetsResidential(t *testing.T) {
	records, _ := runTypeValidation(t, []domain.ParsedRecord{
		typeRecord(domain.TypeHouse, "plantel para uso industrial"),
	})

	rec := records[0]
	assert.Equal(t, domain.TypeCommercial, rec.PropertyTypeValidated)
	assert.Equal(t, domain.StateCorrected, rec.TypeOutcome.State)
}

func TestValidatePropertyTypeNilRuleset(t *testing.T) {
	uc := NewValidatePropertyTypeUseCase(1)
	_, err := uc.Execute(context.Background(), nil, nil)
	require.Error(t, err)
}

func candidateScore(t *testing.T, d domain.TypeDiagnostics, label string) int {
	t.Helper()
	for _, c := range d.Candidates {
		if c.Label == label {
			return c.Score
		}
	}
	t.Fatalf("candidate %s not found", label)
	return 0
}
