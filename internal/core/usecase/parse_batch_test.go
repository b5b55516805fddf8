package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
)

type stubRulesetProvider struct {
	rulesets map[string]*domain.Ruleset
}

func (p *stubRulesetProvider) Get(agency string) (*domain.Ruleset, error) {
	rs, ok := p.rulesets[agency]
	if !ok {
		return nil, fmt.Errorf("agency %s is not configured", agency)
	}
	return rs, nil
}

func (p *stubRulesetProvider) Agencies() []string {
	out := make([]string, 0, len(p.rulesets))
	for name := range p.rulesets {
		out = append(out, name)
	}
	return out
}

// stubParser разбирает каждую строку как отдельное объявление.
type stubParser struct{}

func (stubParser) SplitListings(lines []string) []domain.RawListing {
	out := make([]domain.RawListing, 0, len(lines))
	for _, line := range lines {
		out = append(out, domain.RawListing{Index: len(out), Text: line})
	}
	return out
}

func (stubParser) ParseListing(raw domain.RawListing) domain.ParsedRecord {
	return domain.ParsedRecord{
		ListingNo: raw.Index + 1,
		Title:     raw.Text,
		Notes:     raw.Text,
	}
}

func stubFactory(_ *domain.Ruleset) (port.ListingParserPort, error) {
	return stubParser{}, nil
}

func TestParseBatchPreservesInputOrder(t *testing.T) {
	provider := &stubRulesetProvider{rulesets: map[string]*domain.Ruleset{
		"SERPECAL": {Agency: "SERPECAL", Mnemonic: "SPC"},
	}}
	uc := NewParseBatchUseCase(provider, stubFactory, 4)

	lines := make([]string, 50)
	for i := range lines {
		lines[i] = fmt.Sprintf("listado numero %d", i)
	}
	batch := domain.ListingBatch{Agency: "SERPECAL", Date: "1999-03-14", Lines: lines}
	ingestionID := uuid.New()

	records, err := uc.Execute(context.Background(), batch, ingestionID)
	require.NoError(t, err)
	require.Len(t, records, len(lines))

	for i, rec := range records {
		assert.Equal(t, lines[i], rec.Notes)
		assert.Equal(t, i+1, rec.ListingNo)
		assert.Equal(t, "1999-03-14", rec.Date)
		assert.Equal(t, ingestionID.String(), rec.IngestionID)
	}
	assert.Equal(t, "SPC-1999-03-14-0001", records[0].ListingUID)
	assert.Equal(t, "SPC-1999-03-14-0050", records[49].ListingUID)
}

func TestParseBatchUnknownAgency(t *testing.T) {
	provider := &stubRulesetProvider{rulesets: map[string]*domain.Ruleset{}}
	uc := NewParseBatchUseCase(provider, stubFactory, 0)

	_, err := uc.Execute(context.Background(), domain.ListingBatch{Agency: "NADIE"}, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NADIE")
}

func TestParseBatchFactoryError(t *testing.T) {
	provider := &stubRulesetProvider{rulesets: map[string]*domain.Ruleset{
		"SERPECAL": {Agency: "SERPECAL", Mnemonic: "SPC"},
	}}
	factory := func(_ *domain.Ruleset) (port.ListingParserPort, error) {
		return nil, fmt.Errorf("broken strategy table")
	}
	uc := NewParseBatchUseCase(provider, factory, 2)

	_, err := uc.Execute(context.Background(), domain.ListingBatch{Agency: "SERPECAL"}, uuid.New())
	require.Error(t, err)
}
