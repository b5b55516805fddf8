package postgres

import (
	"testing"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildValuesPlaceholders(t *testing.T) {
	assert.Equal(t, "", buildValuesPlaceholders(nil, 3))
	assert.Equal(t, "", buildValuesPlaceholders([]string{"TEXT"}, 0))

	got := buildValuesPlaceholders([]string{"TEXT", "BIGINT"}, 2)
	assert.Equal(t, "($1::TEXT, $2::BIGINT), ($3::TEXT, $4::BIGINT)", got)
}

func TestFlatten(t *testing.T) {
	assert.Nil(t, flatten(nil))

	flat := flatten([][]interface{}{{"a", 1}, {"b", 2}})
	assert.Equal(t, []interface{}{"a", 1, "b", 2}, flat)
}

func TestRecordToRowMatchesColumnTypes(t *testing.T) {
	rec := domain.ParsedRecord{
		ListingNo:   1,
		ListingUID:  "SPC-1999-03-14-0001",
		IngestionID: "e3b0c442-98fc-1c14-9afb-f4c8996fb924",
		Agency:      "SERPECAL",
		Date:        "1999-03-14",
		Title:       "casa centro",
		Notes:       "casa centro $95,000",
		TypeOutcome: domain.Confirmed("House", "POINTS:House(18)"),
	}

	row := recordToRow(&rec)
	assert.Len(t, row, len(recordColumnTypes))
}

func TestDiagToRowEncodesCandidates(t *testing.T) {
	diag := domain.TypeDiagnostics{
		ListingUID:   "SPC-1999-03-14-0001",
		OriginalType: "Apartment",
		Winner:       "House",
		Rationale:    "POINTS:House(18)",
		Candidates: []domain.CandidateScore{
			{Label: "House", Score: 18, Rules: []string{"HOUSE_KW+8"}},
		},
	}

	row, err := diagToRow(&diag)
	require.NoError(t, err)
	require.Len(t, row, len(diagColumnTypes))
	assert.Contains(t, row[4].(string), "HOUSE_KW+8")
}

func TestNewRecordBatchStorageAdapterRejectsNilPool(t *testing.T) {
	_, err := NewRecordBatchStorageAdapter(nil)
	require.Error(t, err)
}
