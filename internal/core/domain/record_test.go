package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListingUID(t *testing.T) {
	assert.Equal(t, "SPC-1999-03-14-0001", BuildListingUID("SPC", "1999-03-14", 0))
	assert.Equal(t, "SPC-1999-03-14-0042", BuildListingUID("SPC", "1999-03-14", 41))
}

func TestRowMatchesColumnOrder(t *testing.T) {
	hood := "Lomas del Guijarro"
	beds := 3
	price := 450000.0
	currency := "LPS"

	r := ParsedRecord{
		ListingUID:            "SPC-1999-03-14-0001",
		Title:                 "VENDO CASA LOMAS",
		Neighborhood:          &hood,
		Bedrooms:              &beds,
		Price:                 &price,
		Currency:              &currency,
		Transaction:           "SALE",
		TransactionValidated:  "SALE",
		PropertyType:          "HOUSE",
		PropertyTypeValidated: "HOUSE",
		Agency:                "SERPECAL",
		Date:                  "1999-03-14",
		Notes:                 "VENDO CASA LOMAS 3 HAB...",
	}

	row := r.Row()
	assert.Len(t, row, len(RecordColumns))
	assert.Equal(t, "SPC-1999-03-14-0001", row[0])
	assert.Equal(t, "Lomas del Guijarro", row[2])
	assert.Equal(t, "3", row[3])
	// неизвлеченные числовые поля проецируются в пустую строку
	assert.Equal(t, "", row[4])
	assert.Equal(t, "450000", row[7])
	assert.Equal(t, "VENDO CASA LOMAS 3 HAB...", row[15])
}
