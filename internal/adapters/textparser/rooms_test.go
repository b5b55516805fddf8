package textparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBedrooms(t *testing.T) {
	e := newRoomsExtractor(testRuleset())

	tests := []struct {
		name string
		in   string
		want *int
	}{
		{"digit before keyword", "casa 3 hab 2 baños", iptr(3)},
		{"parenthesized digit", "apartamento (2) habitaciones", iptr(2)},
		{"number word", "residencia de tres dormitorios", iptr(3)},
		{"folded keyword with accent", "4 habitaciónes amplias", iptr(4)},
		{"slash shorthand", "casa amplia 3/2 en col. centro", iptr(3)},
		{"digit far from keyword ignored", "casa en km 14 carretera", nil},
		{"out of range discarded", "25 hab en hotel", nil},
		{"no keyword", "casa bonita", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Bedrooms(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestExtractBathrooms(t *testing.T) {
	e := newRoomsExtractor(testRuleset())

	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"digit before keyword", "3 hab 2 baños", fptr(2)},
		{"decimal digit", "casa con 2.5 baños", fptr(2.5)},
		{"fraction half", "2 1/2 baños completos", fptr(2.5)},
		{"unicode half", "1½ baños", fptr(1.5)},
		{"y medio", "2 y medio baños", fptr(2.5)},
		{"number word", "dos baños", fptr(2)},
		{"slash shorthand", "casa 3/2 centro", fptr(2)},
		{"slash shorthand with half", "apto 2/1.5", fptr(1.5)},
		{"above ceiling discarded", "15 baños", nil},
		{"zero discarded", "0 baños", nil},
		{"no keyword", "casa bonita", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Bathrooms(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.001)
		})
	}
}

func TestExtractRoomsSlashDisabled(t *testing.T) {
	rs := testRuleset()
	rs.AllowSlashShorthand = false
	e := newRoomsExtractor(rs)

	assert.Nil(t, e.Bedrooms("casa 3/2 centro"))
	assert.Nil(t, e.Bathrooms("casa 3/2 centro"))
}

func iptr(v int) *int { return &v }
