package textparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(testRuleset())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "ocr artifacts repaired",
			in:   "casa con ba√±os y sal√≥n",
			want: "casa con baños y salón",
		},
		{
			name: "leading dot after currency",
			in:   "venta $.550 negociable",
			want: "venta $550 negociable",
		},
		{
			name: "spaces inside digit runs",
			in:   "precio 650 ,000 lps",
			want: "precio 650,000 lps",
		},
		{
			name: "space after separator",
			in:   "precio 1, 000,000",
			want: "precio 1,000,000",
		},
		{
			name: "confused digits repaired inside runs",
			in:   "venta $95O00 y terreno 2OO,000",
			want: "venta $95000 y terreno 200,000",
		},
		{
			name: "letters outside digit runs untouched",
			in:   "RES. EL SOL 150 mts2",
			want: "RES. EL SOL 150 mts2",
		},
		{
			name: "unit price removed",
			in:   "local $50/m2 en plaza",
			want: "local en plaza",
		},
		{
			name: "whitespace collapsed",
			in:   "  casa   grande \t centro ",
			want: "casa grande centro",
		},
		{
			name: "unknown input passes through",
			in:   "sin cambios aqui",
			want: "sin cambios aqui",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(testRuleset())

	inputs := []string{
		"OZ CENTRO: casa venta 3 hab 2 baños 150 m2 $95000",
		"venta $.550 negociable",
		"precio 650 ,000 lps",
		"ba√±os remodelados $50/m2",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input: %q", in)
	}
}

func TestMatchKeyFoldsDiacritics(t *testing.T) {
	assert.Equal(t, "banos y salon", matchKey("Baños  y SALÓN"))
}
